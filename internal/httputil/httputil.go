// Package httputil provides HTTP-related helpers and constants shared by the
// spec loader, the fetcher and the collector.
package httputil

import (
	"errors"
	"fmt"
	"mime"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/htmlindex"
)

// HTTP Status Code Constants
const (
	StatusCodeLength = 3   // Standard length of HTTP status codes (e.g., "200", "404")
	MinStatusCode    = 100 // Minimum valid HTTP status code
	MaxStatusCode    = 599 // Maximum valid HTTP status code
	WildcardChar     = 'X' // Wildcard character used in status code patterns (e.g., "2XX")
	DefaultResponse  = "default"
)

// Header and media type constants
const (
	MediaTypeJSON     = "application/json"
	HeaderAccept      = "Accept"
	HeaderContentType = "Content-Type"
	HeaderUserAgent   = "User-Agent"
)

// Wildcard boundary characters for validation
const (
	minWildcardBoundary = '1'
	maxWildcardBoundary = '5'
)

// IsSuccess reports whether code is a 2xx status.
func IsSuccess(code int) bool {
	return code >= 200 && code <= 299
}

// IsResponseCode checks if a responses-object key names a response.
// Valid values are:
//   - "default" for default response
//   - Wildcard patterns: 1XX, 2XX, 3XX, 4XX, 5XX (case-insensitive X)
//   - Numeric codes: 100-599
//
// Extension keys ("x-...") are not response codes.
func IsResponseCode(code string) bool {
	if code == DefaultResponse {
		return true
	}
	if len(code) != StatusCodeLength {
		return false
	}

	if isWildcard(code[1]) && isWildcard(code[2]) {
		return code[0] >= minWildcardBoundary && code[0] <= maxWildcardBoundary
	}

	n, err := strconv.Atoi(code)
	return err == nil && n >= MinStatusCode && n <= MaxStatusCode
}

func isWildcard(c byte) bool {
	return c == WildcardChar || c == 'x'
}

// WildcardFor returns the range pattern covering a numeric status code,
// e.g. "200" -> "2XX". Returns "" for anything that is not a 3-digit code.
func WildcardFor(code string) string {
	if len(code) != StatusCodeLength || code[0] < '1' || code[0] > '5' {
		return ""
	}
	return string(code[0]) + "XX"
}

// IsJSONMediaType reports whether mediaType denotes JSON: application/json
// (parameters allowed) or any structured-syntax "+json" subtype.
func IsJSONMediaType(mediaType string) bool {
	mt, _, err := mime.ParseMediaType(mediaType)
	if err != nil {
		return false
	}
	if mt == MediaTypeJSON {
		return true
	}
	_, subtype, ok := strings.Cut(mt, "/")
	return ok && strings.HasSuffix(subtype, "+json")
}

// Charset returns the lower-cased charset parameter of a Content-Type
// header value, or "" if none is declared or the header is malformed.
func Charset(contentType string) string {
	if contentType == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(params["charset"]))
}

// ErrInvalidUTF8 is returned by DecodeText when the (decoded) body is not
// valid UTF-8.
var ErrInvalidUTF8 = errors.New("body is not valid UTF-8")

// DecodeText converts body to UTF-8 using the charset declared in
// contentType and returns the decoded bytes with the charset that was used.
// Bodies without a charset, or declared as UTF-8, are checked strictly
// rather than transcoded.
func DecodeText(body []byte, contentType string) ([]byte, string, error) {
	charset := Charset(contentType)
	switch charset {
	case "", "utf-8", "utf8":
		if !utf8.Valid(body) {
			return nil, charset, ErrInvalidUTF8
		}
		return body, charset, nil
	}

	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, charset, fmt.Errorf("unsupported charset %q: %w", charset, err)
	}
	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return nil, charset, err
	}
	if !utf8.Valid(decoded) {
		return nil, charset, ErrInvalidUTF8
	}
	return decoded, charset, nil
}
