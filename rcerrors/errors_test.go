package rcerrors

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestTransportError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		err := &TransportError{
			Path:  "/system",
			URL:   "http://localhost:8080/system",
			Cause: errors.New("connection refused"),
		}
		want := "transport error fetching /system (http://localhost:8080/system): connection refused"
		if err.Error() != want {
			t.Errorf("unexpected error message: %s", err.Error())
		}
	})

	t.Run("Error message with minimal fields", func(t *testing.T) {
		err := &TransportError{}
		if err.Error() != "transport error" {
			t.Errorf("unexpected error message: %s", err.Error())
		}
	})

	t.Run("Unwrap exposes deadline", func(t *testing.T) {
		err := &TransportError{Cause: context.DeadlineExceeded}
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Error("errors.Is should see through to the cause")
		}
		if !errors.Is(err, ErrTransport) {
			t.Error("errors.Is(err, ErrTransport) should be true")
		}
	})
}

func TestStatusError(t *testing.T) {
	t.Run("Error message includes status and body", func(t *testing.T) {
		err := &StatusError{Path: "/services", StatusCode: 503, Body: "  backend down\n"}
		if err.Error() != "unexpected status 503 from /services: backend down" {
			t.Errorf("unexpected error message: %s", err.Error())
		}
	})

	t.Run("Error message without body", func(t *testing.T) {
		err := &StatusError{StatusCode: 404}
		if err.Error() != "unexpected status 404" {
			t.Errorf("unexpected error message: %s", err.Error())
		}
	})

	t.Run("errors.As extracts status", func(t *testing.T) {
		wrapped := fmt.Errorf("collecting: %w", &StatusError{Path: "/x", StatusCode: 500, Body: "boom"})
		var statusErr *StatusError
		if !errors.As(wrapped, &statusErr) {
			t.Fatal("errors.As should find StatusError")
		}
		if statusErr.StatusCode != 500 || statusErr.Body != "boom" {
			t.Errorf("unexpected fields: %+v", statusErr)
		}
		if !errors.Is(wrapped, ErrStatus) {
			t.Error("errors.Is(wrapped, ErrStatus) should be true")
		}
	})
}

func TestDecodeError(t *testing.T) {
	t.Run("Defaults charset to utf-8", func(t *testing.T) {
		err := &DecodeError{Path: "/system"}
		if err.Error() != "decode error in /system (charset utf-8)" {
			t.Errorf("unexpected error message: %s", err.Error())
		}
	})

	t.Run("Reports explicit charset", func(t *testing.T) {
		err := &DecodeError{Charset: "shift_jis", Cause: errors.New("bad sequence")}
		if err.Error() != "decode error (charset shift_jis): bad sequence" {
			t.Errorf("unexpected error message: %s", err.Error())
		}
		if !errors.Is(err, ErrDecode) {
			t.Error("errors.Is(err, ErrDecode) should be true")
		}
	})
}

func TestParseError(t *testing.T) {
	t.Run("Error message with line and column", func(t *testing.T) {
		err := &ParseError{
			Source:  "/path/to/file.yaml",
			Line:    42,
			Column:  10,
			Message: "invalid syntax",
			Cause:   errors.New("underlying error"),
		}
		if err.Error() != "parse error in /path/to/file.yaml at line 42, column 10: invalid syntax: underlying error" {
			t.Errorf("unexpected error message: %s", err.Error())
		}
	})

	t.Run("Error message with offset", func(t *testing.T) {
		err := &ParseError{Source: "/system", Offset: 7, Message: "invalid JSON"}
		if err.Error() != "parse error in /system at offset 7: invalid JSON" {
			t.Errorf("unexpected error message: %s", err.Error())
		}
	})

	t.Run("Error message with minimal fields", func(t *testing.T) {
		err := &ParseError{}
		if err.Error() != "parse error" {
			t.Errorf("unexpected error message: %s", err.Error())
		}
	})

	t.Run("Unwrap returns nil when no cause", func(t *testing.T) {
		err := &ParseError{}
		if err.Unwrap() != nil {
			t.Error("Unwrap should return nil when no cause")
		}
	})
}

func TestRenderError(t *testing.T) {
	err := &RenderError{Path: "/system", Cause: errors.New("cannot marshal")}
	if err.Error() != "render error for /system: cannot marshal" {
		t.Errorf("unexpected error message: %s", err.Error())
	}
	if !errors.Is(err, ErrRender) {
		t.Error("errors.Is(err, ErrRender) should be true")
	}
}

func TestValidationError(t *testing.T) {
	t.Run("Causes take precedence over cause", func(t *testing.T) {
		err := &ValidationError{
			Path:          "/system",
			SchemaPointer: "#/components/schemas/System",
			Causes:        []string{"/hostname: got number, want string", "/: missing property 'timezone'"},
			Cause:         errors.New("ignored in message"),
		}
		want := "validation error in /system against #/components/schemas/System: /hostname: got number, want string; /: missing property 'timezone'"
		if err.Error() != want {
			t.Errorf("unexpected error message: %s", err.Error())
		}
	})

	t.Run("Falls back to cause", func(t *testing.T) {
		err := &ValidationError{Cause: errors.New("compile failed")}
		if err.Error() != "validation error: compile failed" {
			t.Errorf("unexpected error message: %s", err.Error())
		}
	})
}

func TestSchemaError(t *testing.T) {
	err := &SchemaError{Source: "system.yaml", Path: "/system", Message: "no application/json content for 200 response"}
	if err.Error() != "schema error for /system in system.yaml: no application/json content for 200 response" {
		t.Errorf("unexpected error message: %s", err.Error())
	}
	if !errors.Is(err, ErrSchema) {
		t.Error("errors.Is(err, ErrSchema) should be true")
	}
}

func TestReferenceError(t *testing.T) {
	t.Run("Circular reference", func(t *testing.T) {
		err := &ReferenceError{Ref: "#/components/schemas/Node", IsCircular: true}
		if err.Error() != "circular reference: #/components/schemas/Node" {
			t.Errorf("unexpected error message: %s", err.Error())
		}
		if !errors.Is(err, ErrCircularReference) || !errors.Is(err, ErrReference) {
			t.Error("circular reference should match both sentinels")
		}
	})

	t.Run("Plain reference error does not match circular", func(t *testing.T) {
		err := &ReferenceError{Ref: "#/missing", Message: "not found"}
		if err.Error() != "reference error: #/missing: not found" {
			t.Errorf("unexpected error message: %s", err.Error())
		}
		if errors.Is(err, ErrCircularReference) {
			t.Error("non-circular reference should not match ErrCircularReference")
		}
	})
}

func TestConfigError(t *testing.T) {
	err := &ConfigError{Option: "concurrency", Value: -1, Message: "must be positive"}
	if err.Error() != "configuration error for concurrency (value: -1): must be positive" {
		t.Errorf("unexpected error message: %s", err.Error())
	}
	if !errors.Is(err, ErrConfig) {
		t.Error("errors.Is(err, ErrConfig) should be true")
	}
}

func TestSentinelErrors(t *testing.T) {
	sentinels := []error{
		ErrTransport, ErrStatus, ErrDecode, ErrParse, ErrRender,
		ErrValidation, ErrSchema, ErrReference, ErrCircularReference, ErrConfig,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && errors.Is(a, b) {
				t.Errorf("sentinel %v should not match %v", a, b)
			}
		}
	}
}
