package validator

import (
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
)

// Option is a function that configures a Validator
type Option func(*validatorConfig) error

type validatorConfig struct {
	draft        *jsonschema.Draft
	assertFormat bool
	lang         language.Tag
}

// WithDraft forces the JSON Schema draft used for every document instead of
// choosing it from the OpenAPI version.
func WithDraft(d *jsonschema.Draft) Option {
	return func(cfg *validatorConfig) error {
		if d == nil {
			return fmt.Errorf("draft cannot be nil")
		}
		cfg.draft = d
		return nil
	}
}

// WithAssertFormat makes "format" keywords (date-time, ipv4, ...) assertions
// rather than annotations. Default: false.
func WithAssertFormat(enabled bool) Option {
	return func(cfg *validatorConfig) error {
		cfg.assertFormat = enabled
		return nil
	}
}

// WithLanguage sets the language of failure messages.
// Default: English.
func WithLanguage(tag language.Tag) Option {
	return func(cfg *validatorConfig) error {
		cfg.lang = tag
		return nil
	}
}
