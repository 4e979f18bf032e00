// Package options provides shared utilities for option validation across packages.
package options

import "github.com/erraggy/runconfig/rcerrors"

// RequireOne ensures exactly one of several mutually exclusive inputs is set.
// option names the inputs in the returned error (e.g. "WithFilePath/WithBytes").
// sources is a variadic list of booleans indicating whether each input is set.
func RequireOne(option string, sources ...bool) error {
	count := 0
	for _, set := range sources {
		if set {
			count++
		}
	}

	switch {
	case count == 0:
		return &rcerrors.ConfigError{Option: option, Message: "one input must be specified"}
	case count > 1:
		return &rcerrors.ConfigError{Option: option, Message: "only one input may be specified"}
	}
	return nil
}
