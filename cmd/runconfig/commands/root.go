// Package commands provides the runconfig command tree.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/erraggy/runconfig/rcerrors"
	"github.com/erraggy/runconfig/runningconfig"
)

// Exit codes returned by Execute.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error.
	ExitCodeError = 1
	// ExitCodeConfig indicates invalid settings or an unusable OpenAPI document.
	ExitCodeConfig = 2
	// ExitCodeFetch indicates the service could not be reached or answered with an error status.
	ExitCodeFetch = 3
	// ExitCodeValidation indicates a response did not match its schema.
	ExitCodeValidation = 4
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configFile string
	logLevel   string
	logFormat  string
}

// NewRootCmd builds the command tree. stdout receives command output;
// stderr receives logs and errors.
func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:   "runconfig",
		Short: "Collect the running configuration of a service",
		Long: `runconfig reads OpenAPI documents, selects every GET endpoint tagged
"config" that takes no parameters, fetches them from the service and prints
the responses as a single YAML stream, one "---" document per endpoint.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&g.configFile, "config", "", "YAML config file with server, socket, specs and other settings")
	pf.StringVar(&g.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	pf.StringVar(&g.logFormat, "log-format", "text", "log format: text or json")

	root.AddCommand(
		newGetCmd(g),
		newEndpointsCmd(g),
		newMCPCmd(),
		newVersionCmd(),
	)
	return root
}

// Execute runs the command line in args and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd(stdout, stderr)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitCode(err)
	}
	return ExitCodeSuccess
}

// ExitCode maps an error to the process exit code for scripting.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitCodeSuccess
	case errors.Is(err, rcerrors.ErrValidation):
		return ExitCodeValidation
	case errors.Is(err, rcerrors.ErrTransport), errors.Is(err, rcerrors.ErrStatus):
		return ExitCodeFetch
	case errors.Is(err, rcerrors.ErrConfig), errors.Is(err, rcerrors.ErrSchema), errors.Is(err, rcerrors.ErrReference):
		return ExitCodeConfig
	}
	return ExitCodeError
}

// newLogger builds the slog logger selected by the global flags.
func newLogger(w io.Writer, g *globalFlags) (runningconfig.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(g.logLevel)); err != nil {
		return nil, &rcerrors.ConfigError{Option: "log-level", Value: g.logLevel, Message: "must be debug, info, warn or error"}
	}
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	switch strings.ToLower(g.logFormat) {
	case "text":
		h = slog.NewTextHandler(w, opts)
	case "json":
		h = slog.NewJSONHandler(w, opts)
	default:
		return nil, &rcerrors.ConfigError{Option: "log-format", Value: g.logFormat, Message: "must be text or json"}
	}
	return runningconfig.NewSlogAdapter(slog.New(h)), nil
}
