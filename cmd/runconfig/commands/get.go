package commands

import (
	"github.com/spf13/cobra"

	"github.com/erraggy/runconfig/internal/cliutil"
	"github.com/erraggy/runconfig/internal/fileutil"
	"github.com/erraggy/runconfig/runningconfig"
	"github.com/erraggy/runconfig/validator"
)

func newGetCmd(g *globalFlags) *cobra.Command {
	f := &collectFlags{}
	cmd := &cobra.Command{
		Use:   "get [flags] [spec...]",
		Short: "Fetch and print the running configuration",
		Long: `Fetch every configuration endpoint declared by the OpenAPI documents and
print the responses as a YAML stream, one "---" document per endpoint in
document and path order. The first failure aborts the run and nothing is
printed.`,
		Example: `  runconfig get --server http://127.0.0.1:8080 -s system.yaml -s services.yaml
  runconfig get --socket /run/svc.sock --prefix /network api.yaml
  runconfig get --config runconfig.yaml --validate -o running.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f.specs = append(f.specs, args...)
			return wrapErr("get", runGet(cmd, g, f))
		},
	}
	f.registerSpecFlags(cmd)
	f.registerFetchFlags(cmd)
	return cmd
}

func runGet(cmd *cobra.Command, g *globalFlags, f *collectFlags) error {
	logger, err := newLogger(cmd.ErrOrStderr(), g)
	if err != nil {
		return err
	}
	cfg, err := loadSettings(cmd, g, f)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	docs, err := loadSpecs(cfg.Specs)
	if err != nil {
		return err
	}

	opts := []runningconfig.Option{
		runningconfig.WithServer(cfg.Server, cfg.FetchOptions()...),
		runningconfig.WithPathPrefix(cfg.PathPrefix),
		runningconfig.WithConcurrency(cfg.Concurrency),
		runningconfig.WithLogger(logger),
	}
	if cfg.Validate {
		v, err := validator.New()
		if err != nil {
			return err
		}
		opts = append(opts, runningconfig.WithValidator(v))
	}

	out, err := runningconfig.GetWithOptions(cmd.Context(), docs, opts...)
	if err != nil {
		return err
	}

	if cfg.Output != "" {
		if err := fileutil.WriteOwnerOnly(cfg.Output, []byte(out)); err != nil {
			return err
		}
		logger.Info("wrote running configuration", "file", cfg.Output, "bytes", len(out))
		return nil
	}
	cliutil.Writef(cmd.OutOrStdout(), "%s", out)
	return nil
}
