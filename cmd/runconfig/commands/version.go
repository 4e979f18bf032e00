package commands

import (
	"github.com/spf13/cobra"

	"github.com/erraggy/runconfig"
	"github.com/erraggy/runconfig/internal/cliutil"
)

func newVersionCmd() *cobra.Command {
	var short bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			if short {
				cliutil.Writef(cmd.OutOrStdout(), "runconfig %s\n", runconfig.Version())
				return
			}
			cliutil.Writef(cmd.OutOrStdout(), "runconfig\n%s\n", runconfig.BuildInfo())
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "print only the version")
	return cmd
}
