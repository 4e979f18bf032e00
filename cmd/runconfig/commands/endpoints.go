package commands

import (
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/erraggy/runconfig/internal/cliutil"
	"github.com/erraggy/runconfig/runningconfig"
)

// endpointRow is one selected endpoint as printed by the endpoints command.
type endpointRow struct {
	Source      string `json:"source"                 yaml:"source"`
	Path        string `json:"path"                   yaml:"path"`
	OperationID string `json:"operationId,omitempty"  yaml:"operationId,omitempty"`
	Shape       string `json:"shape"                  yaml:"shape"`
	Key         string `json:"key"                    yaml:"key"`
	StatusCode  string `json:"statusCode"             yaml:"statusCode"`
	MediaType   string `json:"mediaType,omitempty"    yaml:"mediaType,omitempty"`
	Schema      string `json:"schema"                 yaml:"schema"`
}

func newEndpointsCmd(g *globalFlags) *cobra.Command {
	f := &collectFlags{}
	var format string
	cmd := &cobra.Command{
		Use:   "endpoints [flags] [spec...]",
		Short: "List the configuration endpoints without fetching them",
		Long: `List the endpoints that get would fetch, in the order it would fetch
them, together with the response schema each one is reshaped by. No request
is made.`,
		Example: `  runconfig endpoints -s system.yaml -s services.yaml
  runconfig endpoints --prefix /network --format json api.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f.specs = append(f.specs, args...)
			return wrapErr("endpoints", runEndpoints(cmd, g, f, format))
		},
	}
	f.registerSpecFlags(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", cliutil.FormatTable, "output format: table, json or yaml")
	return cmd
}

func runEndpoints(cmd *cobra.Command, g *globalFlags, f *collectFlags, format string) error {
	if err := cliutil.ValidateOutputFormat(format); err != nil {
		return err
	}
	logger, err := newLogger(cmd.ErrOrStderr(), g)
	if err != nil {
		return err
	}
	cfg, err := loadSettings(cmd, g, f)
	if err != nil {
		return err
	}
	docs, err := loadSpecs(cfg.Specs)
	if err != nil {
		return err
	}

	rows := make([]endpointRow, 0)
	for _, doc := range docs {
		eps, err := runningconfig.Select(doc, cfg.PathPrefix)
		if err != nil {
			return err
		}
		logger.Debug("selected endpoints", "source", doc.SourcePath, "count", len(eps))
		for _, ep := range eps {
			rows = append(rows, toRow(ep))
		}
	}

	if format != cliutil.FormatTable {
		return cliutil.OutputStructured(cmd.OutOrStdout(), rows, format)
	}
	renderTable(cmd.OutOrStdout(), rows)
	return nil
}

func toRow(ep runningconfig.Endpoint) endpointRow {
	row := endpointRow{
		Source:     ep.Spec.SourcePath,
		Path:       ep.Path,
		Shape:      ep.Shape.String(),
		Key:        runningconfig.Name(ep.Path),
		StatusCode: ep.StatusCode,
		MediaType:  ep.MediaType,
		Schema:     ep.Schema.Pointer,
	}
	if ep.Operation != nil {
		row.OperationID = ep.Operation.OperationID
	}
	if ep.Shape.Plural() {
		row.Key = strings.TrimSpace(runningconfig.Prefix(ep.Path) + " <name>")
	}
	return row
}

func renderTable(w io.Writer, rows []endpointRow) {
	if len(rows) == 0 {
		cliutil.Writef(w, "%s\n", text.FgYellow.Sprint("No configuration endpoints found"))
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"SOURCE", "PATH", "SHAPE", "KEY", "STATUS", "SCHEMA"})
	for _, r := range rows {
		t.AppendRow(table.Row{r.Source, r.Path, r.Shape, r.Key, r.StatusCode, r.Schema})
	}
	t.AppendFooter(table.Row{"", "", "", "", "TOTAL", len(rows)})
	t.Render()
}
