package runningconfig

import (
	"bytes"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/runconfig/rcerrors"
)

// documentSeparator starts every fragment of the output stream.
const documentSeparator = "---\n"

// render serializes one fragment as a YAML document with two-space
// indentation. The result ends in a newline and carries no separator.
func render(path string, n *yaml.Node) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(n); err != nil {
		return "", &rcerrors.RenderError{Path: path, Cause: err}
	}
	if err := enc.Close(); err != nil {
		return "", &rcerrors.RenderError{Path: path, Cause: err}
	}
	return buf.String(), nil
}
