package plan

import (
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// FormatYAML writes the compiled document as YAML to the writer.
func (d *Document) FormatYAML(_ context.Context, w io.Writer) error {
	data, err := yaml.Marshal(d)
	if err != nil {
		return WrapError(err)
	}

	_, err = w.Write(data)

	return err
}

// FormatJSON writes the compiled document as JSON to the writer.
func (d *Document) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(d, "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(d)
	}

	if err != nil {
		return WrapError(err)
	}

	_, err = w.Write(append(data, '\n'))

	return err
}
