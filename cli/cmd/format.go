package cmd

import (
	"context"
	"encoding/json"
	"io"

	"github.com/goccy/go-yaml"
)

// Format selects how a command writes its result.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// indent is the indent width of JSON and YAML output.
const indent = 2

// write encodes v as JSON or YAML, or calls text for [FormatText].
func write(
	ctx context.Context,
	w io.Writer,
	format Format,
	v any,
	text func(io.Writer) error,
) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		if err := enc.Encode(v); err != nil {
			return ErrJSONMarshal.Wrap(err)
		}

		return nil

	case FormatYAML:
		data, err := yaml.MarshalContext(ctx, v, yaml.Indent(indent))
		if err != nil {
			return ErrYAMLMarshal.Wrap(err)
		}

		_, err = w.Write(data)

		return err

	default:
		return text(w)
	}
}
