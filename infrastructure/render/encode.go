package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/ahrav/typereader/internal/ports"
)

var (
	_ ports.Encoder = JSONEncoder{}
	_ ports.Encoder = YAMLEncoder{}
	_ ports.Encoder = MsgpackEncoder{}
)

// Formats lists the names accepted by NewEncoder.
var Formats = []string{"json", "yaml", "msgpack"}

// NewEncoder returns the encoder for format.
func NewEncoder(format string) (ports.Encoder, error) {
	switch strings.ToLower(format) {
	case "json", "":
		return JSONEncoder{Indent: "  "}, nil
	case "yaml", "yml":
		return YAMLEncoder{}, nil
	case "msgpack":
		return MsgpackEncoder{}, nil
	default:
		return nil, fmt.Errorf("%w: %q (supported: %s)", ports.ErrUnsupportedFormat, format, strings.Join(Formats, ", "))
	}
}

// JSONEncoder writes indented JSON.
type JSONEncoder struct {
	Indent string
}

// Format implements ports.Encoder.
func (JSONEncoder) Format() string { return "json" }

// Encode implements ports.Encoder.
func (e JSONEncoder) Encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", e.Indent)
	if err := enc.Encode(v); err != nil {
		return ports.NewRenderError("json", err)
	}
	return nil
}

// YAMLEncoder writes YAML with two-space indentation.
type YAMLEncoder struct{}

// Format implements ports.Encoder.
func (YAMLEncoder) Format() string { return "yaml" }

// Encode implements ports.Encoder.
func (YAMLEncoder) Encode(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return ports.NewRenderError("yaml", err)
	}
	if err := enc.Close(); err != nil {
		return ports.NewRenderError("yaml", err)
	}
	return nil
}

// MsgpackEncoder writes a compact msgpack document, keyed by the msgpack
// struct tags of the value.
type MsgpackEncoder struct{}

// Format implements ports.Encoder.
func (MsgpackEncoder) Format() string { return "msgpack" }

// Encode implements ports.Encoder.
func (MsgpackEncoder) Encode(w io.Writer, v any) error {
	enc := msgpack.NewEncoder(w)
	if err := enc.Encode(v); err != nil {
		return ports.NewRenderError("msgpack", err)
	}
	return nil
}
