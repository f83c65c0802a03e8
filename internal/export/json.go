package export

import (
	"encoding/json"
	"io"
)

// JSONEncoder writes the bundle as a single JSON document.
// This format is meant for tool integration and for the history store.
//
// Design decision: We use standard encoding/json because the bundle is plain
// data with json tags and the output must round-trip through the same
// package when a stored run is read back.
type JSONEncoder struct {
	// indent enables pretty-printed output.
	indent bool

	// indentPrefix is prepended to each line of indented output.
	indentPrefix string

	// indentString is the indentation of one level.
	indentString string
}

// JSONEncoderOption configures a JSONEncoder.
type JSONEncoderOption func(*JSONEncoder)

// WithIndent enables pretty-printed JSON output.
func WithIndent(prefix, indent string) JSONEncoderOption {
	return func(e *JSONEncoder) {
		e.indent = true
		e.indentPrefix = prefix
		e.indentString = indent
	}
}

// WithPrettyPrint is WithIndent("", "  ").
func WithPrettyPrint() JSONEncoderOption {
	return WithIndent("", "  ")
}

// NewJSONEncoder creates a JSONEncoder. Output is compact by default.
func NewJSONEncoder(opts ...JSONEncoderOption) *JSONEncoder {
	e := &JSONEncoder{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Encode writes b to w followed by a newline.
func (e *JSONEncoder) Encode(w io.Writer, b Bundle) error {
	var (
		data []byte
		err  error
	)
	if e.indent {
		data, err = json.MarshalIndent(b, e.indentPrefix, e.indentString)
	} else {
		data, err = json.Marshal(b)
	}
	if err != nil {
		return err
	}

	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
