package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/planetpage/internal/model"
)

// JSONWriter outputs the history as a JSON document.
type JSONWriter struct {
	baseWriter

	indent       bool
	indentPrefix string
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables indented output.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint is WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// History is the JSON document written by JSONWriter.
type History struct {
	Version string              `json:"version,omitempty"`
	Summary Summary             `json:"summary"`
	Builds  []model.BuildRecord `json:"builds"`
}

// Write outputs the builds and their summary.
func (w *JSONWriter) Write(builds []model.BuildRecord) (int, error) {
	return w.writeJSON(History{
		Summary: Summarize(builds),
		Builds:  nonNil(builds),
	})
}

// WriteWithVersion is Write with the program version in the document.
func (w *JSONWriter) WriteWithVersion(builds []model.BuildRecord, version string) (int, error) {
	return w.writeJSON(History{
		Version: version,
		Summary: Summarize(builds),
		Builds:  nonNil(builds),
	})
}

func (w *JSONWriter) writeJSON(v any) (int, error) {
	var (
		data []byte
		err  error
	)
	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}

	data = append(data, '\n')
	return w.output.Write(data)
}

// nonNil keeps "builds": [] instead of null for an empty history.
func nonNil(builds []model.BuildRecord) []model.BuildRecord {
	if builds == nil {
		return []model.BuildRecord{}
	}
	return builds
}
