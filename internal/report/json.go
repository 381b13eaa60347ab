package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/khanhnv2901/framecheck/internal/checker"
)

// JSONWriter outputs the results as one JSON document.
type JSONWriter struct {
	output       io.Writer
	indent       bool
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithPrettyPrint enables two-space indentation.
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentString = "  "
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{output: output}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

type jsonDocument struct {
	GeneratedAt time.Time             `json:"generated_at"`
	Summary     Summary               `json:"summary"`
	Results     []checker.CheckResult `json:"results"`
}

// Write encodes the report. Results keep the order of the targets.
func (w *JSONWriter) Write(r *Report) error {
	doc := jsonDocument{
		GeneratedAt: r.GeneratedAt,
		Summary:     r.Summary(),
		Results:     make([]checker.CheckResult, 0, len(r.Outcomes)),
	}
	for _, o := range r.Outcomes {
		doc.Results = append(doc.Results, o.Result)
	}

	enc := json.NewEncoder(w.output)
	enc.SetEscapeHTML(false)
	if w.indent {
		enc.SetIndent("", w.indentString)
	}
	return enc.Encode(doc)
}
