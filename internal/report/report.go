package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/khanhnv2901/framecheck/internal/checker"
	sharederrors "github.com/khanhnv2901/framecheck/internal/shared/errors"
)

// Format names an output format accepted by --format.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// ParseFormat validates a --format value. Empty means text.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatMarkdown:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("%w: %q (use text, json or markdown)", sharederrors.ErrUnsupportedFormat, s)
	}
}

// Report is the input of every writer.
type Report struct {
	GeneratedAt time.Time
	Outcomes    []checker.Outcome
}

// Summary counts outcomes by verdict.
type Summary struct {
	Total      int `json:"total"`
	Protected  int `json:"protected"`
	Vulnerable int `json:"vulnerable"`
	Errors     int `json:"errors"`
}

// New builds a Report stamped with the given time.
func New(outcomes []checker.Outcome, generatedAt time.Time) *Report {
	return &Report{GeneratedAt: generatedAt.UTC(), Outcomes: outcomes}
}

// Summary tallies the outcomes. Failed checks count as errors, not as
// vulnerable, even though their result carries vulnerable=true.
func (r *Report) Summary() Summary {
	s := Summary{Total: len(r.Outcomes)}
	for _, o := range r.Outcomes {
		switch {
		case o.Result.Error != nil:
			s.Errors++
		case o.Result.Vulnerable:
			s.Vulnerable++
		default:
			s.Protected++
		}
	}
	return s
}

// Writer renders a Report.
type Writer interface {
	Write(r *Report) error
}

// NewWriter returns the writer for a machine-oriented format. Text output is
// handled by the caller.
func NewWriter(format Format, output io.Writer) (Writer, error) {
	switch format {
	case FormatJSON:
		return NewJSONWriter(output, WithPrettyPrint()), nil
	case FormatMarkdown:
		return NewMarkdownWriter(output), nil
	default:
		return nil, fmt.Errorf("%w: %q", sharederrors.ErrUnsupportedFormat, format)
	}
}
