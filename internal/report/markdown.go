package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/khanhnv2901/framecheck/internal/checker"
	"github.com/nao1215/markdown"
)

// MarkdownWriter outputs a summary table and per-target results in Markdown.
type MarkdownWriter struct {
	output io.Writer
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{output: output}
}

// Write renders the report.
func (w *MarkdownWriter) Write(r *Report) error {
	md := markdown.NewMarkdown(w.output)
	summary := r.Summary()

	md.H1("Clickjacking Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Generated", r.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
			{"Targets", strconv.Itoa(summary.Total)},
			{"Protected", strconv.Itoa(summary.Protected)},
			{"Vulnerable", strconv.Itoa(summary.Vulnerable)},
			{"Errors", strconv.Itoa(summary.Errors)},
		},
	})
	md.PlainText("")

	switch {
	case summary.Vulnerable > 0:
		md.Warningf("%d target(s) can be framed by any origin.", summary.Vulnerable)
	case summary.Errors > 0:
		md.Note("Some targets could not be checked.")
	case summary.Total > 0:
		md.Tip("Every target sends a frame protection header.")
	}
	md.PlainText("")

	md.H2("Results")
	md.PlainText("")

	if len(r.Outcomes) == 0 {
		md.PlainText("No targets were checked.")
		return md.Build()
	}

	rows := make([][]string, 0, len(r.Outcomes))
	for _, o := range r.Outcomes {
		rows = append(rows, resultRow(o.Result))
	}
	md.Table(markdown.TableSet{
		Header: []string{"URL", "Status", "X-Frame-Options", "CSP frame-ancestors", "Detail"},
		Rows:   rows,
	})

	return md.Build()
}

func resultRow(res checker.CheckResult) []string {
	status := "⚠️ Vulnerable"
	detail := res.Message
	switch {
	case res.Error != nil:
		status = "❌ Error"
		detail = *res.Error
	case !res.Vulnerable:
		status = "✅ Protected"
	}

	return []string{
		cell(res.URL),
		status,
		cell(valueOrDash(res.XFrameOptions)),
		cell(valueOrDash(res.CSPFrameAncestors)),
		cell(detail),
	}
}

func valueOrDash(p *string) string {
	if p == nil || *p == "" {
		return "-"
	}
	return *p
}

// cell keeps header values from breaking the table layout.
func cell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", `\|`)
}
