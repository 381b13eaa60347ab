// Package report renders batch check outcomes for the check command.
//
// JSONWriter emits the CheckResult records as machine-readable output.
// MarkdownWriter produces a shareable summary built with nao1215/markdown.
// Terminal text output stays in cmd, next to the colour helpers.
package report
