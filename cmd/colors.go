package cmd

import (
	"github.com/fatih/color"
	"github.com/khanhnv2901/framecheck/internal/checker"
)

var (
	colorSuccess = color.New(color.FgGreen).SprintFunc()
	colorInfo    = color.New(color.FgCyan).SprintFunc()
	colorWarn    = color.New(color.FgYellow).SprintFunc()
	colorError   = color.New(color.FgRed).SprintFunc()
)

const (
	statusProtected  = "PROTECTED"
	statusVulnerable = "VULNERABLE"
	statusError      = "ERROR"
)

// verdictStatus names the outcome of a single check.
func verdictStatus(result checker.CheckResult) string {
	switch {
	case result.Error != nil:
		return statusError
	case result.Vulnerable:
		return statusVulnerable
	default:
		return statusProtected
	}
}

func formatStatusWithColor(status string) string {
	switch status {
	case statusProtected:
		return colorSuccess(status)
	case statusVulnerable:
		return colorError(status)
	case statusError:
		return colorWarn(status)
	default:
		return status
	}
}
