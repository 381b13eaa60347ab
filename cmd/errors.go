package cmd

import (
	"errors"

	sharederrors "github.com/khanhnv2901/framecheck/internal/shared/errors"
)

const (
	exitFailure    = 1
	exitVulnerable = 2
)

// exitCode maps a command error onto the process exit status. A run that
// completed but found vulnerable targets is told apart from a failed run.
func exitCode(err error) int {
	if errors.Is(err, sharederrors.ErrVulnerableTargets) {
		return exitVulnerable
	}
	return exitFailure
}
