package checker

import (
	"context"
	"time"

	"github.com/khanhnv2901/framecheck/internal/shared/constants"
	"golang.org/x/sync/errgroup"
)

// Checker is the interface a check implementation must satisfy
type Checker interface {
	// Check performs the check for a single target
	Check(ctx context.Context, target string) (*Verdict, error)

	// Name returns the name of this checker (e.g., "check clickjacking")
	Name() string
}

// Outcome is one target's entry in a batch run.
type Outcome struct {
	Target   string
	Result   CheckResult
	Kind     ErrorKind // empty when the check produced a verdict
	Duration time.Duration
}

// OutcomeFunc is called once per finished target, possibly concurrently.
type OutcomeFunc func(Outcome)

// Runner checks many independent targets with bounded concurrency
type Runner struct {
	Concurrency int
	Locale      Locale
}

// RunChecks executes chk against every target. Results keep input order.
func (r *Runner) RunChecks(ctx context.Context, targets []string, chk Checker, onOutcome OutcomeFunc) []Outcome {
	concurrency := r.Concurrency
	if concurrency <= 0 {
		concurrency = constants.DefaultConcurrency
	}
	locale := r.Locale
	if locale == "" {
		locale = DefaultLocale
	}

	outcomes := make([]Outcome, len(targets))

	var g errgroup.Group
	g.SetLimit(concurrency)

	for i, target := range targets {
		g.Go(func() error {
			start := time.Now()
			verdict, err := chk.Check(ctx, target)

			outcome := Outcome{
				Target:   target,
				Result:   BuildResult(target, verdict, err, locale),
				Kind:     KindOf(err),
				Duration: time.Since(start),
			}
			outcomes[i] = outcome

			if onOutcome != nil {
				onOutcome(outcome)
			}
			return nil
		})
	}

	_ = g.Wait()
	return outcomes
}
