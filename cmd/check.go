package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/khanhnv2901/framecheck/internal/checker"
	"github.com/khanhnv2901/framecheck/internal/report"
	"github.com/khanhnv2901/framecheck/internal/shared/constants"
	sharederrors "github.com/khanhnv2901/framecheck/internal/shared/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var checkCmd = &cobra.Command{
	Use:   "check <url> [url...]",
	Short: "Check one or more URLs for clickjacking protection",
	Long: `Fetch each URL once and report whether it sends X-Frame-Options or a
Content-Security-Policy frame-ancestors directive that prevents framing.

URLs without a scheme are checked over https. Targets are independent and are
checked in parallel, bounded by --concurrency.`,
	Example: `  framecheck check example.com
  framecheck check -c 8 --format json https://a.example http://b.example
  framecheck check --fail-on-vulnerable --format markdown example.com > report.md`,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	appCtx := getAppContext(cmd)
	cfg := appCtx.Config.Check

	targets := collectTargets(args)
	if len(targets) == 0 {
		return sharederrors.ErrNoTargets
	}
	if cfg.Concurrency < 1 || cfg.Concurrency > constants.MaxConcurrency {
		return fmt.Errorf("%w: %d (allowed 1-%d)", sharederrors.ErrInvalidConcurrency, cfg.Concurrency, constants.MaxConcurrency)
	}
	format, err := report.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}
	locale, err := checker.ParseLocale(cfg.Lang)
	if err != nil {
		return err
	}

	timeout := secondsOrDefault(cfg.TimeoutSecs)
	log := appCtx.Logger
	if log == nil {
		log = zap.NewNop()
	}

	// Targets come from the operator, so private addresses stay reachable.
	fetcher := checker.NewRestyFetcher(checker.FetcherOptions{Timeout: timeout})
	chk := checker.NewClickjackingChecker(fetcher, timeout)
	runner := &checker.Runner{Concurrency: cfg.Concurrency, Locale: locale}

	var progress *progressPrinter
	if cfg.ProgressEnabled {
		progress = newProgressPrinter(cmd.ErrOrStderr(), len(targets), "clickjacking")
		progress.Start()
	}

	log.Debug("check_started",
		zap.Int("targets", len(targets)),
		zap.Int("concurrency", cfg.Concurrency),
		zap.Duration("timeout", timeout),
	)

	outcomes := runner.RunChecks(commandContext(cmd), targets, chk, func(o checker.Outcome) {
		if o.Kind != "" {
			log.Warn("check_failed",
				zap.String("url", o.Result.URL),
				zap.String("host", checker.ExtractHost(o.Target)),
				zap.String("error_kind", string(o.Kind)),
				zap.Duration("elapsed", o.Duration),
			)
		} else {
			log.Debug("check_completed",
				zap.String("url", o.Result.URL),
				zap.Bool("vulnerable", o.Result.Vulnerable),
				zap.Duration("elapsed", o.Duration),
			)
		}
		if progress != nil {
			progress.Increment(o.Kind == "", o.Duration.Seconds())
		}
	})

	if progress != nil {
		progress.Stop()
	}

	rep := report.New(outcomes, time.Now())
	out := cmd.OutOrStdout()
	if format == report.FormatText {
		printTextReport(out, rep)
	} else {
		w, err := report.NewWriter(format, out)
		if err != nil {
			return err
		}
		if err := w.Write(rep); err != nil {
			return fmt.Errorf("failed to write %s report: %w", format, err)
		}
	}

	summary := rep.Summary()
	if cfg.FailOnVulnerable && summary.Vulnerable > 0 {
		return fmt.Errorf("%d of %d: %w", summary.Vulnerable, summary.Total, sharederrors.ErrVulnerableTargets)
	}
	return nil
}

// collectTargets drops blank arguments; everything else is checked as given.
func collectTargets(args []string) []string {
	targets := make([]string, 0, len(args))
	for _, arg := range args {
		if strings.TrimSpace(arg) == "" {
			continue
		}
		targets = append(targets, arg)
	}
	return targets
}

func secondsOrDefault(secs int) time.Duration {
	if secs <= 0 {
		return constants.DefaultTimeout
	}
	return time.Duration(secs) * time.Second
}

func printTextReport(out io.Writer, rep *report.Report) {
	for _, o := range rep.Outcomes {
		res := o.Result
		status := verdictStatus(res)
		fmt.Fprintf(out, "%s%s %s\n", formatStatusWithColor(status), strings.Repeat(" ", len(statusVulnerable)-len(status)), res.URL)

		if res.Error != nil {
			fmt.Fprintf(out, "  %s\n", *res.Error)
			continue
		}
		if res.XFrameOptions != nil {
			fmt.Fprintf(out, "  X-Frame-Options: %s\n", *res.XFrameOptions)
		}
		if res.CSPFrameAncestors != nil {
			fmt.Fprintf(out, "  CSP: %s\n", *res.CSPFrameAncestors)
		}
		fmt.Fprintf(out, "  %s\n", res.Message)
	}

	s := rep.Summary()
	fmt.Fprintf(out, "\nChecked %d target(s): %s, %s, %s\n",
		s.Total,
		colorSuccess(fmt.Sprintf("%d protected", s.Protected)),
		colorError(fmt.Sprintf("%d vulnerable", s.Vulnerable)),
		colorWarn(fmt.Sprintf("%d error(s)", s.Errors)),
	)
}

func init() {
	checkCmd.Flags().IntVarP(&cliConfig.Check.TimeoutSecs, "timeout", "t", cliConfig.Check.TimeoutSecs, "request timeout in seconds")
	checkCmd.Flags().IntVarP(&cliConfig.Check.Concurrency, "concurrency", "c", cliConfig.Check.Concurrency, "max targets checked at once")
	checkCmd.Flags().StringVarP(&cliConfig.Check.Format, "format", "f", cliConfig.Check.Format, "output format (text|json|markdown)")
	checkCmd.Flags().StringVar(&cliConfig.Check.Lang, "lang", cliConfig.Check.Lang, "message language (id|en)")
	checkCmd.Flags().BoolVar(&cliConfig.Check.ProgressEnabled, "progress", cliConfig.Check.ProgressEnabled, "Display live progress on stderr")
	checkCmd.Flags().BoolVar(&cliConfig.Check.FailOnVulnerable, "fail-on-vulnerable", cliConfig.Check.FailOnVulnerable, "Exit with status 2 when any target is vulnerable")
}
