package checker

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/khanhnv2901/framecheck/internal/shared/constants"
	sharederrors "github.com/khanhnv2901/framecheck/internal/shared/errors"
)

// CheckResult is the record returned for every clickjacking check. Absent
// values encode as JSON null.
type CheckResult struct {
	URL               string            `json:"url"`
	Vulnerable        bool              `json:"vulnerable"`
	Headers           map[string]string `json:"headers"`
	XFrameOptions     *string           `json:"x_frame_options"`
	CSPFrameAncestors *string           `json:"csp_frame_ancestors"`
	Message           string            `json:"message"`
	Error             *string           `json:"error"`
}

// Verdict is the successful outcome of a check.
type Verdict struct {
	URL        string // normalized request URL
	FinalURL   string // URL after redirects
	StatusCode int
	Headers    Headers
	Classification
}

// Message renders the summary for this verdict in the given locale.
func (v *Verdict) Message(locale Locale) string {
	return ComposeMessage(locale, v.Vulnerable, v.Reasons)
}

// ClickjackingChecker fetches a page once and classifies its framing headers.
// It holds no per-request state and is safe for concurrent use.
type ClickjackingChecker struct {
	fetcher Fetcher
	timeout time.Duration
}

// NewClickjackingChecker returns a checker backed by fetcher. timeout is the
// bound the fetcher enforces; it is only used to describe timeouts.
func NewClickjackingChecker(fetcher Fetcher, timeout time.Duration) *ClickjackingChecker {
	if timeout <= 0 {
		timeout = constants.DefaultTimeout
	}
	return &ClickjackingChecker{fetcher: fetcher, timeout: timeout}
}

// Name returns the name of this checker
func (c *ClickjackingChecker) Name() string {
	return "check clickjacking"
}

// Check normalizes rawURL, fetches it and classifies the response headers.
// Exactly one of the return values is non-nil; failures are *CheckError.
func (c *ClickjackingChecker) Check(ctx context.Context, rawURL string) (*Verdict, error) {
	if strings.TrimSpace(rawURL) == "" {
		return nil, &CheckError{Kind: KindEmptyInput, Cause: sharederrors.ErrEmptyURL}
	}

	normalized := NormalizeURL(rawURL)
	if _, err := ValidateURL(normalized); err != nil {
		return nil, err
	}

	fetched, err := c.fetcher.Fetch(ctx, normalized)
	if err != nil {
		return nil, &CheckError{
			Kind:    ClassifyTransportError(err),
			Detail:  err.Error(),
			Timeout: c.timeout,
			Cause:   err,
		}
	}

	headers := HeadersFromHTTP(fetched.Header)
	return &Verdict{
		URL:            normalized,
		FinalURL:       fetched.FinalURL,
		StatusCode:     fetched.StatusCode,
		Headers:        headers,
		Classification: Classify(headers),
	}, nil
}

// Result runs Check and folds its outcome into the wire record.
func (c *ClickjackingChecker) Result(ctx context.Context, rawURL string, locale Locale) CheckResult {
	verdict, err := c.Check(ctx, rawURL)
	return BuildResult(rawURL, verdict, err, locale)
}

// BuildResult folds the outcome of Check into a CheckResult. On error only
// url and error are set; the rest keep their defaults (vulnerable, no headers).
func BuildResult(rawURL string, verdict *Verdict, err error, locale Locale) CheckResult {
	result := CheckResult{
		URL:        NormalizeURL(rawURL),
		Vulnerable: true,
		Headers:    map[string]string{},
	}

	if err != nil || verdict == nil {
		msg := describeError(err, locale)
		result.Error = &msg
		return result
	}

	result.URL = verdict.URL
	result.Vulnerable = verdict.Vulnerable
	result.Headers = verdict.Headers.Original()
	result.XFrameOptions = verdict.XFrameOptions
	result.CSPFrameAncestors = verdict.CSPFrameAncestors
	result.Message = verdict.Message(locale)
	return result
}

func describeError(err error, locale Locale) string {
	if err == nil {
		err = errors.New("no verdict")
	}
	var ce *CheckError
	if errors.As(err, &ce) {
		return ce.Describe(locale)
	}
	return (&CheckError{Kind: KindGeneric, Detail: err.Error()}).Describe(locale)
}
