package checker

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/khanhnv2901/framecheck/internal/shared/constants"
	sharederrors "github.com/khanhnv2901/framecheck/internal/shared/errors"
	"go.uber.org/zap"
)

// FetchResult is what the classifier needs from an HTTP response.
type FetchResult struct {
	StatusCode int
	FinalURL   string // URL after all redirects
	Header     http.Header
}

// Fetcher performs the single GET a check depends on.
type Fetcher interface {
	Fetch(ctx context.Context, targetURL string) (*FetchResult, error)
}

// FetcherOptions configures a RestyFetcher. Zero values fall back to the
// package defaults.
type FetcherOptions struct {
	Timeout      time.Duration
	UserAgent    string
	MaxRedirects int
	BlockPrivate bool // refuse to dial loopback, private and reserved ranges
	Logger       *zap.Logger
}

// RestyFetcher implements Fetcher on top of a resty client.
type RestyFetcher struct {
	client    *resty.Client
	userAgent string
}

// NewRestyFetcher returns a Fetcher that follows redirects, sends a fixed
// User-Agent and never reads the response body.
func NewRestyFetcher(opts FetcherOptions) *RestyFetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = constants.DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = constants.UserAgent
	}
	if opts.MaxRedirects <= 0 {
		opts.MaxRedirects = constants.DefaultMaxRedirects
	}

	transport := &http.Transport{
		DialContext:         newDialer(opts.Timeout, opts.BlockPrivate).DialContext,
		TLSHandshakeTimeout: opts.Timeout,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}
	// A proxy would dial the target on our behalf and bypass the address checks.
	if !opts.BlockPrivate {
		transport.Proxy = http.ProxyFromEnvironment
	}

	client := resty.New().
		SetTransport(transport).
		SetTimeout(opts.Timeout).
		SetRedirectPolicy(resty.RedirectPolicyFunc(redirectPolicy(opts.MaxRedirects))).
		SetDoNotParseResponse(true)
	if opts.Logger != nil {
		client.SetLogger(opts.Logger.Sugar())
	}

	return &RestyFetcher{client: client, userAgent: opts.UserAgent}
}

// redirectPolicy limits the chain length and refuses non-http(s) targets.
func redirectPolicy(maxRedirects int) func(*http.Request, []*http.Request) error {
	return func(req *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			return fmt.Errorf("%w: stopped after %d", sharederrors.ErrTooManyRedirects, maxRedirects)
		}
		if req.URL.Scheme != "http" && req.URL.Scheme != "https" {
			return fmt.Errorf("%w: %s", sharederrors.ErrBlockedRedirect, req.URL.Scheme)
		}
		return nil
	}
}

// Fetch issues a GET for targetURL and returns status, final URL and headers.
func (f *RestyFetcher) Fetch(ctx context.Context, targetURL string) (*FetchResult, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		SetHeader("User-Agent", f.userAgent).
		SetHeader("Accept-Encoding", constants.AcceptEncoding).
		Get(targetURL)
	if resp != nil {
		if body := resp.RawBody(); body != nil {
			defer func() { _ = body.Close() }()
		}
	}
	if err != nil {
		return nil, err
	}

	finalURL := targetURL
	if raw := resp.RawResponse; raw != nil && raw.Request != nil && raw.Request.URL != nil {
		finalURL = raw.Request.URL.String()
	}

	return &FetchResult{
		StatusCode: resp.StatusCode(),
		FinalURL:   finalURL,
		Header:     resp.Header().Clone(),
	}, nil
}
