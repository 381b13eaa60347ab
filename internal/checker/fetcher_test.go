package checker

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/khanhnv2901/framecheck/internal/shared/constants"
	sharederrors "github.com/khanhnv2901/framecheck/internal/shared/errors"
	"go.uber.org/zap/zaptest"
)

// newTestFetcher allows loopback so httptest servers are reachable.
func newTestFetcher(t *testing.T, timeout time.Duration) *RestyFetcher {
	t.Helper()
	return NewRestyFetcher(FetcherOptions{
		Timeout: timeout,
		Logger:  zaptest.NewLogger(t),
	})
}

func TestRestyFetcher_SendsUserAgentAndReturnsHeaders(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Add("Set-Cookie", "a=1")
		w.Header().Add("Set-Cookie", "b=2")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer server.Close()

	res, err := newTestFetcher(t, time.Second).Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}

	if gotUA != constants.UserAgent {
		t.Errorf("User-Agent = %q, want %q", gotUA, constants.UserAgent)
	}
	if res.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d", res.StatusCode)
	}
	if res.Header.Get("X-Frame-Options") != "DENY" {
		t.Errorf("missing X-Frame-Options in %v", res.Header)
	}
	if got := res.Header.Values("Set-Cookie"); len(got) != 2 {
		t.Errorf("Set-Cookie values = %v, want 2", got)
	}
}

func TestRestyFetcher_NonSuccessStatusIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	res, err := newTestFetcher(t, time.Second).Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("StatusCode = %d, want 404", res.StatusCode)
	}
}

func TestRestyFetcher_FollowsRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/start", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/final", http.StatusFound)
	})
	mux.HandleFunc("/final", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Frame-Options", "SAMEORIGIN")
		w.WriteHeader(http.StatusOK)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	res, err := newTestFetcher(t, time.Second).Fetch(context.Background(), server.URL+"/start")
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if !strings.HasSuffix(res.FinalURL, "/final") {
		t.Errorf("FinalURL = %q, want suffix /final", res.FinalURL)
	}
	if res.Header.Get("X-Frame-Options") != "SAMEORIGIN" {
		t.Errorf("headers should come from the final response, got %v", res.Header)
	}
}

func TestRestyFetcher_RedirectLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/loop", http.StatusFound)
	}))
	defer server.Close()

	fetcher := NewRestyFetcher(FetcherOptions{Timeout: time.Second, MaxRedirects: 3})
	_, err := fetcher.Fetch(context.Background(), server.URL+"/loop")
	if !errors.Is(err, sharederrors.ErrTooManyRedirects) {
		t.Fatalf("expected ErrTooManyRedirects, got %v", err)
	}
	if got := ClassifyTransportError(err); got != KindRequest {
		t.Fatalf("kind = %q, want %q", got, KindRequest)
	}
}

func TestRestyFetcher_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	_, err := newTestFetcher(t, 100*time.Millisecond).Fetch(context.Background(), server.URL)
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if got := ClassifyTransportError(err); got != KindTimeout {
		t.Fatalf("kind = %q, want %q (err=%v)", got, KindTimeout, err)
	}
}

func TestRestyFetcher_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := server.URL
	server.Close()

	_, err := newTestFetcher(t, time.Second).Fetch(context.Background(), addr)
	if err == nil {
		t.Fatal("expected connection error")
	}
	if got := ClassifyTransportError(err); got != KindConnection {
		t.Fatalf("kind = %q, want %q (err=%v)", got, KindConnection, err)
	}
}

func TestRestyFetcher_UntrustedCertificate(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Frame-Options", "DENY")
	}))
	defer server.Close()

	_, err := newTestFetcher(t, time.Second).Fetch(context.Background(), server.URL)
	if err == nil {
		t.Fatal("expected certificate error")
	}
	if got := ClassifyTransportError(err); got != KindTLS {
		t.Fatalf("kind = %q, want %q (err=%v)", got, KindTLS, err)
	}
}

func TestRestyFetcher_BlocksPrivateAddresses(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	fetcher := NewRestyFetcher(FetcherOptions{Timeout: time.Second, BlockPrivate: true})
	_, err := fetcher.Fetch(context.Background(), server.URL)
	if !errors.Is(err, sharederrors.ErrBlockedAddress) {
		t.Fatalf("expected ErrBlockedAddress, got %v", err)
	}
	if got := ClassifyTransportError(err); got != KindConnection {
		t.Fatalf("kind = %q, want %q", got, KindConnection)
	}
	if called {
		t.Fatal("blocked request must not reach the server")
	}
}

func TestRedirectPolicy_RejectsNonHTTPSchemes(t *testing.T) {
	policy := redirectPolicy(5)
	req, _ := http.NewRequest(http.MethodGet, "ftp://example.com/file", nil)

	if err := policy(req, nil); !errors.Is(err, sharederrors.ErrBlockedRedirect) {
		t.Fatalf("expected ErrBlockedRedirect, got %v", err)
	}

	ok, _ := http.NewRequest(http.MethodGet, "https://example.com/", nil)
	if err := policy(ok, make([]*http.Request, 4)); err != nil {
		t.Fatalf("unexpected error below limit: %v", err)
	}
	if err := policy(ok, make([]*http.Request, 5)); !errors.Is(err, sharederrors.ErrTooManyRedirects) {
		t.Fatalf("expected ErrTooManyRedirects at limit, got %v", err)
	}
}

func TestRestyFetcher_KeepsContentEncodingHeaders(t *testing.T) {
	var body bytes.Buffer
	zw := gzip.NewWriter(&body)
	_, _ = zw.Write([]byte("<html><body>framed?</body></html>"))
	_ = zw.Close()

	var gotEncoding string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotEncoding = r.Header.Get("Accept-Encoding")
		w.Header().Set("Content-Encoding", "gzip")
		w.Header().Set("Content-Length", strconv.Itoa(body.Len()))
		w.Header().Set("X-Frame-Options", "DENY")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body.Bytes())
	}))
	defer server.Close()

	res, err := newTestFetcher(t, time.Second).Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if gotEncoding != constants.AcceptEncoding {
		t.Fatalf("Accept-Encoding = %q, want %q", gotEncoding, constants.AcceptEncoding)
	}
	if got := res.Header.Get("Content-Encoding"); got != "gzip" {
		t.Fatalf("Content-Encoding = %q, want gzip", got)
	}
	if got := res.Header.Get("Content-Length"); got != strconv.Itoa(body.Len()) {
		t.Fatalf("Content-Length = %q, want %d", got, body.Len())
	}

	result := NewClickjackingChecker(newTestFetcher(t, time.Second), time.Second).
		Result(context.Background(), server.URL, LocaleIndonesian)
	for _, name := range []string{"Content-Encoding", "Content-Length", "X-Frame-Options"} {
		if _, ok := result.Headers[name]; !ok {
			t.Fatalf("%s missing from result headers: %v", name, result.Headers)
		}
	}
}

func TestNewRestyFetcher_ProxyOnlyWithoutPrivateBlocking(t *testing.T) {
	open := NewRestyFetcher(FetcherOptions{Timeout: time.Second})
	transport, ok := open.client.GetClient().Transport.(*http.Transport)
	if !ok {
		t.Fatalf("unexpected transport type %T", open.client.GetClient().Transport)
	}
	if transport.Proxy == nil {
		t.Fatal("expected proxy settings from the environment to be honoured")
	}

	blocked := NewRestyFetcher(FetcherOptions{Timeout: time.Second, BlockPrivate: true})
	transport, ok = blocked.client.GetClient().Transport.(*http.Transport)
	if !ok {
		t.Fatalf("unexpected transport type %T", blocked.client.GetClient().Transport)
	}
	if transport.Proxy != nil {
		t.Fatal("proxy must be disabled when private addresses are blocked")
	}
}
