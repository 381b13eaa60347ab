package checker

import (
	"errors"
	"testing"

	sharederrors "github.com/khanhnv2901/framecheck/internal/shared/errors"
)

func TestNormalizeURL(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{in: "example.com", want: "https://example.com"},
		{in: "  example.com/path  ", want: "https://example.com/path"},
		{in: "http://example.com", want: "http://example.com"},
		{in: "https://example.com", want: "https://example.com"},
		{in: "HTTP://example.com", want: "https://HTTP://example.com"},
		{in: "ftp://example.com", want: "https://ftp://example.com"},
		{in: "example.com:8443", want: "https://example.com:8443"},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			if got := NormalizeURL(tc.in); got != tc.want {
				t.Errorf("NormalizeURL(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeURL_Idempotent(t *testing.T) {
	for _, in := range []string{"example.com", " http://a.example ", "https://b.example/x?y=1"} {
		once := NormalizeURL(in)
		if twice := NormalizeURL(once); twice != once {
			t.Errorf("NormalizeURL not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestValidateURL(t *testing.T) {
	testCases := []struct {
		name     string
		in       string
		wantKind ErrorKind
	}{
		{name: "valid", in: "https://example.com"},
		{name: "valid with port and path", in: "http://example.com:8080/a"},
		{name: "scheme only", in: "https://", wantKind: KindInvalidURL},
		{name: "path only", in: "https:///path", wantKind: KindInvalidURL},
		{name: "unparsable", in: "https://exa mple.com:port", wantKind: KindGeneric},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			parsed, err := ValidateURL(tc.in)
			if tc.wantKind == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if parsed.Host == "" {
					t.Fatal("expected host to be set")
				}
				return
			}
			if got := KindOf(err); got != tc.wantKind {
				t.Fatalf("ValidateURL(%q) kind = %q, want %q (err=%v)", tc.in, got, tc.wantKind, err)
			}
		})
	}
}

func TestValidateURL_InvalidWrapsSentinel(t *testing.T) {
	_, err := ValidateURL("https://")
	if !errors.Is(err, sharederrors.ErrInvalidURL) {
		t.Fatalf("expected ErrInvalidURL, got %v", err)
	}
}

func TestParseTarget(t *testing.T) {
	testCases := []struct {
		target string
		want   TargetInfo
	}{
		{
			target: "example.com",
			want:   TargetInfo{Original: "example.com", Scheme: "https", Host: "example.com", FullURL: "https://example.com"},
		},
		{
			target: "http://example.com:8080/login",
			want:   TargetInfo{Original: "http://example.com:8080/login", Scheme: "http", Host: "example.com", Port: "8080", Path: "/login", FullURL: "http://example.com:8080/login"},
		},
		{
			target: "192.168.1.1:443",
			want:   TargetInfo{Original: "192.168.1.1:443", Scheme: "https", Host: "192.168.1.1", Port: "443", FullURL: "https://192.168.1.1:443"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.target, func(t *testing.T) {
			got := ParseTarget(tc.target)
			if *got != tc.want {
				t.Errorf("ParseTarget(%q) = %+v, want %+v", tc.target, *got, tc.want)
			}
		})
	}
}

func TestExtractHost(t *testing.T) {
	if got := ExtractHost("https://sub.example.com:8443/x"); got != "sub.example.com" {
		t.Errorf("ExtractHost() = %q", got)
	}
	if got := ExtractHost("example.org"); got != "example.org" {
		t.Errorf("ExtractHost() = %q", got)
	}
}
