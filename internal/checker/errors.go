package checker

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/khanhnv2901/framecheck/internal/shared/constants"
	sharederrors "github.com/khanhnv2901/framecheck/internal/shared/errors"
)

// ErrorKind is the closed set of failure categories a check can end in.
type ErrorKind string

const (
	KindInvalidURL ErrorKind = "invalid_url"
	KindEmptyInput ErrorKind = "empty_input"
	KindTimeout    ErrorKind = "timeout"
	KindTLS        ErrorKind = "tls_error"
	KindConnection ErrorKind = "connection_error"
	KindRequest    ErrorKind = "request_error"
	KindGeneric    ErrorKind = "generic_error"
)

// CheckError is returned by Check instead of a verdict.
type CheckError struct {
	Kind    ErrorKind
	Detail  string
	Timeout time.Duration // fetch bound, only used to describe KindTimeout
	Cause   error
}

func (e *CheckError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Cause)
	}
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
	}
	return string(e.Kind)
}

func (e *CheckError) Unwrap() error {
	return e.Cause
}

// Describe returns the text placed in the "error" field of a CheckResult.
func (e *CheckError) Describe(locale Locale) string {
	en := locale == LocaleEnglish
	switch e.Kind {
	case KindInvalidURL:
		if en {
			return "Invalid URL"
		}
		return "URL tidak valid"
	case KindEmptyInput:
		if en {
			return "URL must not be empty"
		}
		return sharederrors.ErrEmptyURL.Error()
	case KindTimeout:
		secs := formatSeconds(e.Timeout)
		if en {
			return "Timeout: Website did not respond within " + secs + " seconds"
		}
		return "Timeout: Website tidak merespons dalam " + secs + " detik"
	case KindTLS:
		if en {
			return "SSL Error: SSL certificate problem"
		}
		return "SSL Error: Masalah sertifikat SSL"
	case KindConnection:
		if en {
			return "Connection Error: Could not connect to the website"
		}
		return "Connection Error: Tidak dapat terhubung ke website"
	case KindRequest:
		return "Request Error: " + e.Detail
	default:
		return "Error: " + e.Detail
	}
}

func formatSeconds(d time.Duration) string {
	if d <= 0 {
		d = constants.DefaultTimeout
	}
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}

// KindOf extracts the ErrorKind carried by err. Errors that are not a
// CheckError are generic.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var ce *CheckError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindGeneric
}

// ClassifyTransportError maps a failure from the fetcher onto an ErrorKind.
// Categories are tested from most to least specific: timeout, TLS,
// connection, other request failures, anything else.
func ClassifyTransportError(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case isTimeout(err):
		return KindTimeout
	case isTLSError(err):
		return KindTLS
	case isConnectionError(err):
		return KindConnection
	case isRequestError(err):
		return KindRequest
	default:
		return KindGeneric
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isTLSError(err error) bool {
	var (
		unknownAuthority x509.UnknownAuthorityError
		hostnameErr      x509.HostnameError
		invalidCert      x509.CertificateInvalidError
		systemRoots      x509.SystemRootsError
		verifyErr        *tls.CertificateVerificationError
		recordErr        tls.RecordHeaderError
		alertErr         tls.AlertError
	)
	if errors.As(err, &unknownAuthority) ||
		errors.As(err, &hostnameErr) ||
		errors.As(err, &invalidCert) ||
		errors.As(err, &systemRoots) ||
		errors.As(err, &verifyErr) ||
		errors.As(err, &recordErr) ||
		errors.As(err, &alertErr) {
		return true
	}
	// Handshake failures are often plain errors.New values from crypto/tls.
	msg := err.Error()
	return strings.Contains(msg, "tls: ") || strings.Contains(msg, "x509: ")
}

func isConnectionError(err error) bool {
	var (
		opErr  *net.OpError
		dnsErr *net.DNSError
	)
	switch {
	case errors.As(err, &dnsErr), errors.As(err, &opErr):
		return true
	case errors.Is(err, sharederrors.ErrBlockedAddress),
		errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF):
		return true
	}
	return false
}

func isRequestError(err error) bool {
	if errors.Is(err, sharederrors.ErrTooManyRedirects) || errors.Is(err, sharederrors.ErrBlockedRedirect) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}
