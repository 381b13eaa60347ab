package constants

import "time"

const (
	// DefaultTimeout bounds a single outbound fetch, redirects included.
	DefaultTimeout = 10 * time.Second
	// DefaultMaxRedirects caps how many redirects the fetcher follows.
	DefaultMaxRedirects = 10
	// UserAgent is sent with every outbound request.
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	// AcceptEncoding is sent explicitly so the transport leaves Content-Encoding
	// and Content-Length in the reported headers.
	AcceptEncoding = "gzip, deflate"
)

const (
	// MaxRequestBodyBytes limits inbound JSON bodies on the API.
	MaxRequestBodyBytes = 1 << 20
	// DefaultShutdownTimeout is how long serve waits for in-flight requests.
	DefaultShutdownTimeout = 30 * time.Second
	// DefaultListenAddr is where serve listens unless configured otherwise.
	DefaultListenAddr = "0.0.0.0:8080"
)

const (
	// DefaultConcurrency is the number of targets the CLI checks at once.
	DefaultConcurrency = 4
	// MaxConcurrency keeps the CLI from opening an unbounded number of connections.
	MaxConcurrency = 64
)
