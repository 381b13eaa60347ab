package api

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/khanhnv2901/framecheck/internal/api/middleware"
	"github.com/khanhnv2901/framecheck/internal/checker"
	"github.com/khanhnv2901/framecheck/internal/shared/constants"
	sharederrors "github.com/khanhnv2901/framecheck/internal/shared/errors"
	"go.uber.org/zap"
)

//go:embed web/index.html
var indexHTML []byte

// CheckRequest is the body accepted by the check endpoints.
type CheckRequest struct {
	URL string `json:"url"`
}

// CheckService runs a single clickjacking check.
type CheckService interface {
	Check(ctx context.Context, rawURL string) (*checker.Verdict, error)
}

type Config struct {
	Checker       CheckService
	Logger        *zap.Logger
	CORSOrigins   []string       // Allowed CORS origins (empty = allow all)
	DefaultLocale checker.Locale // used when Accept-Language matches nothing
}

type Server struct {
	cfg     Config
	mux     *http.ServeMux
	handler http.Handler
}

func NewServer(cfg Config) *Server {
	if cfg.DefaultLocale == "" {
		cfg.DefaultLocale = checker.DefaultLocale
	}
	srv := &Server{
		cfg: cfg,
		mux: http.NewServeMux(),
	}
	srv.routes()
	// RequestID -> Logging -> CORS -> Handler
	srv.handler = middleware.RequestID(srv.withLogging(srv.withCORS(srv.mux)))
	return srv
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.mux.HandleFunc("/", s.handleIndex)
	s.mux.HandleFunc("/check", s.handleCheck)

	// Version 1 API routes
	s.mux.HandleFunc("/api/v1/check", s.handleCheck)
	s.mux.HandleFunc("/api/v1/health", s.handleHealth)

	// Unversioned aliases
	s.mux.HandleFunc("/api/check", s.handleCheck)
	s.mux.HandleFunc("/api/health", s.handleHealth)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		s.writeError(w, r, http.StatusNotFound, errors.New("not found"))
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		s.methodNotAllowed(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := w.Write(indexHTML); err != nil {
		s.requestLogger(r).Error("failed to write response", zap.Error(err))
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w, r)
		return
	}
	if s.cfg.Checker == nil {
		s.writeError(w, r, http.StatusInternalServerError, errors.New("checker not configured"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, constants.MaxRequestBodyBytes)
	var req CheckRequest
	if err := decodeCheckRequest(r.Body, &req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, r, http.StatusRequestEntityTooLarge, fmt.Errorf("request body exceeds %d bytes", tooLarge.Limit))
			return
		}
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid JSON body: %w", err))
		return
	}

	if strings.TrimSpace(req.URL) == "" {
		s.writeError(w, r, http.StatusBadRequest, sharederrors.ErrEmptyURL)
		return
	}

	locale := checker.MatchLocale(r.Header.Get("Accept-Language"), s.cfg.DefaultLocale)

	start := time.Now()
	verdict, err := s.cfg.Checker.Check(r.Context(), req.URL)
	result := checker.BuildResult(req.URL, verdict, err, locale)
	s.logCheck(r, result, verdict, err, time.Since(start))

	// Failed checks are still 200: the error is part of the result.
	writeJSON(w, http.StatusOK, result)
}

// decodeCheckRequest accepts an empty body or exactly one JSON value.
func decodeCheckRequest(body io.Reader, req *CheckRequest) error {
	dec := json.NewDecoder(body)
	if err := dec.Decode(req); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			return errors.New("unexpected data after JSON value")
		}
		return err
	}
	return nil
}

func (s *Server) logCheck(r *http.Request, result checker.CheckResult, verdict *checker.Verdict, err error, elapsed time.Duration) {
	fields := []zap.Field{
		zap.String("url", result.URL),
		zap.Bool("vulnerable", result.Vulnerable),
		zap.Duration("elapsed", elapsed),
	}
	if err != nil {
		fields = append(fields, zap.String("error_kind", string(checker.KindOf(err))), zap.Error(err))
		s.requestLogger(r).Warn("check_failed", fields...)
		return
	}
	if verdict == nil {
		s.requestLogger(r).Warn("check_without_verdict", fields...)
		return
	}
	fields = append(fields,
		zap.String("final_url", verdict.FinalURL),
		zap.Int("upstream_status", verdict.StatusCode),
	)
	s.requestLogger(r).Info("check_completed", fields...)
}

func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		allowOrigin := "*"
		if len(s.cfg.CORSOrigins) > 0 {
			allowOrigin = ""
			for _, allowedOrigin := range s.cfg.CORSOrigins {
				if allowedOrigin == origin {
					allowOrigin = origin
					break
				}
			}
		}

		if allowOrigin != "" {
			w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept-Language, X-Request-ID")
			w.Header().Set("Access-Control-Max-Age", "3600")
			if allowOrigin != "*" {
				w.Header().Add("Vary", "Origin")
			}
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		lrw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(lrw, r)

		if s.cfg.Logger != nil {
			s.cfg.Logger.Info("http_request",
				zap.String("request_id", middleware.GetRequestID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
				zap.Int("status", lrw.statusCode),
				zap.Duration("duration", time.Since(start)),
				zap.Int64("bytes", lrw.bytesWritten),
			)
		}
	})
}

// loggingResponseWriter wraps http.ResponseWriter to capture status code and bytes written
type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int64
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	n, err := lrw.ResponseWriter.Write(b)
	lrw.bytesWritten += int64(n)
	return n, err
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	msg := err.Error()

	// For 5xx errors, return generic message and log details server-side
	if status >= 500 {
		s.requestLogger(r).Error("internal_server_error",
			zap.Error(err),
			zap.Int("status", status),
		)
		msg = "internal server error"
	}

	writeJSON(w, status, map[string]string{"error": msg})
}

// requestLogger creates a logger with request context (request ID, method, path)
func (s *Server) requestLogger(r *http.Request) *zap.Logger {
	if s.cfg.Logger == nil {
		return zap.NewNop()
	}

	return s.cfg.Logger.With(
		zap.String("request_id", middleware.GetRequestID(r.Context())),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)
}

func (s *Server) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, r, http.StatusMethodNotAllowed, errors.New("method not allowed"))
}
