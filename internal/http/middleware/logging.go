// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file provides structured request logging, a panic-safe recovery handler,
// and a request ID injector:
//
//   - RequestID() ensures every request carries a stable correlation ID
//     (propagated via X-Request-ID and stored in the Gin context).
//   - Logger() emits structured access logs and attaches a request-scoped
//     zerolog.Logger.
//   - Recovery() hands panics to the failure translator as Unclassified
//     failures, so they get the same envelope as every other error.
//   - LoggerFrom() retrieves the request-scoped logger.
//
// Recommended order: RequestID, Logger (or RedactingLogger), Recovery.
//
// Middleware never writes error bodies itself. Failures are passed to a
// FailureFunc (the engine's Handle in production).
package middleware

import (
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-billing-errors/internal/envelope"
	"github.com/tbourn/go-billing-errors/internal/failure"
	"github.com/tbourn/go-billing-errors/internal/redact"
)

const (
	// requestIDKey is the Gin context key under which the request ID is stored.
	requestIDKey = envelope.RequestIDKey
	// requestIDHeader is the HTTP header used to propagate the correlation ID.
	requestIDHeader = envelope.RequestIDHeader
	// loggerKey holds the request-scoped *zerolog.Logger.
	loggerKey = "logger"
	// maxQueryLogLength caps the number of bytes of the raw query string logged.
	maxQueryLogLength = 2048
)

// FailureFunc turns err into the request's single error response.
type FailureFunc func(c *gin.Context, err error)

// emitFailure is used when no FailureFunc was configured. It renders the
// taxonomy facts without database refinement or failure logging.
func emitFailure(c *gin.Context, err error) {
	var f failure.Failure
	if !errors.As(err, &f) {
		f = failure.Unclassified{Err: err}
	}
	envelope.From(c).Error(failure.FactsOf(f))
}

func orDefault(fn FailureFunc) FailureFunc {
	if fn == nil {
		return emitFailure
	}
	return fn
}

// RequestID attaches (or propagates) a correlation identifier per request.
//
// An inbound X-Request-ID (case-insensitive) is reused; otherwise a new UUIDv4
// is generated. The ID is written back to the response header and stored in
// the Gin context under "requestID", where envelope.Responder picks it up.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(requestIDKey, rid)
		c.Writer.Header().Set(requestIDHeader, rid)
		c.Next()
	}
}

// Logger writes a structured access log for each request and response.
//
// Records method, path (route when available), remote IP, UA, referer,
// correlation ID, caller identity, request size, response status, latency, and
// bytes written. It stores a request-scoped zerolog.Logger in the Gin context
// (key "logger"). Level: error for 5xx or gin errors, warn for 4xx, info
// otherwise.
//
// Place this after RequestID() so logs include the correlation ID.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		rid, _ := c.Get(requestIDKey)
		path := c.FullPath()
		if path == "" {
			// Fallback when route not matched / 404.
			path = c.Request.URL.Path
		}

		l := log.With().
			Str("request_id", asString(rid)).
			Str("method", c.Request.Method).
			Str("path", path).
			Str("remote_ip", c.ClientIP()).
			Str("user_agent", c.Request.UserAgent()).
			Str("referer", c.Request.Referer()).
			Str("query", truncate(redact.String(c.Request.URL.RawQuery), maxQueryLogLength)).
			// ContentLength can be -1 if unknown.
			Int64("bytes_in", c.Request.ContentLength).
			Logger()

		c.Set(loggerKey, &l)

		c.Next()

		// Identity is resolved by Identity(), which runs after this middleware.
		ev := l.With().
			Str("user_id", c.GetString(CtxKeyUserID)).
			Str("franchise_id", c.GetString(CtxKeyFranchiseID)).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Int("bytes_out", c.Writer.Size()).
			Logger()

		status := c.Writer.Status()
		switch {
		case len(c.Errors) > 0:
			ev.Error().Str("errors", c.Errors.String()).Msg("request")
		case status >= 500:
			ev.Error().Msg("request")
		case status >= 400:
			ev.Warn().Msg("request")
		default:
			ev.Info().Msg("request")
		}
	}
}

// Recovery intercepts panics, logs the stack trace, and passes an Unclassified
// failure to onFail. When a body was already written the request is only
// aborted; a second body would corrupt the response.
//
// Place this after Logger() so the panic is captured with structured context.
func Recovery(onFail FailureFunc) gin.HandlerFunc {
	onFail = orDefault(onFail)
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				rid, _ := c.Get(requestIDKey)
				LoggerFrom(c).Error().
					Interface("panic", rec).
					Bytes("stack", debug.Stack()).
					Str("request_id", asString(rid)).
					Msg("panic recovered")

				if c.Writer.Written() {
					c.Abort()
					return
				}
				err, ok := rec.(error)
				if !ok {
					err = fmt.Errorf("panic: %v", rec)
				}
				onFail(c, failure.NewUnclassified(err))
			}
		}()
		c.Next()
	}
}

// LoggerFrom returns the request-scoped zerolog.Logger.
//
// If Logger() did not run, a logger without request fields is returned.
func LoggerFrom(c *gin.Context) *zerolog.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if lg, ok := v.(*zerolog.Logger); ok {
			return lg
		}
	}
	l := log.With().Logger()
	return &l
}

// asString converts an arbitrary interface to a string, returning an empty
// string when the value is not a string. Used for context values.
func asString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// truncate returns s unchanged when within max length, otherwise it truncates
// s to max bytes and appends an ellipsis. A max <= 0 disables truncation.
func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
