// Package engine is the failure translation boundary of the HTTP service.
//
// Every handler that fails calls Engine.Handle exactly once and writes nothing
// else. The engine then:
//
//  1. classifies the error: a failure.* variant as-is, driver errors through
//     dberr.FromError, gin binding errors into Validation/BadRequest, and
//     anything else as Unclassified;
//  2. resolves response facts (database failures through the extractor
//     rules);
//  3. writes one structured log entry carrying the internal detail;
//  4. emits exactly one error envelope.
//
// The only process-wide state is the debug flag, fixed at construction.
package engine

import (
	"context"
	"errors"
	"net/http"
	"runtime"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-billing-errors/internal/dberr"
	"github.com/tbourn/go-billing-errors/internal/envelope"
	"github.com/tbourn/go-billing-errors/internal/failure"
	"github.com/tbourn/go-billing-errors/internal/http/middleware"
	"github.com/tbourn/go-billing-errors/internal/redact"
)

// MessageTimeout is returned when the request context ended before the
// handler finished.
const MessageTimeout = "The request could not be completed in time. Please try again."

// Emitter writes the single error response for a request.
// *envelope.Responder implements it.
type Emitter interface {
	Error(f failure.Facts) bool
}

// RequestContext is the request data used to enrich the failure log. None of
// it is echoed to the client.
type RequestContext struct {
	RequestID   string
	UserID      string
	FranchiseID string
	Method      string
	URL         string
	ClientIP    string

	// Logger is the request-scoped logger; nil means the global logger.
	Logger *zerolog.Logger
}

// RequestContextFrom collects the log context of a gin request.
func RequestContextFrom(c *gin.Context) RequestContext {
	rc := RequestContext{
		RequestID:   envelope.From(c).RequestID(),
		UserID:      c.GetString(middleware.CtxKeyUserID),
		FranchiseID: c.GetString(middleware.CtxKeyFranchiseID),
		Logger:      middleware.LoggerFrom(c),
	}
	if c.Request != nil {
		rc.Method = c.Request.Method
		rc.URL = redact.String(c.Request.URL.RequestURI())
		rc.ClientIP = c.ClientIP()
	}
	return rc
}

// Options configure an Engine.
type Options struct {
	// Debug appends internal text and source location to Unclassified
	// messages. Never enable in production.
	Debug bool
	// Extractor resolves database failures; nil uses the MySQL default.
	Extractor *dberr.Extractor
}

// Engine translates failures into error envelopes. It is safe for concurrent
// use.
type Engine struct {
	debug     bool
	extractor *dberr.Extractor

	// factsOf is a test seam.
	factsOf func(failure.Failure) failure.Facts
}

// New builds an Engine.
func New(opts Options) *Engine {
	x := opts.Extractor
	if x == nil {
		x = dberr.NewExtractor(dberr.DialectMySQL)
	}
	return &Engine{debug: opts.Debug, extractor: x, factsOf: failure.FactsOf}
}

// Debug reports whether debug messages are enabled.
func (e *Engine) Debug() bool { return e.debug }

// Handle translates err into the request's single error response. The call
// site is recorded as the source of failures that carry none.
func (e *Engine) Handle(c *gin.Context, err error) {
	e.translate(c.Request.Context(), RequestContextFrom(c), err, envelope.From(c), callerOrigin(1))
}

// Translate classifies err, logs it, and emits exactly one response through
// em. It returns the facts that were emitted.
func (e *Engine) Translate(ctx context.Context, rc RequestContext, err error, em Emitter) failure.Facts {
	return e.translate(ctx, rc, err, em, callerOrigin(1))
}

func (e *Engine) translate(ctx context.Context, rc RequestContext, err error, em Emitter, at failure.Origin) failure.Facts {
	f := Classify(err, at)
	facts, res := e.resolve(f)

	e.log(ctx, rc, f, facts, res)
	record(ctx, f, facts)

	em.Error(facts)
	return facts
}

// Classify maps any error onto the taxonomy. Failures without a source get at.
func Classify(err error, at failure.Origin) failure.Failure {
	if err == nil {
		return failure.Unclassified{Origin: at, Err: errors.New("nil error reported as failure")}
	}

	var f failure.Failure
	if errors.As(err, &f) {
		f = failure.Value(f)
		if d, ok := f.(failure.Database); ok && d.Source() == "" {
			d.Origin = at
			return d
		}
		return f
	}
	if d, ok := dberr.FromError(err); ok {
		d.Origin = at
		return d
	}
	if b, ok := fromBinding(err, at); ok {
		return b
	}
	return failure.Unclassified{Origin: at, Err: err}
}

// resolve computes the response facts. It never panics: a failure while
// resolving falls back to the Unclassified facts.
func (e *Engine) resolve(f failure.Failure) (facts failure.Facts, res *dberr.Result) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Interface("panic", r).
				Str("variant", f.Variant()).
				Msg("failure facts resolution panicked")
			facts, res = failure.Facts{
				Status:  http.StatusInternalServerError,
				Code:    failure.CodeInternal,
				Message: failure.MessageInternal,
			}, nil
		}
	}()

	switch v := f.(type) {
	case failure.Database:
		r := e.extractor.Extract(v)
		return r.Facts(), &r
	case failure.Unclassified:
		if isContextDone(v.Err) {
			return failure.Facts{
				Status:  http.StatusServiceUnavailable,
				Code:    failure.CodeServiceUnavailable,
				Message: MessageTimeout,
			}, nil
		}
		facts = e.factsOf(v)
		if e.debug {
			facts.Message = debugMessage(v)
		}
		return facts, nil
	default:
		return e.factsOf(f), nil
	}
}

func (e *Engine) log(ctx context.Context, rc RequestContext, f failure.Failure, facts failure.Facts, res *dberr.Result) {
	lg := rc.Logger
	if lg == nil {
		lg = &log.Logger
	}

	ev := lg.Warn()
	if facts.Status >= http.StatusInternalServerError {
		ev = lg.Error()
	}
	ev = ev.
		Str("request_id", rc.RequestID).
		Str("user_id", rc.UserID).
		Str("franchise_id", rc.FranchiseID).
		Str("method", rc.Method).
		Str("url", rc.URL).
		Str("client_ip", rc.ClientIP).
		Str("variant", f.Variant()).
		Int("status", facts.Status).
		Str("code", facts.Code).
		Str("client_message", facts.Message).
		Str("internal", redact.String(f.Error())).
		Str("source", f.Source())

	if d, ok := f.(failure.Database); ok {
		rs := e.extractor.RuleSet(d.Dialect)
		ev = ev.
			Str("db_dialect", rs.Name).
			Str("db_state", rs.State(d)).
			Int("db_code", d.Code).
			Str("db_rules", rs.Version)
		if res != nil {
			ev = ev.Int("db_rule", res.Rule)
		}
	}
	if ctx != nil && ctx.Err() != nil {
		ev = ev.Str("ctx_err", ctx.Err().Error())
	}
	ev.Msg("request failed")
}

func debugMessage(u failure.Unclassified) string {
	msg := u.Error()
	if src := u.Source(); src != "" {
		msg += " (at " + src + ")"
	}
	return msg
}

func isContextDone(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// callerOrigin returns the location skip frames above its caller.
func callerOrigin(skip int) failure.Origin {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return failure.Origin{}
	}
	return failure.Origin{File: file, Line: line}
}

// markSpan records the failure on the active span; 5xx marks it as an error.
func markSpan(ctx context.Context, f failure.Failure, facts failure.Facts) {
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.SetAttributes(
		attribute.String("failure.variant", f.Variant()),
		attribute.String("failure.code", facts.Code),
	)
	span.RecordError(f)
	if facts.Status >= http.StatusInternalServerError {
		span.SetStatus(codes.Error, facts.Code+" ("+strconv.Itoa(facts.Status)+")")
	}
}
