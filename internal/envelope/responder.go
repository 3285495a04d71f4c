package envelope

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-billing-errors/internal/failure"
)

const (
	// RequestIDKey is the gin context key holding the correlation id.
	RequestIDKey = "requestID"
	// RequestIDHeader carries the correlation id in both directions.
	RequestIDHeader = "X-Request-ID"

	responderKey = "envelope.responder"
)

// Options configure a Responder.
type Options struct {
	// Strict makes a second emission panic instead of being dropped.
	Strict bool
	// Now overrides the clock (tests).
	Now func() time.Time
}

// Responder is the per-request response writer. It is not shared between
// requests and must only be used from the request's goroutine.
type Responder struct {
	c    *gin.Context
	opts Options

	requestID string
	emitted   bool
}

// Attach installs a Responder on c, replacing any existing one.
func Attach(c *gin.Context, opts Options) *Responder {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	r := &Responder{c: c, opts: opts}
	c.Set(responderKey, r)
	return r
}

// From returns the Responder attached to c, attaching a non-strict one when
// the middleware did not run.
func From(c *gin.Context) *Responder {
	if v, ok := c.Get(responderKey); ok {
		if r, ok := v.(*Responder); ok {
			return r
		}
	}
	return Attach(c, Options{})
}

// Middleware attaches a Responder to every request.
func Middleware(opts Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		Attach(c, opts)
		c.Next()
	}
}

// RequestID returns the request's correlation id. The first call resolves it
// (context value, then inbound header, then a fresh UUID) and every later call
// returns the same value.
func (r *Responder) RequestID() string {
	if r.requestID != "" {
		return r.requestID
	}
	rid := r.c.GetString(RequestIDKey)
	if rid == "" {
		rid = r.c.GetHeader(RequestIDHeader)
	}
	if rid == "" {
		rid = uuid.NewString()
	}
	r.requestID = rid
	r.c.Set(RequestIDKey, rid)
	if !r.c.Writer.Written() {
		r.c.Writer.Header().Set(RequestIDHeader, rid)
	}
	return rid
}

// Emitted reports whether a body has already been written for this request.
func (r *Responder) Emitted() bool {
	return r.emitted || r.c.Writer.Written()
}

// Meta returns the envelope meta for this request.
func (r *Responder) Meta() Meta {
	return NewMeta(r.opts.Now(), r.RequestID())
}

// Success writes a success envelope with status (200 when zero) and ends the
// request. It reports whether the body was written.
func (r *Responder) Success(status int, data any, message string) bool {
	if status == 0 {
		status = http.StatusOK
	}
	if !r.claim() {
		return false
	}
	r.write(status, Success(data, message, r.Meta()))
	return true
}

// Error writes the error envelope described by f and ends the request. Extra
// headers in f (Retry-After, Allow) are set before the body. It reports
// whether the body was written.
func (r *Responder) Error(f failure.Facts) bool {
	if !r.claim() {
		return false
	}
	for k, v := range f.Header {
		r.c.Header(k, v)
	}
	r.write(f.Status, Error(f.Status, f.Code, "", f.Message, f.Details, r.Meta()))
	return true
}

func (r *Responder) claim() bool {
	if r.Emitted() {
		if r.opts.Strict {
			panic(fmt.Sprintf("envelope: response already emitted for request %s", r.RequestID()))
		}
		log.Warn().
			Str("request_id", r.RequestID()).
			Str("path", r.c.Request.URL.Path).
			Msg("envelope: dropped second response")
		return false
	}
	r.emitted = true
	return true
}

func (r *Responder) write(status int, body any) {
	r.RequestID()
	r.c.Abort()
	r.c.JSON(status, body)
}
