// Package failure defines the closed set of request failures the API knows
// how to report.
//
// Every failure that should reach a client is one of the variants declared in
// this package. They are constructed at the point of failure (deep inside
// services or repositories), travel up the call stack as ordinary Go errors,
// and are converted into an HTTP response exactly once at the transport
// boundary (see package engine).
//
// The set is sealed: Failure carries an unexported marker method, so only
// types declared here satisfy it. The marker is promoted through the embedded
// Origin, so pointers to the variants satisfy it too; Value folds them back
// into value form, after which a type switch over the variants is exhaustive.
//
// Conventions:
//   - Construction never fails. Zero values and empty inputs are legal and
//     fall back to documented defaults.
//   - Client-visible text (Facts.Message, Facts.Details) never contains stack
//     traces, file paths or raw database text. Those only live on Database
//     and Unclassified, and only reach logs.
package failure

import (
	"fmt"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
)

// Failure is one case of the closed failure taxonomy.
type Failure interface {
	error
	// Variant returns the stable variant name used in logs and metrics.
	Variant() string
	// Source returns the "file:line" where the failure was constructed, or ""
	// when it was built as a struct literal.
	Source() string

	sealed()
}

// Origin records where a failure was constructed.
type Origin struct {
	File string
	Line int
}

// Source formats the origin as "file:line" using the file base name.
func (o Origin) Source() string {
	if o.File == "" {
		return ""
	}
	return filepath.Base(o.File) + ":" + strconv.Itoa(o.Line)
}

func (Origin) sealed() {}

// Value returns the value form of f. A nil pointer variant becomes
// Unclassified.
func Value(f Failure) Failure {
	switch v := f.(type) {
	case *Validation:
		return deref(v)
	case *Authentication:
		return deref(v)
	case *Authorization:
		return deref(v)
	case *NotFound:
		return deref(v)
	case *Conflict:
		return deref(v)
	case *RateLimited:
		return deref(v)
	case *BadRequest:
		return deref(v)
	case *MethodNotAllowed:
		return deref(v)
	case *Database:
		return deref(v)
	case *Unclassified:
		return deref(v)
	}
	return f
}

func deref[T Failure](p *T) Failure {
	if p == nil {
		return Unclassified{Err: fmt.Errorf("nil %T reported as failure", p)}
	}
	return *p
}

// caller captures the location of the constructor's caller.
func caller() Origin {
	_, file, line, ok := runtime.Caller(2)
	if !ok {
		return Origin{}
	}
	return Origin{File: file, Line: line}
}

// Validation reports request input that failed validation. Fields maps a
// field name to a client-safe message.
type Validation struct {
	Origin
	Fields  map[string]string
	Message string
}

// NewValidation builds a Validation failure for the given field messages.
func NewValidation(fields map[string]string) Validation {
	return Validation{Origin: caller(), Fields: fields}
}

func (Validation) Variant() string { return "validation" }

func (v Validation) Error() string {
	keys := make([]string, 0, len(v.Fields))
	for k := range v.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "validation failed: " + strings.Join(keys, ", ")
}

// Authentication reports missing or invalid credentials. SubCode refines the
// public code (e.g. TOKEN_EXPIRED, SESSION_EXPIRED).
type Authentication struct {
	Origin
	Message string
	SubCode string
}

// NewAuthentication builds an Authentication failure.
func NewAuthentication(msg, subCode string) Authentication {
	return Authentication{Origin: caller(), Message: msg, SubCode: subCode}
}

func (Authentication) Variant() string { return "authentication" }

func (a Authentication) Error() string {
	return "authentication failed: " + firstNonEmpty(a.Message, a.SubCode, "unauthenticated")
}

// Authorization reports an authenticated caller lacking a permission.
// Permission may be empty when the check is not tied to a named permission.
type Authorization struct {
	Origin
	Permission string
}

// NewAuthorization builds an Authorization failure for the given permission.
func NewAuthorization(permission string) Authorization {
	return Authorization{Origin: caller(), Permission: permission}
}

func (Authorization) Variant() string { return "authorization" }

func (a Authorization) Error() string {
	if a.Permission == "" {
		return "permission denied"
	}
	return "permission denied: " + a.Permission
}

// NotFound reports a missing resource. ID is optional.
type NotFound struct {
	Origin
	Resource string
	ID       string
}

// NewNotFound builds a NotFound failure. Pass an empty id when the resource
// has no meaningful identifier.
func NewNotFound(resource, id string) NotFound {
	return NotFound{Origin: caller(), Resource: resource, ID: id}
}

func (NotFound) Variant() string { return "not_found" }

func (n NotFound) Error() string { return notFoundMessage(n.Resource, n.ID) }

// Conflict reports a business-rule conflict with the current resource state.
type Conflict struct {
	Origin
	Message string
	SubCode string
}

// NewConflict builds a Conflict failure.
func NewConflict(msg, subCode string) Conflict {
	return Conflict{Origin: caller(), Message: msg, SubCode: subCode}
}

func (Conflict) Variant() string { return "conflict" }

func (c Conflict) Error() string {
	return "conflict: " + firstNonEmpty(c.Message, c.SubCode, "conflict")
}

// RateLimited reports that the caller exceeded its request budget.
type RateLimited struct {
	Origin
	RetryAfter int // seconds
}

// NewRateLimited builds a RateLimited failure.
func NewRateLimited(retryAfterSeconds int) RateLimited {
	return RateLimited{Origin: caller(), RetryAfter: retryAfterSeconds}
}

func (RateLimited) Variant() string { return "rate_limited" }

func (r RateLimited) Error() string {
	return fmt.Sprintf("rate limit exceeded (retry after %ds)", retryAfter(r.RetryAfter))
}

// BadRequest reports a malformed request (unparseable body, missing fields).
type BadRequest struct {
	Origin
	Message string
	SubCode string
}

// NewBadRequest builds a BadRequest failure.
func NewBadRequest(msg, subCode string) BadRequest {
	return BadRequest{Origin: caller(), Message: msg, SubCode: subCode}
}

func (BadRequest) Variant() string { return "bad_request" }

func (b BadRequest) Error() string {
	return "bad request: " + firstNonEmpty(b.Message, b.SubCode, "malformed")
}

// MethodNotAllowed reports an HTTP method not supported by a known route.
type MethodNotAllowed struct {
	Origin
	Method  string
	Allowed []string
}

// NewMethodNotAllowed builds a MethodNotAllowed failure.
func NewMethodNotAllowed(method string, allowed []string) MethodNotAllowed {
	return MethodNotAllowed{Origin: caller(), Method: method, Allowed: allowed}
}

func (MethodNotAllowed) Variant() string { return "method_not_allowed" }

func (m MethodNotAllowed) Error() string { return "method not allowed: " + m.Method }

// Database carries a raw database-engine failure. None of its fields may be
// shown to a client; the engine derives client text through package dberr.
//
// Dialect names the rule set that understands Message ("mysql", "postgres",
// "sqlite"); empty means the configured default.
type Database struct {
	Origin
	Dialect string
	State   string // SQLSTATE-style error state
	Code    int    // vendor error number, 0 when unknown
	Message string // vendor message text
	Cause   error
}

func (Database) Variant() string { return "database" }

func (d Database) Error() string {
	return fmt.Sprintf("database error [%s/%d]: %s", d.State, d.Code, d.Message)
}

func (d Database) Unwrap() error { return d.Cause }

// Unclassified wraps any failure the taxonomy has no better name for.
type Unclassified struct {
	Origin
	Err error
}

// NewUnclassified wraps err, recording the caller as its source.
func NewUnclassified(err error) Unclassified {
	return Unclassified{Origin: caller(), Err: err}
}

func (Unclassified) Variant() string { return "unclassified" }

func (u Unclassified) Error() string {
	if u.Err == nil {
		return "unclassified failure"
	}
	return u.Err.Error()
}

func (u Unclassified) Unwrap() error { return u.Err }

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
