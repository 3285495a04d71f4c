// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file resolves the caller identity from trusted gateway headers. The
// service sits behind an authenticating gateway that forwards:
//
//	X-User-ID:      authenticated user
//	X-Franchise-ID: tenant the request acts on
//	X-Permissions:  comma-separated permission names
//
// Token and session handling stay at the gateway.
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-billing-errors/internal/failure"
)

// Identity headers.
const (
	HeaderUserID      = "X-User-ID"
	HeaderFranchiseID = "X-Franchise-ID"
	HeaderPermissions = "X-Permissions"
)

// Gin context keys set by Identity.
const (
	CtxKeyUserID      = "userID"
	CtxKeyFranchiseID = "franchiseID"
	CtxKeyPermissions = "permissions"
)

// CodeMissingCredentials is the Authentication sub-code for requests that
// arrive without identity headers.
const CodeMissingCredentials = "MISSING_CREDENTIALS"

// Identity requires X-User-ID and X-Franchise-ID and stores them, plus the
// parsed permission set, in the Gin context. Missing identity is reported to
// onFail as an Authentication failure.
func Identity(onFail FailureFunc) gin.HandlerFunc {
	onFail = orDefault(onFail)
	return func(c *gin.Context) {
		uid := strings.TrimSpace(c.GetHeader(HeaderUserID))
		fid := strings.TrimSpace(c.GetHeader(HeaderFranchiseID))
		if uid == "" || fid == "" {
			onFail(c, failure.NewAuthentication("Authentication required", CodeMissingCredentials))
			c.Abort()
			return
		}

		perms := map[string]struct{}{}
		for _, p := range splitCSV(c.GetHeader(HeaderPermissions)) {
			perms[strings.ToLower(p)] = struct{}{}
		}

		c.Set(CtxKeyUserID, uid)
		c.Set(CtxKeyFranchiseID, fid)
		c.Set(CtxKeyPermissions, perms)
		c.Next()
	}
}

// HasPermission reports whether the caller was granted perm. "*" grants all.
func HasPermission(c *gin.Context, perm string) bool {
	v, ok := c.Get(CtxKeyPermissions)
	if !ok {
		return false
	}
	set, _ := v.(map[string]struct{})
	if _, ok := set["*"]; ok {
		return true
	}
	_, ok = set[strings.ToLower(perm)]
	return ok
}

// RequirePermission rejects callers lacking perm with an Authorization
// failure.
func RequirePermission(perm string, onFail FailureFunc) gin.HandlerFunc {
	onFail = orDefault(onFail)
	return func(c *gin.Context) {
		if !HasPermission(c, perm) {
			onFail(c, failure.NewAuthorization(perm))
			c.Abort()
			return
		}
		c.Next()
	}
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
