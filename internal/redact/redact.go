// Package redact scrubs obvious PII (UUIDs, email addresses, phone numbers)
// from strings before they are written to logs.
//
// It is shared by the access logger and by the failure engine, which logs raw
// database vendor text (duplicate-key values are frequently email addresses).
package redact

import (
	"net/http"
	"regexp"
	"strings"
)

// Placeholders substituted for matched values.
const (
	IDPlaceholder     = "[REDACTED:id]"
	EmailPlaceholder  = "[REDACTED:email]"
	PhonePlaceholder  = "[REDACTED:phone]"
	HeaderPlaceholder = "[REDACTED]"
)

var (
	uuidRE  = regexp.MustCompile(`(?i)\b[0-9a-f]{8}\-[0-9a-f]{4}\-[1-5][0-9a-f]{3}\-[89ab][0-9a-f]{3}\-[0-9a-f]{12}\b`)
	emailRE = regexp.MustCompile(`(?i)\b[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}\b`)
	// Digits-only so UUID hex segments are never mistaken for phone numbers.
	// Matches "+1 212-555-1212", "212 555 1212", "(212) 555-1212".
	phoneRE = regexp.MustCompile(`\b(?:\+?\d{1,3}[ .-]?)?(?:\(?\d{2,4}\)?[ .-]?)?\d{3,4}[ .-]?\d{4}\b`)
)

// defaultMasked are always fully masked by Headers.
var defaultMasked = []string{"authorization", "cookie", "set-cookie"}

// String replaces UUIDs, emails and phone numbers in s with placeholders.
// UUIDs go first: the phone pattern is the loosest and would otherwise eat
// their digit runs.
func String(s string) string {
	if s == "" {
		return s
	}
	s = uuidRE.ReplaceAllString(s, IDPlaceholder)
	s = emailRE.ReplaceAllString(s, EmailPlaceholder)
	return phoneRE.ReplaceAllString(s, PhonePlaceholder)
}

// Masker fully masks a fixed set of header names and scrubs the rest.
type Masker struct {
	masked map[string]struct{}
}

// NewMasker returns a Masker for the built-in sensitive headers plus extra.
// Names are matched case-insensitively.
func NewMasker(extra ...string) *Masker {
	m := &Masker{masked: make(map[string]struct{}, len(defaultMasked)+len(extra))}
	for _, h := range append(append([]string{}, defaultMasked...), extra...) {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			m.masked[h] = struct{}{}
		}
	}
	return m
}

// Headers returns a flattened, scrubbed copy of h.
func (m *Masker) Headers(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, vv := range h {
		if _, ok := m.masked[strings.ToLower(k)]; ok {
			out[k] = HeaderPlaceholder
			continue
		}
		out[k] = String(strings.Join(vv, ", "))
	}
	return out
}
