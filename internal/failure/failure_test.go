package failure

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

var allowedStatuses = map[int]bool{
	400: true, 401: true, 403: true, 404: true, 405: true,
	409: true, 422: true, 429: true, 500: true, 503: true,
}

func TestFactsOf_Totality(t *testing.T) {
	cases := []Failure{
		Validation{},
		NewValidation(map[string]string{"email": "is required"}),
		Authentication{},
		NewAuthentication("Token expired", "TOKEN_EXPIRED"),
		Authorization{},
		NewAuthorization("invoices.write"),
		NotFound{},
		NewNotFound("Invoice", "INV-1"),
		Conflict{},
		NewConflict("already paid", "INVOICE_PAID"),
		RateLimited{},
		NewRateLimited(30),
		BadRequest{},
		NewBadRequest("bad json", CodeInvalidJSON),
		MethodNotAllowed{},
		NewMethodNotAllowed("PATCH", []string{"GET", "POST"}),
		Database{},
		Database{State: "23000", Message: "Duplicate entry 'x' for key 'k'"},
		Unclassified{},
		NewUnclassified(errors.New("boom")),
	}

	for _, f := range cases {
		f := f
		t.Run(fmt.Sprintf("%s/%T", f.Variant(), f), func(t *testing.T) {
			got := FactsOf(f)
			if !allowedStatuses[got.Status] {
				t.Fatalf("status %d not in allowed set", got.Status)
			}
			if got.Code == "" {
				t.Fatalf("empty code for %#v", f)
			}
			if got.Message == "" {
				t.Fatalf("empty message for %#v", f)
			}
		})
	}
}

func TestFactsOf_PointerVariants(t *testing.T) {
	cases := []Failure{
		&Validation{Fields: map[string]string{"email": "is required"}},
		&Authentication{},
		&Authorization{},
		&NotFound{Resource: "Invoice", ID: "INV-1"},
		&Conflict{},
		&RateLimited{},
		&BadRequest{},
		&MethodNotAllowed{},
		&Database{State: "23000"},
		&Unclassified{},
	}
	for _, f := range cases {
		got, want := FactsOf(f), FactsOf(Value(f))
		if got.Status != want.Status || got.Code != want.Code || got.Message != want.Message {
			t.Fatalf("%T: got %+v, want %+v", f, got, want)
		}
		if !allowedStatuses[got.Status] || got.Code == "" || got.Message == "" {
			t.Fatalf("%T: incomplete facts %+v", f, got)
		}
	}

	got := FactsOf(&NotFound{Resource: "Invoice", ID: "INV-1"})
	if got.Status != http.StatusNotFound || got.Code != "INVOICE_NOT_FOUND" {
		t.Fatalf("pointer not found: %+v", got)
	}
	if _, ok := Value(&Database{State: "23000"}).(Database); !ok {
		t.Fatalf("Value did not dereference *Database")
	}

	var nilNF *NotFound
	got = FactsOf(nilNF)
	if got.Status != http.StatusInternalServerError || got.Code != CodeInternal {
		t.Fatalf("nil pointer variant: %+v", got)
	}
}

func TestFactsOf_NotFoundFormatting(t *testing.T) {
	got := FactsOf(NewNotFound("Invoice", "INV-123"))
	if got.Status != http.StatusNotFound {
		t.Fatalf("status=%d", got.Status)
	}
	if got.Code != "INVOICE_NOT_FOUND" {
		t.Fatalf("code=%q", got.Code)
	}
	if got.Message != "Invoice with identifier 'INV-123' not found" {
		t.Fatalf("message=%q", got.Message)
	}

	got = FactsOf(NewNotFound("Invoice", ""))
	if got.Message != "Invoice not found" {
		t.Fatalf("message=%q", got.Message)
	}

	got = FactsOf(NotFound{})
	if got.Code != "RESOURCE_NOT_FOUND" || got.Message != "Resource not found" {
		t.Fatalf("zero value facts: %+v", got)
	}

	if c := NotFoundCode("payment plan"); c != "PAYMENT_PLAN_NOT_FOUND" {
		t.Fatalf("multiword code=%q", c)
	}
}

func TestFactsOf_ValidationDetails(t *testing.T) {
	got := FactsOf(NewValidation(nil))
	if got.Status != http.StatusUnprocessableEntity || got.Code != CodeValidationFailed {
		t.Fatalf("unexpected facts: %+v", got)
	}
	d, ok := got.Details.(map[string]string)
	if !ok || d == nil || len(d) != 0 {
		t.Fatalf("expected empty non-nil details, got %#v", got.Details)
	}

	got = FactsOf(NewValidation(map[string]string{"email": "must be a valid email"}))
	d = got.Details.(map[string]string)
	if d["email"] != "must be a valid email" {
		t.Fatalf("details=%#v", d)
	}
}

func TestFactsOf_SubCodesAndHeaders(t *testing.T) {
	if got := FactsOf(NewAuthentication("", "")); got.Code != CodeUnauthorized || got.Status != 401 {
		t.Fatalf("auth default: %+v", got)
	}
	if got := FactsOf(NewAuthentication("Session expired", CodeSessionExpired)); got.Code != CodeSessionExpired {
		t.Fatalf("auth subcode: %+v", got)
	}
	if got := FactsOf(NewBadRequest("Malformed JSON body", CodeInvalidJSON)); got.Code != CodeInvalidJSON || got.Status != 400 {
		t.Fatalf("bad request subcode: %+v", got)
	}
	if got := FactsOf(NewConflict("", "")); got.Code != CodeConflict || got.Status != 409 {
		t.Fatalf("conflict default: %+v", got)
	}

	rl := FactsOf(NewRateLimited(0))
	if rl.Header["Retry-After"] != "1" {
		t.Fatalf("retry-after floor: %+v", rl)
	}
	rl = FactsOf(NewRateLimited(42))
	if rl.Header["Retry-After"] != "42" || !strings.Contains(rl.Message, "42") {
		t.Fatalf("retry-after: %+v", rl)
	}

	mna := FactsOf(NewMethodNotAllowed("DELETE", []string{"GET", "POST"}))
	if mna.Status != 405 || mna.Header["Allow"] != "GET, POST" {
		t.Fatalf("405 facts: %+v", mna)
	}

	az := FactsOf(NewAuthorization("customers.delete"))
	if az.Status != 403 || az.Code != CodePermissionDenied {
		t.Fatalf("authz: %+v", az)
	}
	if strings.Contains(az.Message, "customers.delete") {
		t.Fatalf("permission name should stay in details: %q", az.Message)
	}
}

func TestFactsOf_InternalsNeverReachMessage(t *testing.T) {
	db := Database{State: "42000", Message: "You have an error in your SQL syntax near 'SELEC'"}
	if got := FactsOf(db); strings.Contains(got.Message, "SELEC") {
		t.Fatalf("raw db text leaked: %q", got.Message)
	}
	u := NewUnclassified(errors.New("open /etc/secrets.yaml: permission denied"))
	if got := FactsOf(u); strings.Contains(got.Message, "secrets") || got.Message != MessageInternal {
		t.Fatalf("internal text leaked: %q", got.Message)
	}
}

func TestConstructors_RecordSource(t *testing.T) {
	f := NewConflict("x", "")
	if !strings.HasPrefix(f.Source(), "failure_test.go:") {
		t.Fatalf("source=%q", f.Source())
	}
	if (Conflict{}).Source() != "" {
		t.Fatalf("literal should have empty source")
	}
}

func TestErrorsAs_FindsVariantThroughWrapping(t *testing.T) {
	err := fmt.Errorf("load invoice: %w", NewNotFound("Invoice", "7"))

	var f Failure
	if !errors.As(err, &f) {
		t.Fatalf("errors.As failed")
	}
	if f.Variant() != "not_found" {
		t.Fatalf("variant=%q", f.Variant())
	}

	cause := errors.New("root")
	if !errors.Is(NewUnclassified(cause), cause) {
		t.Fatalf("Unclassified must unwrap")
	}
	if !errors.Is(Database{Cause: cause}, cause) {
		t.Fatalf("Database must unwrap")
	}
}

func TestCodeFromText(t *testing.T) {
	cases := map[string]string{
		"Overpayment not allowed":   "OVERPAYMENT_NOT_ALLOWED",
		"  credit-limit exceeded! ": "CREDIT_LIMIT_EXCEEDED",
		"":                          "",
		"Invoice #42 locked":        "INVOICE_42_LOCKED",
	}
	for in, want := range cases {
		if got := CodeFromText(in); got != want {
			t.Fatalf("CodeFromText(%q)=%q want %q", in, got, want)
		}
	}
}
