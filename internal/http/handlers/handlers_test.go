package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tbourn/go-billing-errors/internal/dberr"
	"github.com/tbourn/go-billing-errors/internal/domain"
	"github.com/tbourn/go-billing-errors/internal/engine"
	"github.com/tbourn/go-billing-errors/internal/envelope"
	"github.com/tbourn/go-billing-errors/internal/http/middleware"
	"github.com/tbourn/go-billing-errors/internal/repo"
	"github.com/tbourn/go-billing-errors/internal/services"
)

// customerRepo adapts the repo functions to services.CustomerRepo.
type customerRepo struct{}

func (customerRepo) CreateCustomer(ctx context.Context, db *gorm.DB, c *domain.Customer) error {
	return repo.CreateCustomer(ctx, db, c)
}
func (customerRepo) GetCustomer(ctx context.Context, db *gorm.DB, fid, id string) (*domain.Customer, error) {
	return repo.GetCustomer(ctx, db, fid, id)
}
func (customerRepo) CountCustomers(ctx context.Context, db *gorm.DB, fid string) (int64, error) {
	return repo.CountCustomers(ctx, db, fid)
}
func (customerRepo) ListCustomersPage(ctx context.Context, db *gorm.DB, fid string, offset, limit int) ([]domain.Customer, error) {
	return repo.ListCustomersPage(ctx, db, fid, offset, limit)
}
func (customerRepo) DeleteCustomer(ctx context.Context, db *gorm.DB, fid, id string) error {
	return repo.DeleteCustomer(ctx, db, fid, id)
}
func (customerRepo) CountInvoicesForCustomer(ctx context.Context, db *gorm.DB, id string) (int64, error) {
	return repo.CountInvoicesForCustomer(ctx, db, id)
}

type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   *struct {
		Code    string            `json:"code"`
		Type    string            `json:"type"`
		Details map[string]string `json:"details"`
	} `json:"error"`
	Meta envelope.Meta `json:"meta"`
}

func newTestAPI(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := repo.OpenSQLite(filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}

	eng := engine.New(engine.Options{Extractor: dberr.NewExtractor(dberr.DialectSQLite)})
	h := New(eng,
		services.NewCustomerService(db, customerRepo{}),
		services.NewInvoiceService(db),
		&services.PaymentService{DB: db},
	)

	r := gin.New()
	r.Use(envelope.Middleware(envelope.Options{Strict: true}))
	r.Use(func(c *gin.Context) {
		c.Set(middleware.CtxKeyUserID, "u1")
		c.Set(middleware.CtxKeyFranchiseID, "f1")
		c.Next()
	})
	r.POST("/customers", h.CreateCustomer)
	r.GET("/customers", h.ListCustomers)
	r.GET("/customers/:id", h.GetCustomer)
	r.DELETE("/customers/:id", h.DeleteCustomer)
	r.POST("/invoices", h.CreateInvoice)
	r.GET("/invoices/:id", h.GetInvoice)
	r.POST("/invoices/:id/void", h.VoidInvoice)
	r.POST("/invoices/:id/payments", h.PayInvoice)
	return r, db
}

func do(t *testing.T, r http.Handler, method, path, body string, hdr ...string) (*httptest.ResponseRecorder, apiEnvelope) {
	t.Helper()
	var rd *bytes.Reader
	if body != "" {
		rd = bytes.NewReader([]byte(body))
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env apiEnvelope
	if w.Code != http.StatusNotModified {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: bad json %q: %v", method, path, w.Body.String(), err)
		}
		if env.Meta.RequestID == "" || env.Meta.Timestamp == "" {
			t.Fatalf("%s %s: missing meta: %s", method, path, w.Body.String())
		}
	}
	return w, env
}

func createCustomer(t *testing.T, r http.Handler, email string) domain.Customer {
	t.Helper()
	w, env := do(t, r, http.MethodPost, "/customers", `{"email":"`+email+`","name":"Jane"}`)
	if w.Code != http.StatusCreated || !env.Success {
		t.Fatalf("create customer: %d %s", w.Code, w.Body.String())
	}
	var c domain.Customer
	if err := json.Unmarshal(env.Data, &c); err != nil {
		t.Fatalf("decode customer: %v", err)
	}
	return c
}

func createInvoice(t *testing.T, r http.Handler, customerID, number string, amount string) domain.Invoice {
	t.Helper()
	w, env := do(t, r, http.MethodPost, "/invoices", `{"customer_id":"`+customerID+`","number":"`+number+`","amount_cents":`+amount+`}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create invoice: %d %s", w.Code, w.Body.String())
	}
	var inv domain.Invoice
	if err := json.Unmarshal(env.Data, &inv); err != nil {
		t.Fatalf("decode invoice: %v", err)
	}
	return inv
}

func wantError(t *testing.T, w *httptest.ResponseRecorder, env apiEnvelope, status int, code string) {
	t.Helper()
	if w.Code != status {
		t.Fatalf("status=%d want %d body=%s", w.Code, status, w.Body.String())
	}
	if env.Success || env.Error == nil || env.Error.Code != code {
		t.Fatalf("want code %s, got %s", code, w.Body.String())
	}
	if env.Error.Type != envelope.TypeFor(status) {
		t.Fatalf("type=%q want %q", env.Error.Type, envelope.TypeFor(status))
	}
}

func TestCreateCustomer_SuccessAndDuplicate(t *testing.T) {
	r, _ := newTestAPI(t)
	c := createCustomer(t, r, "jane@example.com")
	if c.ID == "" || c.FranchiseID != "f1" {
		t.Fatalf("unexpected customer: %+v", c)
	}

	w, env := do(t, r, http.MethodPost, "/customers", `{"email":"JANE@example.com","name":"Other"}`)
	wantError(t, w, env, http.StatusConflict, "DUPLICATE_ENTRY")
	if env.Message != "A record with this Email already exists" {
		t.Fatalf("message=%q", env.Message)
	}
	if strings.Contains(w.Body.String(), "UNIQUE constraint") {
		t.Fatalf("driver text leaked: %s", w.Body.String())
	}
}

func TestCreateCustomer_BindingFailures(t *testing.T) {
	r, _ := newTestAPI(t)

	w, env := do(t, r, http.MethodPost, "/customers", `{"email":"not-an-email"}`)
	wantError(t, w, env, http.StatusUnprocessableEntity, "VALIDATION_FAILED")
	if env.Error.Details["email"] == "" || env.Error.Details["name"] == "" {
		t.Fatalf("expected json field names in details: %v", env.Error.Details)
	}

	w, env = do(t, r, http.MethodPost, "/customers", `{"email":`)
	wantError(t, w, env, http.StatusBadRequest, "INVALID_JSON")

	w, env = do(t, r, http.MethodPost, "/customers", `{"email":42,"name":"x"}`)
	wantError(t, w, env, http.StatusUnprocessableEntity, "VALIDATION_FAILED")
}

func TestGetCustomer_NotFound(t *testing.T) {
	r, _ := newTestAPI(t)
	w, env := do(t, r, http.MethodGet, "/customers/nope", "")
	wantError(t, w, env, http.StatusNotFound, "CUSTOMER_NOT_FOUND")
	if env.Message != "Customer with identifier 'nope' not found" {
		t.Fatalf("message=%q", env.Message)
	}
}

func TestListCustomers_PaginationAndETag(t *testing.T) {
	r, _ := newTestAPI(t)
	createCustomer(t, r, "a@example.com")
	createCustomer(t, r, "b@example.com")
	createCustomer(t, r, "c@example.com")

	w, env := do(t, r, http.MethodGet, "/customers?page=1&page_size=2", "")
	if w.Code != http.StatusOK || !env.Success || env.Message != "OK" {
		t.Fatalf("list: %d %s", w.Code, w.Body.String())
	}
	var page ListCustomersResponse
	if err := json.Unmarshal(env.Data, &page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(page.Customers) != 2 || page.Pagination.Total != 3 || page.Pagination.TotalPages != 2 || !page.Pagination.HasNext {
		t.Fatalf("unexpected page: %+v", page)
	}

	etag := w.Header().Get("ETag")
	if etag == "" {
		t.Fatalf("missing ETag")
	}
	w, _ = do(t, r, http.MethodGet, "/customers?page=1&page_size=2", "", "If-None-Match", etag)
	if w.Code != http.StatusNotModified || w.Body.Len() != 0 {
		t.Fatalf("expected 304 with empty body, got %d %q", w.Code, w.Body.String())
	}
}

func TestDeleteCustomer_ConflictThenOK(t *testing.T) {
	r, _ := newTestAPI(t)
	c := createCustomer(t, r, "a@example.com")
	createInvoice(t, r, c.ID, "INV-1", "1000")

	w, env := do(t, r, http.MethodDelete, "/customers/"+c.ID, "")
	wantError(t, w, env, http.StatusConflict, services.CodeCustomerHasInvoices)

	other := createCustomer(t, r, "b@example.com")
	w, env = do(t, r, http.MethodDelete, "/customers/"+other.ID, "")
	if w.Code != http.StatusOK || env.Message != "Customer deleted" {
		t.Fatalf("delete: %d %s", w.Code, w.Body.String())
	}
}

func TestCreateInvoice_UnknownCustomer(t *testing.T) {
	r, _ := newTestAPI(t)
	w, env := do(t, r, http.MethodPost, "/invoices", `{"customer_id":"ghost","number":"INV-1","amount_cents":100}`)
	wantError(t, w, env, http.StatusConflict, "FOREIGN_KEY_VIOLATION")
	if env.Message != dberr.MsgReferenceMissing {
		t.Fatalf("message=%q", env.Message)
	}
}

func TestGetInvoice_NotFound(t *testing.T) {
	r, _ := newTestAPI(t)
	w, env := do(t, r, http.MethodGet, "/invoices/INV-404", "")
	wantError(t, w, env, http.StatusNotFound, "INVOICE_NOT_FOUND")
}

func TestPayInvoice_OverpaymentAndVoid(t *testing.T) {
	r, _ := newTestAPI(t)
	c := createCustomer(t, r, "a@example.com")
	inv := createInvoice(t, r, c.ID, "INV-1", "1000")

	w, env := do(t, r, http.MethodPost, "/invoices/"+inv.ID+"/payments", `{"amount_cents":400,"method":"cash"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("pay: %d %s", w.Code, w.Body.String())
	}
	var pr PaymentResponse
	if err := json.Unmarshal(env.Data, &pr); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if pr.Invoice.PaidCents != 400 || pr.Invoice.Status != domain.InvoicePartial {
		t.Fatalf("unexpected invoice: %+v", pr.Invoice)
	}

	w, env = do(t, r, http.MethodPost, "/invoices/"+inv.ID+"/payments", `{"amount_cents":700}`)
	wantError(t, w, env, http.StatusConflict, "OVERPAYMENT_NOT_ALLOWED")
	if env.Message != "Overpayment not allowed" {
		t.Fatalf("message=%q", env.Message)
	}

	w, env = do(t, r, http.MethodPost, "/invoices/"+inv.ID+"/payments", `{"amount_cents":10,"method":"bitcoin"}`)
	wantError(t, w, env, http.StatusUnprocessableEntity, "VALIDATION_FAILED")
	if !strings.Contains(env.Error.Details["method"], "card, cash, transfer") {
		t.Fatalf("details=%v", env.Error.Details)
	}

	// Partially paid invoices cannot be voided.
	w, env = do(t, r, http.MethodPost, "/invoices/"+inv.ID+"/void", "")
	wantError(t, w, env, http.StatusConflict, services.CodeInvoiceNotOpen)

	fresh := createInvoice(t, r, c.ID, "INV-2", "500")
	w, _ = do(t, r, http.MethodPost, "/invoices/"+fresh.ID+"/void", "")
	if w.Code != http.StatusOK {
		t.Fatalf("void: %d %s", w.Code, w.Body.String())
	}
	w, env = do(t, r, http.MethodPost, "/invoices/"+fresh.ID+"/payments", `{"amount_cents":10}`)
	wantError(t, w, env, http.StatusConflict, "INVOICE_IS_VOID")
}

func TestPagination_Clamp(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		q              string
		page, pageSize int
	}{
		{"", 1, 20},
		{"page=0&page_size=0", 1, 1},
		{"page=3&page_size=500", 3, 100},
		{"page=x&page_size=y", 1, 20},
	}
	for _, tc := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/?"+tc.q, nil)
		p, ps := clampPagination(c)
		if p != tc.page || ps != tc.pageSize {
			t.Fatalf("%q: got (%d,%d) want (%d,%d)", tc.q, p, ps, tc.page, tc.pageSize)
		}
	}
	if pg := newPagination(2, 10, 25); pg.TotalPages != 3 || !pg.HasNext {
		t.Fatalf("newPagination: %+v", pg)
	}
}
