// Invoice and payment HTTP handlers.
//
//   - POST /invoices                (issue)
//   - GET  /invoices/{id}           (read)
//   - POST /invoices/{id}/void      (void an open invoice)
//   - POST /invoices/{id}/payments  (pay)

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-billing-errors/internal/services"
)

// CreateInvoice godoc
// @ID          createInvoice
// @Summary     Issue an invoice
// @Description Issues an invoice to a customer of the caller's franchise.
// @Tags        Invoices
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID       header  string  true  "User ID"       example(user123)
// @Param       X-Franchise-ID  header  string  true  "Franchise ID"  example(fr-001)
// @Param       body            body    handlers.CreateInvoiceRequest  true  "Invoice payload"
//
// @Success     201  {object}  envelope.SuccessEnvelope{data=domain.Invoice}
// @Failure     400  {object}  envelope.ErrorEnvelope  "Malformed JSON"
// @Failure     409  {object}  envelope.ErrorEnvelope  "Unknown customer or duplicate number"
// @Failure     422  {object}  envelope.ErrorEnvelope  "Validation failed"
// @Router      /invoices [post]
func (h *Handlers) CreateInvoice(c *gin.Context) {
	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail.Handle(c, err)
		return
	}

	inv, err := h.invoiceSvc.Create(c.Request.Context(), franchiseID(c), services.NewInvoice{
		CustomerID:  req.CustomerID,
		Number:      req.Number,
		AmountCents: req.AmountCents,
		Currency:    req.Currency,
		DueDate:     req.DueDate,
	})
	if err != nil {
		h.fail.Handle(c, err)
		return
	}
	ok(c, http.StatusCreated, inv, "Invoice created")
}

// GetInvoice godoc
// @ID          getInvoice
// @Summary     Get an invoice
// @Tags        Invoices
// @Produce     json
//
// @Param       X-User-ID       header  string  true  "User ID"       example(user123)
// @Param       X-Franchise-ID  header  string  true  "Franchise ID"  example(fr-001)
// @Param       id              path    string  true  "Invoice ID"    format(uuid)
//
// @Success     200  {object} envelope.SuccessEnvelope{data=domain.Invoice}
// @Failure     404  {object} envelope.ErrorEnvelope "Invoice not found"
// @Router      /invoices/{id} [get]
func (h *Handlers) GetInvoice(c *gin.Context) {
	inv, err := h.invoiceSvc.Get(c.Request.Context(), franchiseID(c), c.Param("id"))
	if err != nil {
		h.fail.Handle(c, err)
		return
	}
	ok(c, http.StatusOK, inv, "")
}

// VoidInvoice godoc
// @ID          voidInvoice
// @Summary     Void an invoice
// @Description Voids an open invoice. Invoices with payments cannot be voided.
// @Tags        Invoices
// @Produce     json
//
// @Param       X-User-ID       header  string  true  "User ID"       example(user123)
// @Param       X-Franchise-ID  header  string  true  "Franchise ID"  example(fr-001)
// @Param       id              path    string  true  "Invoice ID"    format(uuid)
//
// @Success     200  {object} envelope.SuccessEnvelope{data=domain.Invoice}
// @Failure     404  {object} envelope.ErrorEnvelope "Invoice not found"
// @Failure     409  {object} envelope.ErrorEnvelope "Invoice not open"
// @Router      /invoices/{id}/void [post]
func (h *Handlers) VoidInvoice(c *gin.Context) {
	inv, err := h.invoiceSvc.Void(c.Request.Context(), franchiseID(c), c.Param("id"))
	if err != nil {
		h.fail.Handle(c, err)
		return
	}
	ok(c, http.StatusOK, inv, "Invoice voided")
}

// PayInvoice godoc
// @ID          payInvoice
// @Summary     Pay an invoice
// @Description Records a payment. Payments above the outstanding balance or on void invoices are rejected.
// @Tags        Invoices
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID       header  string  true  "User ID"       example(user123)
// @Param       X-Franchise-ID  header  string  true  "Franchise ID"  example(fr-001)
// @Param       id              path    string  true  "Invoice ID"    format(uuid)
// @Param       body            body    handlers.CreatePaymentRequest  true  "Payment payload"
//
// @Success     201  {object} envelope.SuccessEnvelope{data=handlers.PaymentResponse}
// @Failure     404  {object} envelope.ErrorEnvelope "Invoice not found"
// @Failure     409  {object} envelope.ErrorEnvelope "OVERPAYMENT_NOT_ALLOWED or INVOICE_IS_VOID"
// @Failure     422  {object} envelope.ErrorEnvelope "Validation failed"
// @Router      /invoices/{id}/payments [post]
func (h *Handlers) PayInvoice(c *gin.Context) {
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail.Handle(c, err)
		return
	}

	p, inv, err := h.paymentSvc.Pay(c.Request.Context(), franchiseID(c), c.Param("id"), services.NewPayment{
		AmountCents: req.AmountCents,
		Method:      req.Method,
		Reference:   req.Reference,
	})
	if err != nil {
		h.fail.Handle(c, err)
		return
	}
	ok(c, http.StatusCreated, PaymentResponse{Payment: *p, Invoice: *inv}, "Payment recorded")
}
