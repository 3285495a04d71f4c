// Customer HTTP handlers.
//
//   - POST   /customers       (create)
//   - GET    /customers       (list, paginated, ETag support)
//   - GET    /customers/{id}  (read)
//   - DELETE /customers/{id}  (delete; requires customers.delete)

package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-billing-errors/internal/repo"
	"github.com/tbourn/go-billing-errors/internal/services"
)

// CreateCustomer godoc
// @ID          createCustomer
// @Summary     Create a customer
// @Description Creates a customer in the caller's franchise. Email is unique per franchise.
// @Tags        Customers
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID       header  string  true  "User ID"       example(user123)
// @Param       X-Franchise-ID  header  string  true  "Franchise ID"  example(fr-001)
// @Param       body            body    handlers.CreateCustomerRequest  true  "Customer payload"
//
// @Success     201  {object}  envelope.SuccessEnvelope{data=domain.Customer}
// @Failure     400  {object}  envelope.ErrorEnvelope  "Malformed JSON"
// @Failure     401  {object}  envelope.ErrorEnvelope  "Missing credentials"
// @Failure     409  {object}  envelope.ErrorEnvelope  "Duplicate email"
// @Failure     422  {object}  envelope.ErrorEnvelope  "Validation failed"
// @Failure     500  {object}  envelope.ErrorEnvelope  "Internal error"
// @Router      /customers [post]
func (h *Handlers) CreateCustomer(c *gin.Context) {
	var req CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail.Handle(c, err)
		return
	}

	cust, err := h.customerSvc.Create(c.Request.Context(), franchiseID(c), services.NewCustomer{
		Email:         req.Email,
		Name:          req.Name,
		AccountNumber: req.AccountNumber,
	})
	if err != nil {
		h.fail.Handle(c, err)
		return
	}
	ok(c, http.StatusCreated, cust, "Customer created")
}

// ListCustomers godoc
// @ID          listCustomers
// @Summary     List customers (paginated)
// @Description Returns a page of the franchise's customers. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Customers
// @Produce     json
//
// @Param       X-User-ID       header  string  true   "User ID"                     example(user123)
// @Param       X-Franchise-ID  header  string  true   "Franchise ID"                example(fr-001)
// @Param       If-None-Match   header  string  false  "Return 304 if ETag matches"  example(W/\"abc123\")
// @Param       page            query   int     false  "Page number"                 minimum(1) default(1)
// @Param       page_size       query   int     false  "Items per page"              minimum(1) maximum(100) default(20)
//
// @Success     200  {object} envelope.SuccessEnvelope{data=handlers.ListCustomersResponse}
// @Header      200  {string} ETag  "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     401  {object} envelope.ErrorEnvelope "Missing credentials"
// @Failure     500  {object} envelope.ErrorEnvelope "Internal error"
// @Router      /customers [get]
func (h *Handlers) ListCustomers(c *gin.Context) {
	ctx := c.Request.Context()
	fid := franchiseID(c)
	page, pageSize := clampPagination(c)

	// ETag pre-check (best effort).
	if svc, isSvc := h.customerSvc.(*services.CustomerService); isSvc && svc.DB != nil {
		count, maxTS, err := repo.CustomersStats(ctx, svc.DB, fid)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.UnixNano()
			}
			etag := fmt.Sprintf(`W/"customers:%s:%d:%d:%d:%d"`, fid, count, ts, page, pageSize)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.AbortWithStatus(http.StatusNotModified)
				return
			}
		}
	}

	items, total, err := h.customerSvc.ListPage(ctx, fid, page, pageSize)
	if err != nil {
		h.fail.Handle(c, err)
		return
	}
	ok(c, http.StatusOK, ListCustomersResponse{
		Customers:  items,
		Pagination: newPagination(page, pageSize, total),
	}, "")
}

// GetCustomer godoc
// @ID          getCustomer
// @Summary     Get a customer
// @Tags        Customers
// @Produce     json
//
// @Param       X-User-ID       header  string  true  "User ID"       example(user123)
// @Param       X-Franchise-ID  header  string  true  "Franchise ID"  example(fr-001)
// @Param       id              path    string  true  "Customer ID"   format(uuid)
//
// @Success     200  {object} envelope.SuccessEnvelope{data=domain.Customer}
// @Failure     404  {object} envelope.ErrorEnvelope "Customer not found"
// @Router      /customers/{id} [get]
func (h *Handlers) GetCustomer(c *gin.Context) {
	cust, err := h.customerSvc.Get(c.Request.Context(), franchiseID(c), c.Param("id"))
	if err != nil {
		h.fail.Handle(c, err)
		return
	}
	ok(c, http.StatusOK, cust, "")
}

// DeleteCustomer godoc
// @ID          deleteCustomer
// @Summary     Delete a customer
// @Description Deletes a customer without invoices. Requires the customers.delete permission.
// @Tags        Customers
// @Produce     json
//
// @Param       X-User-ID       header  string  true  "User ID"                    example(user123)
// @Param       X-Franchise-ID  header  string  true  "Franchise ID"               example(fr-001)
// @Param       X-Permissions   header  string  true  "Comma-separated permissions" example(customers.delete)
// @Param       id              path    string  true  "Customer ID"                format(uuid)
//
// @Success     200  {object} envelope.SuccessEnvelope
// @Failure     403  {object} envelope.ErrorEnvelope "Permission denied"
// @Failure     404  {object} envelope.ErrorEnvelope "Customer not found"
// @Failure     409  {object} envelope.ErrorEnvelope "Customer has invoices"
// @Router      /customers/{id} [delete]
func (h *Handlers) DeleteCustomer(c *gin.Context) {
	id := c.Param("id")
	if err := h.customerSvc.Delete(c.Request.Context(), franchiseID(c), id); err != nil {
		h.fail.Handle(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"id": id}, "Customer deleted")
}
