// Package handlers provides the HTTP handlers of the billing API.
//
// Handlers are transport-thin: they bind input, call a service and write one
// response. Success bodies go through the request's envelope.Responder; every
// failure is passed to the Failer (the engine) and nothing else is written.
//
// Example success response:
//
//	HTTP/1.1 201 Created
//	{
//	  "success": true,
//	  "data":    { "id": "...", "email": "jane@example.com" },
//	  "message": "Customer created",
//	  "meta":    { "timestamp": "2025-01-01T00:00:00Z", "request_id": "..." }
//	}
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-billing-errors/internal/envelope"
	"github.com/tbourn/go-billing-errors/internal/http/middleware"
	"github.com/tbourn/go-billing-errors/internal/utils"
)

// Failer translates an error into the request's single error response.
// *engine.Engine implements it.
type Failer interface {
	Handle(c *gin.Context, err error)
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

func newPagination(page, pageSize int, total int64) Pagination {
	totalPages := utils.TotalPages(total, pageSize)
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}

// clampPagination reads the page and page_size query params.
func clampPagination(c *gin.Context) (page, pageSize int) {
	return utils.ClampPage(c.Query("page"), c.Query("page_size"))
}

// ok writes a success envelope.
func ok(c *gin.Context, status int, data any, message string) {
	envelope.From(c).Success(status, data, message)
}

// franchiseID returns the tenant set by the identity middleware.
func franchiseID(c *gin.Context) string {
	return c.GetString(middleware.CtxKeyFranchiseID)
}
