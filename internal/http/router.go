// Package httpapi wires the HTTP transport (Gin) to the billing services,
// middleware, and the failure translation engine.
//
// Every error path, including the router fallbacks, identity checks and the
// rate limiter, goes through engine.Handle, so each failed request produces
// one log entry and one error envelope.
package httpapi

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/tbourn/go-billing-errors/internal/config"
	_ "github.com/tbourn/go-billing-errors/internal/docs" // registers the OpenAPI document
	"github.com/tbourn/go-billing-errors/internal/domain"
	"github.com/tbourn/go-billing-errors/internal/engine"
	"github.com/tbourn/go-billing-errors/internal/envelope"
	"github.com/tbourn/go-billing-errors/internal/failure"
	"github.com/tbourn/go-billing-errors/internal/http/handlers"
	"github.com/tbourn/go-billing-errors/internal/http/middleware"
	"github.com/tbourn/go-billing-errors/internal/repo"
	"github.com/tbourn/go-billing-errors/internal/services"
)

// PermDeleteCustomer guards DELETE /customers/{id}.
const PermDeleteCustomer = "customers.delete"

// customerRepoShim adapts the repository free functions to the
// services.CustomerRepo interface.
type customerRepoShim struct{}

func (customerRepoShim) CreateCustomer(ctx context.Context, db *gorm.DB, c *domain.Customer) error {
	return repo.CreateCustomer(ctx, db, c)
}

func (customerRepoShim) GetCustomer(ctx context.Context, db *gorm.DB, franchiseID, id string) (*domain.Customer, error) {
	return repo.GetCustomer(ctx, db, franchiseID, id)
}

func (customerRepoShim) CountCustomers(ctx context.Context, db *gorm.DB, franchiseID string) (int64, error) {
	return repo.CountCustomers(ctx, db, franchiseID)
}

func (customerRepoShim) ListCustomersPage(ctx context.Context, db *gorm.DB, franchiseID string, offset, limit int) ([]domain.Customer, error) {
	return repo.ListCustomersPage(ctx, db, franchiseID, offset, limit)
}

func (customerRepoShim) DeleteCustomer(ctx context.Context, db *gorm.DB, franchiseID, id string) error {
	return repo.DeleteCustomer(ctx, db, franchiseID, id)
}

func (customerRepoShim) CountInvoicesForCustomer(ctx context.Context, db *gorm.DB, customerID string) (int64, error) {
	return repo.CountInvoicesForCustomer(ctx, db, customerID)
}

// RegisterRoutes attaches all middleware and HTTP endpoints to r.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Access log (redacting, or plain with LOG_HEADERS off)
//  4. Envelope responder: single-emission guard, strict outside production
//  5. Recovery: panics become Unclassified failures
//  6. Body size limiter
//  7. Metrics
//  8. CORS, gzip and security headers
//
// The API group then adds identity, the per-user rate limiter and, per route,
// permission checks.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, eng *engine.Engine, cfg config.Config) {
	r.HandleMethodNotAllowed = true
	fail := middleware.FailureFunc(eng.Handle)

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction
	if cfg.LogHeaders {
		r.Use(middleware.RedactingLogger(middleware.RedactOptions{
			MaskHeaders: []string{"X-API-Key"},
		}))
	} else {
		r.Use(middleware.Logger())
	}

	// 4) One response per request
	r.Use(envelope.Middleware(envelope.Options{Strict: cfg.StrictResponses()}))

	// 5) Panic recovery through the engine
	r.Use(middleware.Recovery(fail))

	// 6) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 7) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 8) CORS posture, compression, security headers
	r.Use(corsMiddleware(cfg.CORS.AllowedOrigins)...)
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		eng.Handle(c, failure.NewNotFound("Route", c.Request.URL.Path))
	})
	r.NoMethod(func(c *gin.Context) {
		eng.Handle(c, failure.NewMethodNotAllowed(c.Request.Method, allowedMethods(r.Routes(), c.Request.URL.Path)))
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) {
		envelope.From(c).Success(http.StatusOK, gin.H{"status": "ok"}, "")
	})

	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: services ← repo/db
	h := handlers.New(eng,
		services.NewCustomerService(db, customerRepoShim{}),
		services.NewInvoiceService(db),
		&services.PaymentService{DB: db},
	)

	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())

	// Public API
	api := groupWithPrefix(r, cfg.APIBasePath)
	api.Use(middleware.Identity(fail), rl.Handler(fail))
	{
		// Customers
		api.POST("/customers", h.CreateCustomer)
		api.GET("/customers", h.ListCustomers)
		api.GET("/customers/:id", h.GetCustomer)
		api.DELETE("/customers/:id", middleware.RequirePermission(PermDeleteCustomer, fail), h.DeleteCustomer)

		// Invoices and payments
		api.POST("/invoices", h.CreateInvoice)
		api.GET("/invoices/:id", h.GetInvoice)
		api.POST("/invoices/:id/void", h.VoidInvoice)
		api.POST("/invoices/:id/payments", h.PayInvoice)
	}
}

// corsMiddleware returns the CORS posture: allow all when no origins are
// configured, otherwise echo allow-listed origins.
func corsMiddleware(origins []string) []gin.HandlerFunc {
	allowHeaders := []string{
		"Origin", "Content-Type", "Accept", "Authorization",
		"X-User-ID", "X-Franchise-ID", "X-Permissions", "X-Request-ID",
	}
	exposeHeaders := []string{"X-Request-ID", "Retry-After", "Allow", "Content-Length"}
	methods := []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}

	if len(origins) == 0 {
		return []gin.HandlerFunc{
			// Force ACAO: * even for requests without an Origin header.
			func(c *gin.Context) {
				c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
				c.Next()
			},
			cors.New(cors.Config{
				AllowAllOrigins:  true,
				AllowMethods:     methods,
				AllowHeaders:     allowHeaders,
				ExposeHeaders:    exposeHeaders,
				AllowCredentials: false, // must remain false with AllowAllOrigins
				MaxAge:           12 * time.Hour,
			}),
		}
	}

	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}
	return []gin.HandlerFunc{
		func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		},
		cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     methods,
			AllowHeaders:     allowHeaders,
			ExposeHeaders:    exposeHeaders,
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}),
	}
}

// allowedMethods lists the methods registered for routes matching path.
// Gin does not expose this for NoMethod handlers.
func allowedMethods(routes gin.RoutesInfo, path string) []string {
	seen := map[string]bool{}
	var out []string
	for _, rt := range routes {
		if !seen[rt.Method] && routeMatches(rt.Path, path) {
			seen[rt.Method] = true
			out = append(out, rt.Method)
		}
	}
	sort.Strings(out)
	return out
}

// routeMatches reports whether a gin route pattern (":param", "*wildcard")
// matches path.
func routeMatches(pattern, path string) bool {
	ps := strings.Split(strings.Trim(pattern, "/"), "/")
	xs := strings.Split(strings.Trim(path, "/"), "/")
	for i, seg := range ps {
		if strings.HasPrefix(seg, "*") {
			return true
		}
		if i >= len(xs) {
			return false
		}
		if strings.HasPrefix(seg, ":") {
			if xs[i] == "" {
				return false
			}
			continue
		}
		if seg != xs[i] {
			return false
		}
	}
	return len(ps) == len(xs)
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
