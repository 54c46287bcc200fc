// Package router provides HTTP routing, middleware configuration, and server setup for the web application
package router

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"slices"
	"strings"
	"time"

	"github.com/amirphl/farm-storefront/app/dto"
	"github.com/amirphl/farm-storefront/app/handlers"
	"github.com/amirphl/farm-storefront/app/middleware"
	"github.com/amirphl/farm-storefront/config"
	_ "github.com/amirphl/farm-storefront/docs"
	"github.com/amirphl/farm-storefront/utils"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/compress"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/helmet"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swaggo/swag"
)

// Router interface for HTTP routing
type Router interface {
	SetupRoutes()
	Start(address string) error
	GetApp() *fiber.App
}

// Handlers groups every handler the router mounts
type Handlers struct {
	AdminAuth    handlers.AdminAuthHandlerInterface
	Product      handlers.ProductHandlerInterface
	Testimonial  *handlers.TestimonialHandler
	Team         *handlers.TeamHandler
	Gallery      *handlers.GalleryHandler
	SiteSettings *handlers.SiteSettingsHandler
	Health       *handlers.HealthHandler
}

// FiberRouter implements Router using Fiber v3
type FiberRouter struct {
	app            *fiber.App
	cfg            *config.ProductionConfig
	handlers       Handlers
	authMiddleware *middleware.AuthMiddleware
	accessLog      io.Writer
}

// NewFiberRouter creates a new Fiber router. accessLog receives JSON access
// lines; nil disables the access logger.
func NewFiberRouter(cfg *config.ProductionConfig, h Handlers, authMiddleware *middleware.AuthMiddleware, accessLog io.Writer) *FiberRouter {
	app := fiber.New(fiber.Config{
		AppName:      "Farm Storefront API",
		ServerHeader: "farm-storefront",
		ErrorHandler: errorHandler(cfg.Deployment.IsDevelopment()),
		BodyLimit:    cfg.Server.BodyLimit,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		ProxyHeader:  cfg.Server.ProxyHeader,
		TrustProxy:   len(cfg.Server.TrustedProxies) > 0,
		TrustProxyConfig: fiber.TrustProxyConfig{
			Proxies: cfg.Server.TrustedProxies,
		},
	})

	return &FiberRouter{
		app:            app,
		cfg:            cfg,
		handlers:       h,
		authMiddleware: authMiddleware,
		accessLog:      accessLog,
	}
}

// SetupRoutes configures all application routes
func (r *FiberRouter) SetupRoutes() {
	log.Println("Setting up routes...")

	r.setupMiddleware()

	if r.cfg.Metrics.Enabled {
		r.app.Get(r.cfg.Metrics.Path, adaptor.HTTPHandler(promhttp.Handler()))
	}

	requireAdmin := r.authMiddleware.AdminAuthenticate()

	// Admin session routes
	admin := r.app.Group("/admin")
	admin.Post("/login", r.authRateLimiter(), r.handlers.AdminAuth.Login)
	admin.Post("/refresh-token", r.handlers.AdminAuth.RefreshToken)
	admin.Post("/logout", r.handlers.AdminAuth.Logout)
	admin.Get("/verify", requireAdmin, r.handlers.AdminAuth.Verify)

	api := r.app.Group("/api")
	api.Get("/health", r.handlers.Health.Health)
	api.Get("/swagger.json", r.serveSwaggerJSON)

	api.Use(limiter.New(limiter.Config{
		Max:          r.cfg.Security.GlobalRateLimit,
		Expiration:   r.cfg.Security.RateLimitWindow,
		KeyGenerator: func(c fiber.Ctx) string { return c.IP() },
		LimitReached: rateLimitReached,
		Next: func(c fiber.Ctx) bool {
			return c.Path() == "/api/health"
		},
	}))

	// Public content
	api.Get("/products", r.handlers.Product.List)
	api.Get("/products/:uuid", r.handlers.Product.Get)
	api.Get("/testimonials", r.handlers.Testimonial.List)
	api.Get("/team", r.handlers.Team.List)
	api.Get("/gallery", r.handlers.Gallery.List)
	api.Get("/site-config", r.handlers.SiteSettings.Get)

	// Content management
	api.Post("/products", requireAdmin, r.handlers.Product.Create)
	api.Put("/products/:uuid", requireAdmin, r.handlers.Product.Update)
	api.Delete("/products/:uuid", requireAdmin, r.handlers.Product.Delete)

	api.Post("/testimonials", requireAdmin, r.handlers.Testimonial.Create)
	api.Put("/testimonials/:uuid", requireAdmin, r.handlers.Testimonial.Update)
	api.Delete("/testimonials/:uuid", requireAdmin, r.handlers.Testimonial.Delete)

	api.Post("/team", requireAdmin, r.handlers.Team.Create)
	api.Put("/team/:uuid", requireAdmin, r.handlers.Team.Update)
	api.Delete("/team/:uuid", requireAdmin, r.handlers.Team.Delete)

	api.Post("/gallery", requireAdmin, r.handlers.Gallery.Upload)
	api.Delete("/gallery/:uuid", requireAdmin, r.handlers.Gallery.Delete)

	api.Put("/site-config", requireAdmin, r.handlers.SiteSettings.Update)

	adminAPI := api.Group("/admin", requireAdmin)
	adminAPI.Get("/products/export", r.handlers.Product.Export)
	adminAPI.Get("/testimonials", r.handlers.Testimonial.ListAll)

	r.app.Use(r.notFoundHandler)

	log.Println("Routes configured successfully")
}

// setupMiddleware configures global middleware
func (r *FiberRouter) setupMiddleware() {
	// Request ID middleware - must be first
	r.app.Use(requestid.New(requestid.Config{
		Header: fiber.HeaderXRequestID,
		Generator: func() string {
			return strings.ToLower(ulid.Make().String())
		},
	}))

	r.app.Use(helmet.New(helmet.Config{
		XSSProtection:             "1; mode=block",
		ContentTypeNosniff:        "nosniff",
		XFrameOptions:             "DENY",
		HSTSMaxAge:                31536000,
		ReferrerPolicy:            "strict-origin-when-cross-origin",
		CrossOriginOpenerPolicy:   "same-origin",
		CrossOriginResourcePolicy: "cross-origin",
		XDNSPrefetchControl:       "off",
		XDownloadOptions:          "noopen",
		XPermittedCrossDomain:     "none",
	}))

	// The refresh cookie needs credentialed CORS
	r.app.Use(cors.New(cors.Config{
		AllowOrigins:     r.cfg.Security.AllowedOrigins,
		AllowMethods:     r.cfg.Security.AllowedMethods,
		AllowHeaders:     append(slices.Clone(r.cfg.Security.AllowedHeaders), fiber.HeaderXRequestID),
		ExposeHeaders:    []string{fiber.HeaderXRequestID, fiber.HeaderContentDisposition},
		AllowCredentials: r.cfg.Security.AllowCredentials,
		MaxAge:           r.cfg.Security.CORSMaxAge,
	}))

	if r.cfg.Server.EnableCompression {
		r.app.Use(compress.New(compress.Config{
			Level: compress.LevelBestSpeed,
			Next: func(c fiber.Ctx) bool {
				contentType := c.Get(fiber.HeaderContentType)
				return strings.HasPrefix(contentType, "multipart/") ||
					strings.Contains(c.Path(), "/export")
			},
		}))
	}

	if r.accessLog != nil && r.cfg.Logging.EnableAccessLog {
		r.app.Use(logger.New(logger.Config{
			Format:     `{"time":"${time}","request_id":"${respHeader:X-Request-ID}","level":"info","method":"${method}","path":"${path}","ip":"${ip}","user_agent":"${ua}","status":${status},"latency":"${latency}","bytes_in":${bytesReceived},"bytes_out":${bytesSent}}` + "\n",
			TimeFormat: time.RFC3339,
			TimeZone:   "UTC",
			Stream:     r.accessLog,
			Next: func(c fiber.Ctx) bool {
				return c.Path() == "/api/health" || c.Path() == r.cfg.Metrics.Path
			},
		}))
	}

	if r.cfg.Metrics.Enabled {
		r.app.Use(middleware.Metrics())
	}

	r.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e any) {
			log.Printf(`{"time":"%s","level":"error","request_id":"%s","event":"panic","error":"%v","path":"%s","method":"%s","ip":"%s"}`,
				utils.UTCNow().Format(time.RFC3339),
				requestid.FromContext(c),
				e,
				c.Path(),
				c.Method(),
				c.IP(),
			)
		},
	}))
}

// authRateLimiter throttles login attempts per IP on top of the per-email lockout
func (r *FiberRouter) authRateLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:          r.cfg.Security.AuthRateLimit,
		Expiration:   r.cfg.Security.RateLimitWindow,
		KeyGenerator: func(c fiber.Ctx) string { return c.IP() },
		LimitReached: func(c fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.AuthErrorResponse{
				Message: dto.MessageTooManyAttempts,
				Code:    dto.ErrorTooManyAttempts,
			})
		},
	})
}

func rateLimitReached(c fiber.Ctx) error {
	return c.Status(fiber.StatusTooManyRequests).JSON(dto.APIResponse{
		Success: false,
		Message: "Too many requests. Please try again later.",
		Error: dto.ErrorDetail{
			Code: "RATE_LIMIT_EXCEEDED",
		},
	})
}

// Start starts the HTTP server
func (r *FiberRouter) Start(address string) error {
	log.Printf("Starting server on %s", address)
	return r.app.Listen(address)
}

// GetApp returns the Fiber app instance
func (r *FiberRouter) GetApp() *fiber.App {
	return r.app
}

// serveSwaggerJSON serves the registered OpenAPI document
func (r *FiberRouter) serveSwaggerJSON(c fiber.Ctx) error {
	doc, err := swag.ReadDoc()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.APIResponse{
			Success: false,
			Message: "Failed to load Swagger documentation",
			Error: dto.ErrorDetail{
				Code: "SWAGGER_LOAD_ERROR",
			},
		})
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.SendString(doc)
}

func (r *FiberRouter) notFoundHandler(c fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.APIResponse{
		Success: false,
		Message: "The requested resource was not found",
		Error: dto.ErrorDetail{
			Code: "NOT_FOUND",
			Details: fiber.Map{
				"path":       c.Path(),
				"method":     c.Method(),
				"request_id": requestid.FromContext(c),
			},
		},
	})
}

// errorHandler renders unhandled errors. The underlying error text is only
// exposed in development.
func errorHandler(development bool) fiber.ErrorHandler {
	return func(c fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "An internal server error occurred"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		}

		log.Printf("Error %d: %v", code, err)

		details := fiber.Map{
			"timestamp":  utils.UTCNow().Unix(),
			"request_id": requestid.FromContext(c),
		}
		if development {
			details["error"] = err.Error()
		}

		return c.Status(code).JSON(dto.APIResponse{
			Success: false,
			Message: message,
			Error: dto.ErrorDetail{
				Code:    "INTERNAL_ERROR",
				Details: details,
			},
		})
	}
}
