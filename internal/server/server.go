// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	_ "plusnine/docs" // swagger docs
	"plusnine/internal/auth"
	"plusnine/internal/config"
	"plusnine/internal/middleware"
	"plusnine/internal/models"
	"plusnine/internal/notifications"
	"plusnine/internal/repository"
	"plusnine/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// The prometheus middleware registers collectors globally, so it is created
// once even when multiple servers are built (as in tests).
var (
	promOnce     sync.Once
	promInstance *fiberprometheus.FiberPrometheus
)

func promMiddleware() *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		promInstance = fiberprometheus.New("plusnine-api")
	})
	return promInstance
}

// wireableHub is implemented by every WebSocket hub that can be wired to
// Redis pub/sub and gracefully shut down.
type wireableHub interface {
	Name() string
	StartWiring(ctx context.Context, n *notifications.Notifier) error
	Shutdown(ctx context.Context) error
}

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc

	userRepo      repository.UserRepository
	friendRepo    repository.FriendRepository
	objectiveRepo repository.ObjectiveRepository

	authService      *service.AuthService
	friendService    *service.FriendService
	objectiveService *service.ObjectiveService
	paymentService   *service.PaymentService

	authRequired   fiber.Handler
	wsAuthRequired fiber.Handler

	notifier *notifications.Notifier
	hub      *notifications.Hub
	hubs     []wireableHub // all hubs for wiring/shutdown iteration
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// The bootstrap layer establishes DB/Redis (and optionally applies fixtures)
// before handing them over; tests pass their own.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	issuer, err := auth.NewIssuer(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("token issuer init failed: %w", err)
	}
	userRepo := repository.NewUserRepository(db)
	friendRepo := repository.NewFriendRepository(db)
	objectiveRepo := repository.NewObjectiveRepository(db)

	prom := promMiddleware()

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		userRepo:       userRepo,
		friendRepo:     friendRepo,
		objectiveRepo:  objectiveRepo,
		authRequired:   middleware.AuthRequired(issuer),
		wsAuthRequired: middleware.WebSocketAuthRequired(issuer),
	}

	server.authService = service.NewAuthService(userRepo, issuer, auth.NewHasher())
	server.friendService = service.NewFriendService(friendRepo, userRepo)
	server.objectiveService = service.NewObjectiveService(objectiveRepo, friendRepo)
	server.paymentService = service.NewPaymentService(userRepo, cfg.StripeWebhookKey)

	// Initialize notifier and hub if Redis is available
	if redisClient != nil {
		server.notifier = notifications.NewNotifier(redisClient)
		server.hub = notifications.NewHub()
		server.hubs = []wireableHub{server.hub}
	}

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	// Distributed tracing spans per request
	app.Use(middleware.TracingMiddleware())

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(s.promMiddleware.Middleware)
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS middleware should run before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they should be handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	// Backwards-compatible legacy route: map /health to readiness
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	app.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Plusnine Backend Metrics Dashboard",
	}))

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Auth routes
	authRoutes := app.Group("/Auth")
	authRoutes.Post("/Register", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "register"), s.Register)
	authRoutes.Post("/Login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	authRoutes.Get("/RefreshToken", s.RefreshToken)
	authRoutes.Get("/JwtCheck", s.authRequired, s.JwtCheck)
	authRoutes.Delete("/RevokeToken", s.authRequired, s.RevokeToken)
	authRoutes.Post("/Logout", s.authRequired, s.Logout)

	// Friend routes
	friends := app.Group("/Friend", s.authRequired)
	friends.Get("/Search", s.SearchUsers)
	friends.Get("/IncomingRequests", s.GetIncomingRequests)
	friends.Get("/SentRequests", s.GetSentRequests)
	friends.Get("/GetFriends", s.GetFriends)
	friends.Post("/SendRequest", middleware.RateLimit(
		s.redis, 5, 5*time.Minute, "friend_request"), s.SendFriendRequest)
	friends.Put("/Accept/:requestId", s.AcceptFriendRequest)
	friends.Put("/Reject/:requestId", s.RejectFriendRequest)

	// Notification hub (WebSocket)
	app.Get("/Friend/Hub", s.wsAuthRequired, s.WebsocketHandler())

	// Objective routes
	objectives := app.Group("/Objective", s.authRequired)
	objectives.Get("/GetObjectives", s.GetObjectives)
	objectives.Post("/CreateObjective", s.CreateObjective)
	objectives.Put("/UpdateObjective/:objectiveId", s.UpdateObjective)
	objectives.Delete("/DeleteObjective/:objectiveId", s.DeleteObjective)

	// Premium routes
	premium := app.Group("/Premium", s.authRequired, s.PremiumRequired())
	premium.Get("/GetFriendObjective", s.GetFriendObjectives)

	// Payment provider webhooks (authenticated by signature, not session)
	app.Post("/Stripe/WebhookEndpoint", s.StripeWebhook)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// Notifications degrade without Redis, so report it for readiness.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// PremiumRequired returns middleware that rejects non-premium users with 403.
// Must be placed after AuthRequired so that userID is available in locals.
func (s *Server) PremiumRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("userID").(uint)

		premium, err := s.isPremiumByUserID(c.Context(), userID)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
		if !premium {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Premium access required"))
		}

		return c.Next()
	}
}

// Start starts the server
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	app := fiber.New(fiber.Config{
		AppName: "Plusnine API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	// Wire all hubs to Redis subscriber if available
	if s.notifier != nil {
		for _, h := range s.hubs {
			h := h
			go func() {
				if err := h.StartWiring(s.shutdownCtx, s.notifier); err != nil {
					log.Printf("failed to start %s wiring: %v", h.Name(), err)
				}
			}()
		}
	}

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	// Cancel the server-scoped context to stop all wiring goroutines
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	// Shutdown the HTTP/WS server
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	// Close WebSocket connections gracefully
	for _, h := range s.hubs {
		if err := h.Shutdown(ctx); err != nil {
			log.Printf("error shutting down %s: %v", h.Name(), err)
		}
	}

	// Close database connection
	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	// Close Redis connection
	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
