// Package server contains the HTTP and WebSocket handlers for the public
// site and the admin console API.
package server

import (
	"context"
	"time"

	"verdant/internal/auth"
	"verdant/internal/bootstrap"
	"verdant/internal/config"
	"verdant/internal/docstore"
	"verdant/internal/middleware"
	"verdant/internal/models"
	"verdant/internal/notifications"
	"verdant/internal/readiness"
	"verdant/internal/repository"
	"verdant/internal/view"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers.
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc

	postRepo     repository.PostRepository
	settingsRepo repository.SettingsRepository
	operatorRepo repository.OperatorRepository

	session *auth.Controller
	ready   *readiness.Signal
	pages   *view.Pages
	reveal  *view.Reveal

	notifier *notifications.Notifier
	hub      *notifications.Hub
}

// NewServer creates a server instance, establishing its own database and
// Redis connections.
func NewServer(cfg *config.Config) (*Server, error) {
	rt, err := bootstrap.InitRuntime(cfg)
	if err != nil {
		return nil, err
	}
	return NewServerWithDeps(cfg, rt.DB, rt.Redis)
}

// NewServerWithDeps creates a Server using already-initialized
// dependencies. Tests and bootstrap layers use this directly.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	store, err := docstore.NewGormStore(db)
	if err != nil {
		return nil, err
	}

	operatorRepo := repository.NewOperatorRepository(db)

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("verdant-api"),
		postRepo:       repository.NewPostRepository(store),
		settingsRepo:   repository.NewSettingsRepository(store),
		operatorRepo:   operatorRepo,
		session:        auth.NewController(auth.NewLocalClient(operatorRepo)),
		ready:          readiness.New(),
		pages:          view.NewPages("home", "blog", "about", "contact"),
		reveal:         view.NewReveal(view.DefaultRevealThreshold),
	}

	if redisClient != nil {
		server.notifier = notifications.NewNotifier(redisClient)
		server.hub = notifications.NewHub()
		server.session.OnChange(func(operator *models.Operator) {
			if err := server.notifier.PublishSessionChange(context.Background(), operator != nil); err != nil {
				middleware.Logger.Warn("failed to publish session change", "error", err)
			}
		})
	}

	// Start after OnChange registration so the initial session state is
	// announced too.
	server.session.Start(server.ready)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.ContextMiddleware())

	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New(helmet.Config{
		// The home page inlines its own styles.
		ContentSecurityPolicy: "default-src 'self'; style-src 'self' 'unsafe-inline'",
	}))

	app.Use(middleware.StructuredLogger())

	// CORS before middlewares that can short-circuit, so browser clients
	// still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Global rate limiting per IP.
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
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

// SetupRoutes configures all routes for the application.
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Public site
	app.Get("/", s.HomePage)
	api.Post("/contact", s.ContactForm)

	// Public content reads
	api.Get("/posts", s.GetPosts)
	api.Get("/posts/:id", s.GetPost)
	api.Get("/posts/:id/modal", s.GetPostModal)
	api.Get("/settings", s.GetSettings)

	// Auth
	authGroup := api.Group("/auth")
	authGroup.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	authGroup.Post("/logout", s.Logout)

	// Admin console API
	admin := api.Group("/admin", middleware.AuthRequired(s.config.JWTSecret, s.redis))
	admin.Get("/posts", s.GetAdminPosts)
	admin.Get("/posts/fragment", s.GetAdminPostsFragment)
	admin.Post("/posts", s.CreatePost)
	admin.Put("/posts/:id", s.UpdatePost)
	admin.Delete("/posts/:id", s.DeletePost)
	admin.Put("/settings", s.UpdateSettings)

	// Websocket endpoints for visitors
	app.Get("/ws/counter", s.CounterUpgrade(), s.CounterStreamHandler())
	app.Get("/ws/updates", s.UpdatesUpgrade(), s.UpdatesHandler())
}

// LivenessCheck handles liveness probe requests.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests. The database must be
// reachable; Redis only degrades the experience.
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
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || !s.ready.IsReady() {
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

// Start runs the server until shutdown.
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	app := fiber.New(fiber.Config{
		AppName: "Verdant",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			middleware.Logger.Error("unhandled request error", "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Internal server error",
			})
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	if s.notifier != nil && s.hub != nil {
		go func() {
			if err := s.hub.StartWiring(s.shutdownCtx, s.notifier); err != nil {
				middleware.Logger.Error("failed to start update wiring", "error", err)
			}
		}()
	}

	// Dependencies are connected and routes are wired; open the gate for
	// session subscriptions and first reads.
	s.ready.Ready()

	middleware.Logger.Info("server starting", "port", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// MarkReady opens the readiness gate. Start does this on its own; tests
// that never call Start use it directly.
func (s *Server) MarkReady() {
	s.ready.Ready()
}

// Shutdown gracefully shuts down the server and its resources.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", "error", err)
		}
	}

	if s.hub != nil {
		if err := s.hub.Shutdown(ctx); err != nil {
			middleware.Logger.Error("error shutting down update hub", "error", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", "error", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", "error", rerr)
		}
	}

	middleware.Logger.Info("server shutdown complete")
	return nil
}
