// Package server contains the Fiber application, its middleware wiring and
// the HTTP handlers for the API endpoints.
package server

import (
	"context"
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	"devfreebies/internal/cache"
	"devfreebies/internal/config"
	"devfreebies/internal/database"
	"devfreebies/internal/middleware"
	"devfreebies/internal/models"
	"devfreebies/internal/repository"
	"devfreebies/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config *config.Config
	db     *gorm.DB

	userRepo     repository.UserRepository
	resourceRepo repository.ResourceRepository
	bookmarkRepo repository.BookmarkRepository

	resourceSvc   *service.ResourceService
	moderationSvc *service.ModerationService
	bookmarkSvc   *service.BookmarkService
	userSvc       *service.UserService
}

// NewServer creates a new server instance with all dependencies. A database
// connection failure is returned as an error so the caller can refuse to
// serve traffic at all.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}

	cache.Init(cfg.RedisURL)
	models.Debug = !cfg.IsProduction()

	return NewServerWithDB(cfg, db), nil
}

// NewServerWithDB wires a server around an already-open database connection.
// Handler tests use it with an in-memory store.
func NewServerWithDB(cfg *config.Config, db *gorm.DB) *Server {
	userRepo := repository.NewUserRepository(db)
	resourceRepo := repository.NewResourceRepository(db)
	bookmarkRepo := repository.NewBookmarkRepository(db)

	return &Server{
		config:       cfg,
		db:           db,
		userRepo:     userRepo,
		resourceRepo: resourceRepo,
		bookmarkRepo: bookmarkRepo,
		resourceSvc: service.NewResourceService(
			resourceRepo, userRepo, cfg.SubmissionLimit, cfg.ContributionReward,
		),
		moderationSvc: service.NewModerationService(resourceRepo),
		bookmarkSvc:   service.NewBookmarkService(bookmarkRepo, resourceRepo),
		userSvc:       service.NewUserService(userRepo, bookmarkRepo),
	}
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Request ID for tracing
	app.Use(requestid.New())

	// Security headers
	app.Use(helmet.New())

	// A handler panic surfaces as a 500, never a crash.
	app.Use(recover.New())

	// Structured logging
	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	api.Get("/", s.HealthCheck)
	api.Get("/metrics", monitor.New(monitor.Config{
		Title: "DevFreebies Backend Metrics",
	}))

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", s.Register)
	auth.Post("/login", s.Login)
	auth.Get("/me", s.AuthRequired(), s.GetMe)

	// Resource routes; public reads, protected writes
	resources := api.Group("/resources")
	resources.Get("/", s.ListResources)
	resources.Get("/categories", s.GetCategories)
	resources.Get("/:id", s.GetResource)
	resources.Post("/", s.AuthRequired(), s.CreateResource)
	resources.Put("/:id/upvote", s.AuthRequired(), s.UpvoteResource)
	resources.Put("/:id", s.AuthRequired(), s.UpdateResource)
	resources.Delete("/:id", s.AuthRequired(), s.DeleteResource)

	// User routes
	users := api.Group("/users")
	users.Get("/profile/:id", s.GetUserProfile)
	users.Get("/me", s.AuthRequired(), s.GetMyProfile)
	users.Put("/profile", s.AuthRequired(), s.UpdateProfile)
	users.Put("/bookmark/:resourceId", s.AuthRequired(), s.ToggleBookmark)
	users.Get("/bookmarks", s.AuthRequired(), s.GetBookmarks)

	// Admin moderation routes; the admin gate composes after the auth gate
	admin := api.Group("/admin", s.AuthRequired(), s.AdminRequired())
	admin.Get("/resources/pending", s.GetPendingResources)
	admin.Post("/resources/:id/approve", s.ApproveResource)
	admin.Post("/resources/:id/reject", s.RejectResource)
	admin.Post("/resources/:id/feature", s.FeatureResource)
	admin.Post("/resources/:id/unfeature", s.UnfeatureResource)
}

// HealthCheck handles GET /api/
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	status := fiber.StatusOK
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(fiber.Map{
		"success": status == fiber.StatusOK,
		"message": "Welcome to DevFreebies API",
		"version": "1.0.0",
		"checks": fiber.Map{
			"database": dbStatus,
		},
	})
}

// AuthRequired returns the authentication middleware. It verifies the bearer
// token and resolves the subject to a live user record; a token for a deleted
// account is rejected.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := bearerToken(c)
		if tokenString == "" {
			return models.RespondWithError(c,
				models.NewUnauthorizedError("Authorization required"))
		}

		userID, err := s.parseToken(tokenString)
		if err != nil {
			return models.RespondWithError(c,
				models.NewUnauthorizedError("Invalid or expired token"))
		}

		user, err := s.userRepo.GetByID(c.Context(), userID)
		if err != nil {
			return models.RespondWithError(c,
				models.NewUnauthorizedError("Not authorized, user not found"))
		}

		c.Locals("userID", user.ID)
		c.Locals("user", user)
		return c.Next()
	}
}

// AdminRequired gates a route to admin users. It must run after AuthRequired.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := c.Locals("user").(*models.User)
		if !ok {
			return models.RespondWithError(c,
				models.NewUnauthorizedError("Authorization required"))
		}
		if !user.IsAdmin() {
			return models.RespondWithError(c,
				models.NewForbiddenError("Not authorized as admin"))
		}
		return c.Next()
	}
}

// currentUser returns the resolved user set by AuthRequired.
func (s *Server) currentUser(c *fiber.Ctx) *models.User {
	if user, ok := c.Locals("user").(*models.User); ok {
		return user
	}
	return nil
}

// optionalUser resolves the bearer token if present but does not enforce it.
// Public read paths use it so logged-in browsers see their own vote state.
func (s *Server) optionalUser(c *fiber.Ctx) *models.User {
	tokenString := bearerToken(c)
	if tokenString == "" {
		return nil
	}
	userID, err := s.parseToken(tokenString)
	if err != nil {
		return nil
	}
	user, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		return nil
	}
	return user
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// parseToken validates signature, expiry, issuer and audience, returning the
// subject user id.
func (s *Server) parseToken(tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, errors.New("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("invalid token claims")
	}

	if issuer, ok := claims["iss"].(string); !ok || issuer != tokenIssuer {
		return 0, errors.New("invalid token issuer")
	}
	if audience, ok := claims["aud"].(string); !ok || audience != tokenAudience {
		return 0, errors.New("invalid token audience")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, errors.New("invalid subject claim")
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return 0, errors.New("invalid user id in token")
	}
	return uint(userID), nil
}

// NewApp builds the Fiber application with middleware, routes and the
// envelope-producing error handler.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "DevFreebies API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, err)
		},
	})

	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// Shutdown gracefully releases server resources.
func (s *Server) Shutdown(ctx context.Context) error {
	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if err := cache.Close(); err != nil {
		log.Printf("error closing redis: %v", err)
	}

	log.Println("Server shutdown complete")
	return nil
}
