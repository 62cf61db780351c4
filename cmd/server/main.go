package main

import (
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/obravista/portalapi/internal/config"
	"github.com/obravista/portalapi/internal/database"
	"github.com/obravista/portalapi/internal/handlers"
	"github.com/obravista/portalapi/internal/middleware"
	"github.com/obravista/portalapi/internal/models"
	"github.com/obravista/portalapi/internal/types"

	_ "github.com/obravista/portalapi/docs/api" // Swagger docs
)

// @title Portal API
// @version 1.0.0
// @description Multi-tenant project portal with per-project permission levels
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/obravista/portalapi

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name token

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Development seeding
	if cfg.SeedDefaults {
		if err := database.Seed(db); err != nil {
			log.Fatalf("Failed to seed defaults: %v", err)
		}
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler:          customErrorHandler,
		DisableStartupMessage: false,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigin,
		AllowCredentials: true,
	}))

	// Prometheus metrics
	prometheus := fiberprometheus.New("portalapi")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Create handlers
	healthHandler := &handlers.HealthHandler{DB: db, Cfg: cfg}
	authHandler := &handlers.AuthHandler{DB: db, Cfg: cfg}
	clientHandler := &handlers.ClientHandler{DB: db}
	userHandler := &handlers.UserHandler{DB: db}
	projectHandler := &handlers.ProjectHandler{DB: db, Cfg: cfg}
	contentHandler := &handlers.ContentHandler{DB: db}
	permissionHandler := &handlers.PermissionHandler{DB: db}
	shareHandler := &handlers.ShareHandler{DB: db, Cfg: cfg}

	// Health probe
	app.Get("/health", healthHandler.Health)

	// API routes under /api
	api := app.Group("/api")

	// Version middleware
	api.Use(middleware.VersionMiddleware())

	// Session routes
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/logout", authHandler.Logout)
	auth.Get("/me", middleware.RequireAuth(cfg), authHandler.Me)

	requireAuth := middleware.RequireAuth(cfg)

	// Share link redemption is public; the token is the authorization
	api.Get("/share/:token", shareHandler.ViewSharedContent)
	api.Post("/share", requireAuth, shareHandler.CreateShareLink)

	// Client routes
	clients := api.Group("/clients", requireAuth)
	clients.Get("/", middleware.RequirePermission(db, models.LevelEditor), clientHandler.ListClients)
	clients.Get("/:id", middleware.RequirePermission(db, models.LevelViewer), clientHandler.GetClient)
	clients.Post("/", middleware.RequireMasterAdmin(), clientHandler.CreateClient)
	clients.Put("/:id", middleware.RequirePermission(db, models.LevelEditor), clientHandler.UpdateClient)
	clients.Delete("/:id", middleware.RequireMasterAdmin(), clientHandler.DisableClient)
	clients.Post("/:id/admin", middleware.RequireMasterAdmin(), clientHandler.SetClientAdmin)

	// User routes
	users := api.Group("/users", requireAuth, middleware.RequirePermission(db, models.LevelEditor))
	users.Get("/", userHandler.ListUsers)
	users.Get("/:id", userHandler.GetUser)
	users.Post("/", userHandler.CreateUser)
	users.Put("/:id", userHandler.UpdateUser)
	users.Delete("/:id", userHandler.DisableUser)

	// Project routes; reads filter inside the service so denial and absence
	// are indistinguishable
	projects := api.Group("/projects", requireAuth)
	projects.Get("/", projectHandler.ListProjects)
	projects.Get("/:id", projectHandler.GetProject)
	projects.Post("/", middleware.RequirePermission(db, models.LevelEditor), projectHandler.CreateProject)
	projects.Put("/:id", middleware.RequirePermission(db, models.LevelEditor, "id"), projectHandler.UpdateProject)
	projects.Delete("/:id", middleware.RequirePermission(db, models.LevelEditor, "id"), projectHandler.DisableProject)

	// Content routes; the :id routes resolve the owning project inside the
	// service, the route id is a content id
	contents := api.Group("/contents", requireAuth)
	contents.Get("/", middleware.RequirePermission(db, models.LevelViewer), contentHandler.ListContents)
	contents.Get("/:id", contentHandler.GetContent)
	contents.Post("/", middleware.RequirePermission(db, models.LevelEditor), contentHandler.CreateContent)
	contents.Put("/:id", contentHandler.UpdateContent)
	contents.Delete("/:id", contentHandler.DisableContent)

	// Permission routes; per-project Project Manager checks live in the
	// service so single and batch bodies are enforced the same way
	permissions := api.Group("/permissions", requireAuth)
	permissions.Get("/", permissionHandler.GetPermissions)
	permissions.Put("/", permissionHandler.UpdatePermissions)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":    fiber.StatusNotFound,
			"message":   "[404] Resource Not Found",
			"ok":        false,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"url":       c.OriginalURL(),
		})
	})

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	// Start server
	port := cfg.Port
	log.Printf("Starting server on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	log.Println("Server stopped")
}

// customErrorHandler handles errors globally
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()
	errorType := "unknown"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	var ce *types.CustomError
	if errors.As(err, &ce) {
		code = ce.Code
		message = ce.Message
		errorType = ce.Type
	}

	return c.Status(code).JSON(fiber.Map{
		"status":    code,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
		"type":      errorType,
	})
}
