package handlers_test

import (
	"errors"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/obravista/portalapi/internal/config"
	"github.com/obravista/portalapi/internal/handlers"
	"github.com/obravista/portalapi/internal/middleware"
	"github.com/obravista/portalapi/internal/models"
	"github.com/obravista/portalapi/internal/types"
	"github.com/obravista/portalapi/tests/helpers"
	"gorm.io/gorm"
)

// setupApp wires the API routes the way cmd/server does, against an
// in-memory database.
func setupApp(t *testing.T) (*fiber.App, *gorm.DB, *config.Config) {
	t.Helper()

	db := helpers.OpenTestDB(t)
	cfg := helpers.TestConfig()

	app := fiber.New(fiber.Config{ErrorHandler: testErrorHandler})

	authHandler := &handlers.AuthHandler{DB: db, Cfg: cfg}
	clientHandler := &handlers.ClientHandler{DB: db}
	userHandler := &handlers.UserHandler{DB: db}
	projectHandler := &handlers.ProjectHandler{DB: db, Cfg: cfg}
	contentHandler := &handlers.ContentHandler{DB: db}
	permissionHandler := &handlers.PermissionHandler{DB: db}
	shareHandler := &handlers.ShareHandler{DB: db, Cfg: cfg}

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/logout", authHandler.Logout)
	auth.Get("/me", middleware.RequireAuth(cfg), authHandler.Me)

	requireAuth := middleware.RequireAuth(cfg)

	api.Get("/share/:token", shareHandler.ViewSharedContent)
	api.Post("/share", requireAuth, shareHandler.CreateShareLink)

	clients := api.Group("/clients", requireAuth)
	clients.Get("/", middleware.RequirePermission(db, models.LevelEditor), clientHandler.ListClients)
	clients.Get("/:id", middleware.RequirePermission(db, models.LevelViewer), clientHandler.GetClient)
	clients.Post("/", middleware.RequireMasterAdmin(), clientHandler.CreateClient)
	clients.Put("/:id", middleware.RequirePermission(db, models.LevelEditor), clientHandler.UpdateClient)
	clients.Delete("/:id", middleware.RequireMasterAdmin(), clientHandler.DisableClient)
	clients.Post("/:id/admin", middleware.RequireMasterAdmin(), clientHandler.SetClientAdmin)

	users := api.Group("/users", requireAuth, middleware.RequirePermission(db, models.LevelEditor))
	users.Get("/", userHandler.ListUsers)
	users.Get("/:id", userHandler.GetUser)
	users.Post("/", userHandler.CreateUser)
	users.Put("/:id", userHandler.UpdateUser)
	users.Delete("/:id", userHandler.DisableUser)

	projects := api.Group("/projects", requireAuth)
	projects.Get("/", projectHandler.ListProjects)
	projects.Get("/:id", projectHandler.GetProject)
	projects.Post("/", middleware.RequirePermission(db, models.LevelEditor), projectHandler.CreateProject)
	projects.Put("/:id", middleware.RequirePermission(db, models.LevelEditor, "id"), projectHandler.UpdateProject)
	projects.Delete("/:id", middleware.RequirePermission(db, models.LevelEditor, "id"), projectHandler.DisableProject)

	contents := api.Group("/contents", requireAuth)
	contents.Get("/", middleware.RequirePermission(db, models.LevelViewer), contentHandler.ListContents)
	contents.Get("/:id", contentHandler.GetContent)
	contents.Post("/", middleware.RequirePermission(db, models.LevelEditor), contentHandler.CreateContent)
	contents.Put("/:id", contentHandler.UpdateContent)
	contents.Delete("/:id", contentHandler.DisableContent)

	permissions := api.Group("/permissions", requireAuth)
	permissions.Get("/", permissionHandler.GetPermissions)
	permissions.Put("/", permissionHandler.UpdatePermissions)

	return app, db, cfg
}

func testErrorHandler(c *fiber.Ctx, err error) error {
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
