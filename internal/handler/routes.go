package handler

import (
	"gyandeep/internal/middleware"
	"gyandeep/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Routes groups everything Register wires. Leaderboard and Metrics may be nil.
type Routes struct {
	AuthService service.AuthService

	Auth        *AuthHandler
	User        *UserHandler
	Session     *SessionHandler
	Result      *ResultHandler
	Leaderboard *LeaderboardHandler
	Admin       *AdminHandler
	Health      *HealthHandler

	Metrics prometheus.Gatherer
}

// Register mounts the API under /api plus /health and /metrics.
func Register(app *fiber.App, r Routes) {
	vm := middleware.NewValidationMiddleware()
	protected := middleware.Protected(r.AuthService)
	byID := vm.ValidateIDParam("id")

	if r.Health != nil {
		app.Get("/health", r.Health.Health)
	}
	if r.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(r.Metrics, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/login", r.Auth.Login)
	auth.Post("/admin-login", r.Auth.AdminLogin)
	auth.Post("/refresh", r.Auth.RefreshToken)

	api.Get("/categories", r.User.GetCategories)
	api.Get("/dashboard", protected, r.User.Dashboard)

	users := api.Group("/users", protected)
	users.Get("/me", r.User.GetMyProfile)
	users.Put("/me/preferences", r.User.UpdatePreferences)
	users.Get("/me/results", vm.ValidateLimit(), r.User.GetMyResults)

	sessions := api.Group("/sessions", protected)
	sessions.Post("/", r.Session.Start)
	sessions.Get("/:id", byID, r.Session.Get)
	sessions.Delete("/:id", byID, r.Session.Exit)
	sessions.Post("/:id/answer", byID, r.Session.Answer)
	sessions.Post("/:id/next", byID, r.Session.Next)
	sessions.Post("/:id/previous", byID, r.Session.Previous)
	sessions.Post("/:id/review", byID, r.Session.ToggleReview)
	sessions.Post("/:id/submit", byID, r.Session.Submit)

	results := api.Group("/results", protected)
	results.Get("/:id", byID, r.Result.Get)
	results.Get("/:id/review", byID, r.Result.Review)
	results.Get("/:id/analysis", byID, r.Result.Analyze)

	if r.Leaderboard != nil {
		api.Get("/leaderboard", protected, vm.ValidateLimit(), r.Leaderboard.Get)
	}

	admin := api.Group("/admin", protected, middleware.AdminOnly())
	admin.Get("/questions", r.Admin.ListQuestions)
	admin.Post("/questions", r.Admin.CreateQuestion)
	admin.Delete("/questions", r.Admin.WipeQuestions)
	admin.Post("/questions/import", r.Admin.ImportQuestions)
	admin.Get("/questions/export", r.Admin.ExportQuestions)
	admin.Get("/questions/template", r.Admin.CSVTemplate)
	admin.Post("/questions/generate", r.Admin.GenerateQuestions)
	admin.Get("/questions/:id", r.Admin.GetQuestion)
	admin.Put("/questions/:id", r.Admin.UpdateQuestion)
	admin.Delete("/questions/:id", r.Admin.DeleteQuestion)
	admin.Get("/categories", r.Admin.ListCategories)
	admin.Post("/categories", r.Admin.SaveCategory)
	admin.Put("/categories/:id/status", r.Admin.SetCategoryStatus)
	admin.Delete("/categories/:id", r.Admin.DeleteCategory)
	admin.Get("/users", r.Admin.ListUsers)
}
