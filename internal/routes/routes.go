package routes

import (
	"github.com/fathima-sithara/contacts-service/internal/handlers"
	"github.com/fathima-sithara/contacts-service/internal/middleware"
	"github.com/fathima-sithara/contacts-service/internal/models"
	"github.com/gofiber/fiber/v2"
)

func Setup(app *fiber.App, auth *middleware.Auth, ah *handlers.AuthHandler, ch *handlers.ContactHandler, uh *handlers.UserHandler) {
	api := app.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Post("/signup", ah.Signup)
	authGroup.Post("/login", ah.Login)
	authGroup.Post("/forgot-password", ah.ForgotPassword)
	authGroup.Post("/reset-password", ah.ResetPassword)
	authGroup.Get("/me", auth.RequireAuth(), ah.Me)

	contacts := api.Group("/contacts", auth.RequireAuth())
	contacts.Post("/", ch.Create)
	contacts.Get("/", ch.List)
	contacts.Get("/:id", ch.Get)
	contacts.Put("/:id", ch.Update)
	contacts.Delete("/:id", ch.Delete)
	contacts.Post("/:id/share", ch.Share)
	contacts.Delete("/:id/share", ch.Unshare)

	users := api.Group("/users", auth.RequireAuth(), auth.RequireRole(models.RoleAdmin))
	users.Get("/", uh.List)
	users.Get("/email", uh.GetByEmail)
	users.Get("/:id", uh.Get)
	users.Put("/:id", uh.Update)
	users.Delete("/:id", auth.RequireRole(models.RoleSuperAdmin), uh.Delete)
}
