package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Freeeeeet/tutor_center/internal/model"
)

// RegisterRoutes регистрирует все маршруты API
func (h *Handlers) RegisterRoutes(app *fiber.App) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	api := app.Group("/api")
	api.Post("/auth/login", h.Login)

	authed := api.Group("", h.Authenticate)
	authed.Get("/me", h.Me)
	authed.Put("/me", h.UpdateMe)
	authed.Put("/me/password", h.ChangePassword)
	authed.Get("/subjects", h.RequireRole(model.RoleManager, model.RoleAssistant, model.RoleStudent), h.ListSubjects)

	admin := authed.Group("/admin", h.RequireRole(model.RoleAdmin))
	admin.Post("/centers", h.CreateCenter)
	admin.Get("/centers", h.ListCenters)
	admin.Delete("/centers/:id", h.DeleteCenter)
	admin.Post("/centers/:id/managers", h.CreateManager)

	manager := authed.Group("/manager", h.RequireRole(model.RoleManager))
	manager.Post("/users", h.CreateUser)
	manager.Get("/users", h.ListUsers)
	manager.Post("/subjects", h.CreateSubject)
	manager.Put("/subjects/:id", h.RenameSubject)
	manager.Get("/stats", h.Stats)

	assistant := authed.Group("/assistant", h.RequireRole(model.RoleAssistant))
	assistant.Post("/availability", h.PublishAvailability)
	assistant.Get("/availability", h.GetAvailability)
	assistant.Get("/sessions", h.AssistantSessions)
	assistant.Get("/sessions/:date/:time", h.SessionsAt)
	assistant.Put("/sessions/:id/attendance", h.MarkAttendance)

	student := authed.Group("/student", h.RequireRole(model.RoleStudent))
	student.Get("/assistants", h.ListAssistants)
	student.Post("/sessions", h.BookSession)
	student.Get("/sessions", h.StudentSessions)
	student.Post("/ratings", h.RateSession)
}
