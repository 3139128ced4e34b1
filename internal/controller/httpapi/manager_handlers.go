package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Freeeeeet/tutor_center/internal/apperr"
	"github.com/Freeeeeet/tutor_center/internal/model"
	"github.com/Freeeeeet/tutor_center/internal/service"
)

// CreateUser POST /api/manager/users
func (h *Handlers) CreateUser(c *fiber.Ctx) error {
	var req createUserRequest
	if err := h.bind(c, &req); err != nil {
		return h.sendBindError(c, err)
	}

	role, err := model.ParseRole(req.Role)
	if err != nil {
		return h.sendError(c, apperr.Wrap(apperr.CodeInvalidArgument, err.Error(), err))
	}

	user, err := h.svc.Directory.CreateUser(c.UserContext(), currentUser(c), service.NewUser{
		Fullname:  req.Fullname,
		Phone:     req.Phone,
		Password:  req.Password,
		Role:      role,
		SubjectID: req.SubjectID,
	})
	if err != nil {
		return h.sendError(c, err)
	}
	return successWithCode(c, fiber.StatusCreated, "user created", user)
}

// ListUsers GET /api/manager/users?role=assistant|student
func (h *Handlers) ListUsers(c *fiber.Ctx) error {
	role, err := model.ParseRole(c.Query("role", string(model.RoleStudent)))
	if err != nil {
		return h.sendError(c, apperr.Wrap(apperr.CodeInvalidArgument, err.Error(), err))
	}

	users, err := h.svc.Directory.ListUsers(c.UserContext(), currentUser(c), role)
	if err != nil {
		return h.sendError(c, err)
	}
	return success(c, "users", users)
}

// CreateSubject POST /api/manager/subjects
func (h *Handlers) CreateSubject(c *fiber.Ctx) error {
	var req subjectRequest
	if err := h.bind(c, &req); err != nil {
		return h.sendBindError(c, err)
	}

	subject, err := h.svc.Directory.CreateSubject(c.UserContext(), currentUser(c), req.Name)
	if err != nil {
		return h.sendError(c, err)
	}
	return successWithCode(c, fiber.StatusCreated, "subject created", subject)
}

// RenameSubject PUT /api/manager/subjects/:id
func (h *Handlers) RenameSubject(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.sendError(c, err)
	}

	var req subjectRequest
	if err := h.bind(c, &req); err != nil {
		return h.sendBindError(c, err)
	}

	subject, err := h.svc.Directory.RenameSubject(c.UserContext(), currentUser(c), id, req.Name)
	if err != nil {
		return h.sendError(c, err)
	}
	return success(c, "subject renamed", subject)
}

// Stats GET /api/manager/stats
func (h *Handlers) Stats(c *fiber.Ctx) error {
	stats, err := h.svc.Analytics.CenterStats(c.UserContext(), currentUser(c))
	if err != nil {
		return h.sendError(c, err)
	}
	return success(c, "center stats", stats)
}
