package httpapi

import (
	"github.com/gofiber/fiber/v2"
)

// Login POST /api/auth/login
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := h.bind(c, &req); err != nil {
		return h.sendBindError(c, err)
	}

	token, user, err := h.svc.Auth.Login(c.UserContext(), req.Phone, req.Password, req.LearningCenterID)
	if err != nil {
		return h.sendError(c, err)
	}

	return success(c, "logged in", loginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	})
}

// Me GET /api/me
func (h *Handlers) Me(c *fiber.Ctx) error {
	user, err := h.svc.Directory.Profile(c.UserContext(), currentUser(c))
	if err != nil {
		return h.sendError(c, err)
	}
	return success(c, "profile", user)
}

// UpdateMe PUT /api/me
func (h *Handlers) UpdateMe(c *fiber.Ctx) error {
	var req updateProfileRequest
	if err := h.bind(c, &req); err != nil {
		return h.sendBindError(c, err)
	}

	user, err := h.svc.Directory.UpdateProfile(c.UserContext(), currentUser(c), req.Fullname, req.SubjectID)
	if err != nil {
		return h.sendError(c, err)
	}
	return success(c, "profile updated", user)
}

// ChangePassword PUT /api/me/password
func (h *Handlers) ChangePassword(c *fiber.Ctx) error {
	var req changePasswordRequest
	if err := h.bind(c, &req); err != nil {
		return h.sendBindError(c, err)
	}

	if err := h.svc.Auth.ChangePassword(c.UserContext(), currentUser(c), req.CurrentPassword, req.NewPassword); err != nil {
		return h.sendError(c, err)
	}
	return success(c, "password changed", nil)
}

// ListSubjects GET /api/subjects
func (h *Handlers) ListSubjects(c *fiber.Ctx) error {
	subjects, err := h.svc.Directory.ListSubjects(c.UserContext(), currentUser(c))
	if err != nil {
		return h.sendError(c, err)
	}
	return success(c, "subjects", subjects)
}
