package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Freeeeeet/tutor_center/internal/apperr"
	"github.com/Freeeeeet/tutor_center/internal/service"
)

func paramID(c *fiber.Ctx, name string) (int64, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, apperr.New(apperr.CodeInvalidArgument, "invalid "+name)
	}
	return int64(id), nil
}

// CreateCenter POST /api/admin/centers
func (h *Handlers) CreateCenter(c *fiber.Ctx) error {
	var req createCenterRequest
	if err := h.bind(c, &req); err != nil {
		return h.sendBindError(c, err)
	}

	center, err := h.svc.Directory.CreateCenter(c.UserContext(), currentUser(c), req.Name)
	if err != nil {
		return h.sendError(c, err)
	}
	return successWithCode(c, fiber.StatusCreated, "learning center created", center)
}

// ListCenters GET /api/admin/centers
func (h *Handlers) ListCenters(c *fiber.Ctx) error {
	centers, err := h.svc.Directory.ListCenters(c.UserContext(), currentUser(c))
	if err != nil {
		return h.sendError(c, err)
	}
	return success(c, "learning centers", centers)
}

// DeleteCenter DELETE /api/admin/centers/:id
func (h *Handlers) DeleteCenter(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.sendError(c, err)
	}

	if err := h.svc.Directory.DeleteCenter(c.UserContext(), currentUser(c), id); err != nil {
		return h.sendError(c, err)
	}
	return success(c, "learning center deleted", nil)
}

// CreateManager POST /api/admin/centers/:id/managers
func (h *Handlers) CreateManager(c *fiber.Ctx) error {
	centerID, err := paramID(c, "id")
	if err != nil {
		return h.sendError(c, err)
	}

	var req createManagerRequest
	if err := h.bind(c, &req); err != nil {
		return h.sendBindError(c, err)
	}

	manager, err := h.svc.Directory.CreateManager(c.UserContext(), currentUser(c), centerID, service.NewUser{
		Fullname: req.Fullname,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		return h.sendError(c, err)
	}
	return successWithCode(c, fiber.StatusCreated, "manager created", manager)
}
