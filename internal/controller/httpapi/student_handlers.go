package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Freeeeeet/tutor_center/internal/apperr"
	"github.com/Freeeeeet/tutor_center/internal/model"
)

// ListAssistants GET /api/student/assistants
func (h *Handlers) ListAssistants(c *fiber.Ctx) error {
	cards, err := h.svc.Analytics.ListAssistants(c.UserContext(), currentUser(c))
	if err != nil {
		return h.sendError(c, err)
	}
	return success(c, "assistants", cards)
}

// BookSession POST /api/student/sessions
func (h *Handlers) BookSession(c *fiber.Ctx) error {
	var req bookRequest
	if err := h.bind(c, &req); err != nil {
		return h.sendBindError(c, err)
	}

	when, err := model.ParseWhen(req.DateTime)
	if err != nil {
		return h.sendError(c, apperr.Wrap(apperr.CodeInvalidArgument, err.Error(), err))
	}

	session, err := h.svc.Booking.Book(c.UserContext(), currentUser(c), req.AssistantID, when)
	if err != nil {
		return h.sendError(c, err)
	}
	return successWithCode(c, fiber.StatusCreated, "session booked", session)
}

// StudentSessions GET /api/student/sessions?status=upcoming|past
func (h *Handlers) StudentSessions(c *fiber.Ctx) error {
	sessions, err := h.svc.Sessions.ListForStudent(c.UserContext(), currentUser(c), model.ParsePeriod(c.Query("status")))
	if err != nil {
		return h.sendError(c, err)
	}
	return success(c, "sessions", sessions)
}

// RateSession POST /api/student/ratings
func (h *Handlers) RateSession(c *fiber.Ctx) error {
	var req rateRequest
	if err := h.bind(c, &req); err != nil {
		return h.sendBindError(c, err)
	}

	scores := model.Scores{
		Knowledge:      req.Knowledge,
		Communication:  req.Communication,
		Patience:       req.Patience,
		Engagement:     req.Engagement,
		ProblemSolving: req.ProblemSolving,
	}
	rating, err := h.svc.Attendance.Rate(c.UserContext(), currentUser(c), req.SessionID, scores, req.Comments)
	if err != nil {
		return h.sendError(c, err)
	}
	return successWithCode(c, fiber.StatusCreated, "rating saved", rating)
}
