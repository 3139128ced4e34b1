package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Freeeeeet/tutor_center/internal/model"
)

const attendancePending = "pending"

type slotStudent struct {
	SessionID        int64   `json:"session_id"`
	StudentID        int64   `json:"student_id"`
	StudentName      string  `json:"student_name"`
	StudentPhone     string  `json:"student_phone"`
	StudentPhoto     *string `json:"student_photo"`
	AttendanceStatus string  `json:"attendance_status"`
}

func attendanceStatus(a *model.Attendance) string {
	if a == nil {
		return attendancePending
	}
	return string(*a)
}

// PublishAvailability POST /api/assistant/availability
func (h *Handlers) PublishAvailability(c *fiber.Ctx) error {
	var req publishRequest
	if err := h.bind(c, &req); err != nil {
		return h.sendBindError(c, err)
	}

	if err := h.svc.Availability.Publish(c.UserContext(), currentUser(c), req.Date, req.TimeSlots); err != nil {
		return h.sendError(c, err)
	}
	return success(c, "schedule saved for "+req.Date, nil)
}

// GetAvailability GET /api/assistant/availability
func (h *Handlers) GetAvailability(c *fiber.Ctx) error {
	days, err := h.svc.Availability.Query(c.UserContext(), currentUser(c))
	if err != nil {
		return h.sendError(c, err)
	}
	return success(c, "availability", days)
}

// AssistantSessions GET /api/assistant/sessions?status=upcoming|past
func (h *Handlers) AssistantSessions(c *fiber.Ctx) error {
	sessions, err := h.svc.Sessions.ListForAssistant(c.UserContext(), currentUser(c), model.ParsePeriod(c.Query("status")))
	if err != nil {
		return h.sendError(c, err)
	}
	return success(c, "sessions", sessions)
}

// SessionsAt GET /api/assistant/sessions/:date/:time
func (h *Handlers) SessionsAt(c *fiber.Ctx) error {
	views, err := h.svc.Sessions.SessionsAt(c.UserContext(), currentUser(c), c.Params("date"), c.Params("time"))
	if err != nil {
		return h.sendError(c, err)
	}

	students := make([]slotStudent, 0, len(views))
	for _, v := range views {
		students = append(students, slotStudent{
			SessionID:        v.SessionID,
			StudentID:        v.StudentID,
			StudentName:      v.StudentName,
			StudentPhone:     v.StudentPhone,
			StudentPhoto:     v.StudentPhoto,
			AttendanceStatus: attendanceStatus(v.Attendance),
		})
	}
	return success(c, "students", students)
}

// MarkAttendance PUT /api/assistant/sessions/:id/attendance
func (h *Handlers) MarkAttendance(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.sendError(c, err)
	}

	var req attendanceRequest
	if err := h.bind(c, &req); err != nil {
		return h.sendBindError(c, err)
	}

	session, err := h.svc.Attendance.MarkAttendance(c.UserContext(), currentUser(c), id, req.Attendance)
	if err != nil {
		return h.sendError(c, err)
	}
	return success(c, "attendance marked", session)
}
