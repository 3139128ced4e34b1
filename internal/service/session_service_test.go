package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Freeeeeet/tutor_center/internal/apperr"
	"github.com/Freeeeeet/tutor_center/internal/model"
)

func TestSessionListings(t *testing.T) {
	w := newWorld()
	ctx := context.Background()
	logger := zap.NewNop()
	availability := NewAvailabilityService(w.slots, logger)
	booking := NewBookingService(w.users, w.sessions, logger)
	gate := NewAttendanceService(w.sessions, w.ratings, logger)
	now := func() time.Time { return at("2024-01-10 12:00") }
	sessions := NewSessionService(w.sessions, now, logger)

	assistant := w.user(model.RoleAssistant, w.center.ID, w.math)
	student := w.user(model.RoleStudent, w.center.ID, w.math)

	if err := availability.Publish(ctx, assistant, "2024-01-10", []string{"09:00", "15:00"}); err != nil {
		t.Fatal(err)
	}
	past, err := booking.Book(ctx, student, assistant.ID, at("2024-01-10 09:00"))
	if err != nil {
		t.Fatal(err)
	}
	upcoming, err := booking.Book(ctx, student, assistant.ID, at("2024-01-10 15:00"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := gate.MarkAttendance(ctx, assistant, past.ID, "present"); err != nil {
		t.Fatal(err)
	}
	if _, err := gate.Rate(ctx, student, past.ID, allFives(), nil); err != nil {
		t.Fatal(err)
	}

	up, err := sessions.ListForAssistant(ctx, assistant, model.PeriodUpcoming)
	if err != nil {
		t.Fatal(err)
	}
	if len(up) != 1 || up[0].SessionID != upcoming.ID || up[0].StudentName != student.Fullname {
		t.Fatalf("assistant upcoming = %+v", up)
	}

	mine, err := sessions.ListForStudent(ctx, student, model.ParsePeriod("past"))
	if err != nil {
		t.Fatal(err)
	}
	if len(mine) != 1 || mine[0].SessionID != past.ID || mine[0].MyRating == nil || mine[0].MyRating.Knowledge != 5 {
		t.Fatalf("student past = %+v", mine)
	}

	atNine, err := sessions.SessionsAt(ctx, assistant, "2024-01-10", "9:00")
	if err != nil {
		t.Fatal(err)
	}
	if len(atNine) != 1 || atNine[0].StudentID != student.ID || *atNine[0].Attendance != model.AttendancePresent {
		t.Fatalf("sessions at 09:00 = %+v", atNine)
	}

	if _, err := sessions.SessionsAt(ctx, assistant, "2024-01-10", "9am"); !apperr.Is(err, apperr.CodeInvalidArgument) {
		t.Fatalf("bad time label: got %v", err)
	}
	if _, err := sessions.ListForStudent(ctx, assistant, model.PeriodPast); !apperr.Is(err, apperr.CodeForbidden) {
		t.Fatalf("assistant listing student sessions: got %v", err)
	}
}
