package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Freeeeeet/tutor_center/internal/apperr"
	"github.com/Freeeeeet/tutor_center/internal/model"
	"github.com/Freeeeeet/tutor_center/internal/repository"
)

type BookingService struct {
	users    UserStore
	sessions SessionStore
	logger   *zap.Logger
}

func NewBookingService(users UserStore, sessions SessionStore, logger *zap.Logger) *BookingService {
	return &BookingService{
		users:    users,
		sessions: sessions,
		logger:   logger,
	}
}

// Book бронирует занятие студента у ассистента на момент when.
// Проверки идут строго по порядку: ассистент в том же центре,
// совпадение предмета, свободный слот, отсутствие другого занятия студента в это время.
func (s *BookingService) Book(ctx context.Context, student *model.User, assistantID int64, when time.Time) (*model.Session, error) {
	if err := requireRole(student, model.RoleStudent); err != nil {
		return nil, err
	}

	assistant, err := s.users.GetByID(ctx, assistantID)
	if err != nil {
		return nil, fmt.Errorf("get assistant: %w", err)
	}
	if assistant == nil || assistant.Role != model.RoleAssistant || !assistant.SameCenter(student) {
		return nil, apperr.New(apperr.CodeNotFound, "assistant not found")
	}

	if !student.SameSubject(assistant) {
		s.logger.Debug("Booking rejected: subject mismatch",
			zap.Int64("student_id", student.ID),
			zap.Int64("assistant_id", assistantID))
		return nil, apperr.New(apperr.CodeSubjectMismatch, "assistant teaches a different subject")
	}

	when = model.NormalizeWhen(when)

	session, err := s.sessions.Book(ctx, student.ID, assistant.ID, when)
	if errors.Is(err, repository.ErrTxConflict) {
		s.logger.Warn("Booking transaction conflict, retrying",
			zap.Int64("student_id", student.ID),
			zap.Int64("assistant_id", assistantID),
			zap.Error(err))
		session, err = s.sessions.Book(ctx, student.ID, assistant.ID, when)
	}

	switch {
	case err == nil:
	case errors.Is(err, repository.ErrSlotUnavailable), errors.Is(err, repository.ErrTxConflict):
		s.logger.Info("Booking rejected: slot unavailable",
			zap.Int64("student_id", student.ID),
			zap.Int64("assistant_id", assistantID),
			zap.Time("when", when))
		return nil, apperr.New(apperr.CodeSlotUnavailable, "time slot is booked or not available")
	case errors.Is(err, repository.ErrDuplicateBooking):
		s.logger.Info("Booking rejected: student already booked",
			zap.Int64("student_id", student.ID),
			zap.Time("when", when))
		return nil, apperr.New(apperr.CodeDuplicateBooking, "you already have a session at this time")
	default:
		s.logger.Error("Failed to book session",
			zap.Int64("student_id", student.ID),
			zap.Int64("assistant_id", assistantID),
			zap.Error(err))
		return nil, fmt.Errorf("book session: %w", err)
	}

	s.logger.Info("Session booked",
		zap.Int64("session_id", session.ID),
		zap.Int64("student_id", student.ID),
		zap.Int64("assistant_id", assistant.ID),
		zap.Time("scheduled_at", session.ScheduledAt),
	)

	return session, nil
}
