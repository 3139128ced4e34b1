package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Freeeeeet/tutor_center/internal/apperr"
	"github.com/Freeeeeet/tutor_center/internal/model"
	"github.com/Freeeeeet/tutor_center/internal/repository"
)

// AttendanceService посещаемость и оценки занятий
type AttendanceService struct {
	sessions SessionStore
	ratings  RatingStore
	logger   *zap.Logger
}

func NewAttendanceService(sessions SessionStore, ratings RatingStore, logger *zap.Logger) *AttendanceService {
	return &AttendanceService{
		sessions: sessions,
		ratings:  ratings,
		logger:   logger,
	}
}

// MarkAttendance отмечает посещаемость. Занятие всегда переходит в completed.
func (s *AttendanceService) MarkAttendance(ctx context.Context, assistant *model.User, sessionID int64, value string) (*model.Session, error) {
	if err := requireRole(assistant, model.RoleAssistant); err != nil {
		return nil, err
	}

	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if session == nil || session.AssistantID != assistant.ID {
		return nil, apperr.New(apperr.CodeNotFound, "session not found")
	}

	attendance, err := model.ParseAttendance(value)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInvalidValue, "attendance must be 'present' or 'absent'", err)
	}

	updated, err := s.sessions.MarkAttendance(ctx, sessionID, attendance)
	if err != nil {
		return nil, fmt.Errorf("mark attendance: %w", err)
	}
	if updated == nil {
		return nil, apperr.New(apperr.CodeNotFound, "session not found")
	}

	s.logger.Info("Attendance marked",
		zap.Int64("session_id", sessionID),
		zap.Int64("assistant_id", assistant.ID),
		zap.String("attendance", string(attendance)),
	)

	return updated, nil
}

// Rate сохраняет оценку студента за завершённое занятие. Оценка ставится один раз.
func (s *AttendanceService) Rate(ctx context.Context, student *model.User, sessionID int64, scores model.Scores, comments *string) (*model.Rating, error) {
	if err := requireRole(student, model.RoleStudent); err != nil {
		return nil, err
	}

	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if session == nil || session.StudentID != student.ID {
		return nil, apperr.New(apperr.CodeNotFound, "session not found")
	}

	if session.Status != model.SessionStatusCompleted {
		return nil, apperr.New(apperr.CodeNotCompleted, "only completed sessions can be rated")
	}

	existing, err := s.ratings.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get rating: %w", err)
	}
	if existing != nil {
		return nil, apperr.New(apperr.CodeAlreadyRated, "session already rated")
	}

	if err := scores.Validate(); err != nil {
		return nil, apperr.Wrap(apperr.CodeInvalidScore, err.Error(), err)
	}

	rating := &model.Rating{
		SessionID: sessionID,
		Scores:    scores,
		Comments:  normalizeComments(comments),
	}
	if err := s.ratings.Create(ctx, rating); err != nil {
		if errors.Is(err, repository.ErrAlreadyRated) {
			return nil, apperr.New(apperr.CodeAlreadyRated, "session already rated")
		}
		return nil, fmt.Errorf("create rating: %w", err)
	}

	s.logger.Info("Session rated",
		zap.Int64("session_id", sessionID),
		zap.Int64("student_id", student.ID),
		zap.Float64("mean", scores.Mean()),
	)

	return rating, nil
}

func normalizeComments(comments *string) *string {
	if comments == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*comments)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
