package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Freeeeeet/tutor_center/internal/apperr"
	"github.com/Freeeeeet/tutor_center/internal/model"
)

// SessionService списки занятий для ассистента и студента
type SessionService struct {
	sessions SessionStore
	now      func() time.Time
	logger   *zap.Logger
}

func NewSessionService(sessions SessionStore, now func() time.Time, logger *zap.Logger) *SessionService {
	if now == nil {
		now = time.Now
	}
	return &SessionService{
		sessions: sessions,
		now:      now,
		logger:   logger,
	}
}

// SessionsAt студенты, записанные к ассистенту на date/timeLabel
func (s *SessionService) SessionsAt(ctx context.Context, assistant *model.User, date, timeLabel string) ([]*model.AssistantSessionView, error) {
	if err := requireRole(assistant, model.RoleAssistant); err != nil {
		return nil, err
	}

	day, err := model.ParseDate(date)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInvalidArgument, err.Error(), err)
	}
	label, err := model.ParseTimeLabel(timeLabel)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInvalidArgument, err.Error(), err)
	}
	at, err := model.CombineSlot(day, label)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInvalidArgument, err.Error(), err)
	}

	views, err := s.sessions.ListAtInstant(ctx, assistant.ID, at)
	if err != nil {
		return nil, fmt.Errorf("list sessions at %s: %w", at.Format(time.DateTime), err)
	}
	return views, nil
}

// ListForAssistant предстоящие или прошедшие занятия ассистента
func (s *SessionService) ListForAssistant(ctx context.Context, assistant *model.User, period model.Period) ([]*model.AssistantSessionView, error) {
	if err := requireRole(assistant, model.RoleAssistant); err != nil {
		return nil, err
	}

	views, err := s.sessions.ListByAssistant(ctx, assistant.ID, period, s.now())
	if err != nil {
		return nil, fmt.Errorf("list assistant sessions: %w", err)
	}
	return views, nil
}

// ListForStudent предстоящие или прошедшие занятия студента с его оценками
func (s *SessionService) ListForStudent(ctx context.Context, student *model.User, period model.Period) ([]*model.StudentSessionView, error) {
	if err := requireRole(student, model.RoleStudent); err != nil {
		return nil, err
	}

	views, err := s.sessions.ListByStudent(ctx, student.ID, period, s.now())
	if err != nil {
		return nil, fmt.Errorf("list student sessions: %w", err)
	}
	return views, nil
}
