package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/tutor_center/internal/model"
)

// Хранилища, от которых зависят сервисы. Реализуются пакетом repository.

type CenterStore interface {
	Create(ctx context.Context, center *model.LearningCenter) error
	GetByID(ctx context.Context, id int64) (*model.LearningCenter, error)
	List(ctx context.Context) ([]*model.CenterSummary, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	ListByCenterAndRole(ctx context.Context, centerID int64, role model.Role) ([]*model.User, error)
	ListAssistantsBySubject(ctx context.Context, centerID, subjectID int64) ([]*model.User, error)
	UpdateProfile(ctx context.Context, id int64, fullname string, subjectID *int64) error
	AdminExists(ctx context.Context) (bool, error)
}

type SubjectStore interface {
	Create(ctx context.Context, subject *model.Subject) error
	GetByID(ctx context.Context, id int64) (*model.Subject, error)
	ListByCenter(ctx context.Context, centerID int64) ([]*model.Subject, error)
	Rename(ctx context.Context, id int64, name string) error
}

type SlotStore interface {
	Publish(ctx context.Context, assistantID int64, date time.Time, labels []string) error
	ListByAssistant(ctx context.Context, assistantID int64) ([]*model.AvailabilitySlot, error)
	ListAvailable(ctx context.Context, assistantID int64, limit int) ([]*model.AvailabilitySlot, error)
}

type SessionStore interface {
	Book(ctx context.Context, studentID, assistantID int64, when time.Time) (*model.Session, error)
	GetByID(ctx context.Context, id int64) (*model.Session, error)
	MarkAttendance(ctx context.Context, id int64, attendance model.Attendance) (*model.Session, error)
	ListByAssistant(ctx context.Context, assistantID int64, period model.Period, now time.Time) ([]*model.AssistantSessionView, error)
	ListAtInstant(ctx context.Context, assistantID int64, at time.Time) ([]*model.AssistantSessionView, error)
	ListByStudent(ctx context.Context, studentID int64, period model.Period, now time.Time) ([]*model.StudentSessionView, error)
}

type RatingStore interface {
	Create(ctx context.Context, rating *model.Rating) error
	GetBySessionID(ctx context.Context, sessionID int64) (*model.Rating, error)
	AverageForAssistant(ctx context.Context, assistantID int64) (float64, error)
}

type StatsStore interface {
	AssistantStats(ctx context.Context, centerID int64) ([]model.AssistantStats, error)
	PopularSubjects(ctx context.Context, centerID int64) ([]model.SubjectPopularity, error)
	PeakHours(ctx context.Context, centerID int64) ([]model.PeakHour, error)
	Totals(ctx context.Context, centerID int64, monthStart, monthEnd time.Time) (model.CenterTotals, error)
}

// PasswordHasher хеширует пароли новых пользователей (auth.Authenticator)
type PasswordHasher interface {
	HashPassword(password string) (string, error)
}
