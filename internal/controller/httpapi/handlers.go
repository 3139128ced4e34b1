// Package httpapi maps HTTP requests onto the booking services.
package httpapi

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Freeeeeet/tutor_center/internal/auth"
	"github.com/Freeeeeet/tutor_center/internal/model"
	"github.com/Freeeeeet/tutor_center/internal/service"
)

type Authenticator interface {
	Login(ctx context.Context, phone, password string, centerID *int64) (string, *model.User, error)
	Verify(ctx context.Context, token string) (auth.Identity, error)
	ChangePassword(ctx context.Context, user *model.User, current, next string) error
}

type DirectoryService interface {
	CreateCenter(ctx context.Context, admin *model.User, name string) (*model.LearningCenter, error)
	ListCenters(ctx context.Context, admin *model.User) ([]*model.CenterSummary, error)
	DeleteCenter(ctx context.Context, admin *model.User, centerID int64) error
	CreateManager(ctx context.Context, admin *model.User, centerID int64, in service.NewUser) (*model.User, error)
	CreateUser(ctx context.Context, manager *model.User, in service.NewUser) (*model.User, error)
	ListUsers(ctx context.Context, manager *model.User, role model.Role) ([]*model.User, error)
	CreateSubject(ctx context.Context, manager *model.User, name string) (*model.Subject, error)
	ListSubjects(ctx context.Context, actor *model.User) ([]*model.Subject, error)
	RenameSubject(ctx context.Context, manager *model.User, subjectID int64, name string) (*model.Subject, error)
	Profile(ctx context.Context, actor *model.User) (*model.User, error)
	UpdateProfile(ctx context.Context, actor *model.User, fullname *string, subjectID *int64) (*model.User, error)
}

type AvailabilityService interface {
	Publish(ctx context.Context, assistant *model.User, date string, timeSlots []string) error
	Query(ctx context.Context, assistant *model.User) ([]model.DaySchedule, error)
}

type BookingService interface {
	Book(ctx context.Context, student *model.User, assistantID int64, when time.Time) (*model.Session, error)
}

type AttendanceService interface {
	MarkAttendance(ctx context.Context, assistant *model.User, sessionID int64, value string) (*model.Session, error)
	Rate(ctx context.Context, student *model.User, sessionID int64, scores model.Scores, comments *string) (*model.Rating, error)
}

type SessionService interface {
	SessionsAt(ctx context.Context, assistant *model.User, date, timeLabel string) ([]*model.AssistantSessionView, error)
	ListForAssistant(ctx context.Context, assistant *model.User, period model.Period) ([]*model.AssistantSessionView, error)
	ListForStudent(ctx context.Context, student *model.User, period model.Period) ([]*model.StudentSessionView, error)
}

type AnalyticsService interface {
	ListAssistants(ctx context.Context, student *model.User) ([]model.AssistantCard, error)
	CenterStats(ctx context.Context, manager *model.User) (*model.CenterStats, error)
}

// Services всё, что нужно HTTP-слою
type Services struct {
	Auth         Authenticator
	Directory    DirectoryService
	Availability AvailabilityService
	Booking      BookingService
	Attendance   AttendanceService
	Sessions     SessionService
	Analytics    AnalyticsService
}

type Handlers struct {
	svc      Services
	validate *validator.Validate
	logger   *zap.Logger
}

func NewHandlers(svc Services, logger *zap.Logger) *Handlers {
	return &Handlers{
		svc:      svc,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}
