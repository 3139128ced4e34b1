package app

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Freeeeeet/tutor_center/internal/auth"
	"github.com/Freeeeeet/tutor_center/internal/config"
	"github.com/Freeeeeet/tutor_center/internal/controller/httpapi"
	"github.com/Freeeeeet/tutor_center/internal/repository"
	"github.com/Freeeeeet/tutor_center/internal/service"
)

// Container связывает репозитории, аутентификатор и сервисы
type Container struct {
	Auth         *auth.Authenticator
	Directory    *service.DirectoryService
	Availability *service.AvailabilityService
	Booking      *service.BookingService
	Attendance   *service.AttendanceService
	Sessions     *service.SessionService
	Analytics    *service.AnalyticsService
}

func NewContainer(pool *pgxpool.Pool, cfg *config.Config, logger *zap.Logger) *Container {
	// Репозитории
	centerRepo := repository.NewCenterRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	subjectRepo := repository.NewSubjectRepository(pool)
	slotRepo := repository.NewAvailabilityRepository(pool)
	sessionRepo := repository.NewSessionRepository(pool, slotRepo)
	ratingRepo := repository.NewRatingRepository(pool)
	statsRepo := repository.NewStatsRepository(pool)

	authenticator := auth.NewAuthenticator(userRepo, cfg.JWTSecret, cfg.AccessTokenTTL, logger.Named("auth"))

	// Сервисы
	return &Container{
		Auth:         authenticator,
		Directory:    service.NewDirectoryService(centerRepo, userRepo, subjectRepo, authenticator, logger.Named("directory")),
		Availability: service.NewAvailabilityService(slotRepo, logger.Named("availability")),
		Booking:      service.NewBookingService(userRepo, sessionRepo, logger.Named("booking")),
		Attendance:   service.NewAttendanceService(sessionRepo, ratingRepo, logger.Named("attendance")),
		Sessions:     service.NewSessionService(sessionRepo, time.Now, logger.Named("sessions")),
		Analytics:    service.NewAnalyticsService(userRepo, slotRepo, ratingRepo, statsRepo, time.Now, logger.Named("analytics")),
	}
}

// HTTPServices отдаёт сервисы в виде, нужном HTTP-слою
func (c *Container) HTTPServices() httpapi.Services {
	return httpapi.Services{
		Auth:         c.Auth,
		Directory:    c.Directory,
		Availability: c.Availability,
		Booking:      c.Booking,
		Attendance:   c.Attendance,
		Sessions:     c.Sessions,
		Analytics:    c.Analytics,
	}
}
