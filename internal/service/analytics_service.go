package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Freeeeeet/tutor_center/internal/model"
)

// AssistantCardSlots сколько свободных слотов показывать в карточке ассистента
const AssistantCardSlots = 10

// AnalyticsService отчёты только на чтение: дашборд менеджера и каталог ассистентов для студента
type AnalyticsService struct {
	users   UserStore
	slots   SlotStore
	ratings RatingStore
	stats   StatsStore
	now     func() time.Time
	logger  *zap.Logger
}

func NewAnalyticsService(
	users UserStore,
	slots SlotStore,
	ratings RatingStore,
	stats StatsStore,
	now func() time.Time,
	logger *zap.Logger,
) *AnalyticsService {
	if now == nil {
		now = time.Now
	}
	return &AnalyticsService{
		users:   users,
		slots:   slots,
		ratings: ratings,
		stats:   stats,
		now:     now,
		logger:  logger,
	}
}

// ListAssistants ассистенты центра студента по его предмету, с рейтингом и ближайшими слотами
func (s *AnalyticsService) ListAssistants(ctx context.Context, student *model.User) ([]model.AssistantCard, error) {
	if err := requireRole(student, model.RoleStudent); err != nil {
		return nil, err
	}
	centerID, err := centerOf(student)
	if err != nil {
		return nil, err
	}

	cards := []model.AssistantCard{}
	if student.SubjectID == nil {
		return cards, nil
	}

	assistants, err := s.users.ListAssistantsBySubject(ctx, centerID, *student.SubjectID)
	if err != nil {
		return nil, fmt.Errorf("list assistants: %w", err)
	}

	for _, a := range assistants {
		avg, err := s.ratings.AverageForAssistant(ctx, a.ID)
		if err != nil {
			return nil, fmt.Errorf("average rating: %w", err)
		}

		slots, err := s.slots.ListAvailable(ctx, a.ID, AssistantCardSlots)
		if err != nil {
			return nil, fmt.Errorf("list available slots: %w", err)
		}
		labels := make([]string, 0, len(slots))
		for _, slot := range slots {
			labels = append(labels, slot.Date.Format(model.DateLayout)+" "+slot.TimeSlot)
		}

		cards = append(cards, model.AssistantCard{
			ID:             a.ID,
			Fullname:       a.Fullname,
			Subject:        a.SubjectName,
			AvgRating:      model.RoundRating(avg),
			PhotoURL:       a.PhotoURL,
			AvailableSlots: labels,
		})
	}

	return cards, nil
}

// CenterStats сводка по центру менеджера
func (s *AnalyticsService) CenterStats(ctx context.Context, manager *model.User) (*model.CenterStats, error) {
	if err := requireRole(manager, model.RoleManager); err != nil {
		return nil, err
	}
	centerID, err := centerOf(manager)
	if err != nil {
		return nil, err
	}

	assistants, err := s.stats.AssistantStats(ctx, centerID)
	if err != nil {
		return nil, err
	}
	subjects, err := s.stats.PopularSubjects(ctx, centerID)
	if err != nil {
		return nil, err
	}
	hours, err := s.stats.PeakHours(ctx, centerID)
	if err != nil {
		return nil, err
	}

	monthStart, monthEnd := monthBounds(s.now())
	totals, err := s.stats.Totals(ctx, centerID, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}

	stats := &model.CenterStats{
		Assistants:      nonNil(assistants),
		PopularSubjects: nonNil(subjects),
		PeakHours:       nonNil(hours),
		Totals:          totals,
	}

	s.logger.Debug("Center stats computed",
		zap.Int64("center_id", centerID),
		zap.Int("assistants", len(stats.Assistants)),
	)

	return stats, nil
}

// monthBounds границы календарного месяца now в настенном времени
func monthBounds(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
