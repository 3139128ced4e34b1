package service

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/Freeeeeet/tutor_center/internal/apperr"
	"github.com/Freeeeeet/tutor_center/internal/model"
)

// AvailabilityService расписание свободных слотов ассистентов
type AvailabilityService struct {
	slots  SlotStore
	logger *zap.Logger
}

func NewAvailabilityService(slots SlotStore, logger *zap.Logger) *AvailabilityService {
	return &AvailabilityService{
		slots:  slots,
		logger: logger,
	}
}

// Publish публикует расписание ассистента на дату.
// Свободные слоты даты заменяются переданными метками, уже забронированные сохраняются.
func (s *AvailabilityService) Publish(ctx context.Context, assistant *model.User, date string, timeSlots []string) error {
	if err := requireRole(assistant, model.RoleAssistant); err != nil {
		return err
	}

	day, err := model.ParseDate(date)
	if err != nil {
		return apperr.Wrap(apperr.CodeInvalidArgument, err.Error(), err)
	}

	seen := make(map[string]struct{}, len(timeSlots))
	labels := make([]string, 0, len(timeSlots))
	for _, raw := range timeSlots {
		label, err := model.ParseTimeLabel(raw)
		if err != nil {
			return apperr.Wrap(apperr.CodeInvalidArgument, err.Error(), err)
		}
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		labels = append(labels, label)
	}
	sort.Strings(labels)

	if err := s.slots.Publish(ctx, assistant.ID, day, labels); err != nil {
		s.logger.Error("Failed to publish availability",
			zap.Int64("assistant_id", assistant.ID),
			zap.String("date", date),
			zap.Error(err))
		return fmt.Errorf("publish availability: %w", err)
	}

	s.logger.Info("Availability published",
		zap.Int64("assistant_id", assistant.ID),
		zap.String("date", day.Format(model.DateLayout)),
		zap.Strings("time_slots", labels),
	)

	return nil
}

// Query возвращает слоты ассистента, сгруппированные по дате
func (s *AvailabilityService) Query(ctx context.Context, assistant *model.User) ([]model.DaySchedule, error) {
	if err := requireRole(assistant, model.RoleAssistant); err != nil {
		return nil, err
	}

	slots, err := s.slots.ListByAssistant(ctx, assistant.ID)
	if err != nil {
		return nil, fmt.Errorf("list availability: %w", err)
	}

	return GroupByDate(slots), nil
}

// GroupByDate группирует слоты по дате (по возрастанию), метки внутри дня отсортированы
func GroupByDate(slots []*model.AvailabilitySlot) []model.DaySchedule {
	byDate := make(map[string]*model.DaySchedule)
	var dates []string

	for _, slot := range slots {
		key := slot.Date.Format(model.DateLayout)
		day, ok := byDate[key]
		if !ok {
			day = &model.DaySchedule{Date: key, Available: []string{}, Booked: []string{}}
			byDate[key] = day
			dates = append(dates, key)
		}

		switch slot.Status {
		case model.SlotStatusAvailable:
			day.Available = append(day.Available, slot.TimeSlot)
		case model.SlotStatusBooked:
			day.Booked = append(day.Booked, slot.TimeSlot)
		}
	}

	sort.Strings(dates)
	result := make([]model.DaySchedule, 0, len(dates))
	for _, d := range dates {
		day := byDate[d]
		sort.Strings(day.Available)
		sort.Strings(day.Booked)
		result = append(result, *day)
	}

	return result
}
