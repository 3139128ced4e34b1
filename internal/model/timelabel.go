package model

import (
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// ParseDate parses a "YYYY-MM-DD" label into midnight UTC.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return d, nil
}

// ParseTimeLabel проверяет метку "HH:MM" и возвращает её в каноническом виде ("9:00" -> "09:00")
func ParseTimeLabel(s string) (string, error) {
	t, err := time.Parse(TimeLayout, strings.TrimSpace(s))
	if err != nil {
		// допускаем однозначную запись без ведущего нуля
		t, err = time.Parse("15:4", strings.TrimSpace(s))
		if err != nil {
			return "", fmt.Errorf("invalid time slot %q: expected HH:MM", s)
		}
	}
	return t.Format(TimeLayout), nil
}

// NormalizeWhen drops the zone and everything below minutes: scheduled instants are wall-clock minutes.
func NormalizeWhen(when time.Time) time.Time {
	return time.Date(when.Year(), when.Month(), when.Day(), when.Hour(), when.Minute(), 0, 0, time.UTC)
}

// SplitWhen раскладывает момент занятия на дату слота и метку времени
func SplitWhen(when time.Time) (time.Time, string) {
	w := NormalizeWhen(when)
	date := time.Date(w.Year(), w.Month(), w.Day(), 0, 0, 0, 0, time.UTC)
	return date, w.Format(TimeLayout)
}

// CombineSlot собирает момент занятия из даты и метки слота
func CombineSlot(date time.Time, label string) (time.Time, error) {
	t, err := time.Parse(TimeLayout, label)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time slot %q: %w", label, err)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC), nil
}

var whenLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseWhen разбирает момент занятия. Смещение зоны, если есть, отбрасывается:
// важно только настенное время.
func ParseWhen(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range whenLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return NormalizeWhen(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid datetime %q: expected YYYY-MM-DD HH:MM", s)
}
