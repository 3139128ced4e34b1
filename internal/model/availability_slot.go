package model

import "time"

type SlotStatus string

const (
	SlotStatusAvailable SlotStatus = "available"
	SlotStatusBooked    SlotStatus = "booked"
)

// AvailabilitySlot одна ячейка расписания ассистента: дата + метка времени
type AvailabilitySlot struct {
	ID          int64      `json:"id"`
	AssistantID int64      `json:"assistant_id"`
	Date        time.Time  `json:"date"`      // только дата, время 00:00 UTC
	TimeSlot    string     `json:"time_slot"` // "HH:MM"
	Status      SlotStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
}

// DaySchedule слоты ассистента за один день, разбитые по статусу
type DaySchedule struct {
	Date      string   `json:"date"`
	Available []string `json:"available_slots"`
	Booked    []string `json:"booked_slots"`
}
