package model

import (
	"fmt"
	"time"
)

type SessionStatus string

const (
	SessionStatusBooked    SessionStatus = "booked"
	SessionStatusCompleted SessionStatus = "completed"
	// SessionStatusCancelled is part of the stored domain but no operation produces it yet.
	SessionStatusCancelled SessionStatus = "cancelled"
)

// Terminal reports whether no further transition is allowed from s.
func (s SessionStatus) Terminal() bool {
	switch s {
	case SessionStatusCompleted, SessionStatusCancelled:
		return true
	case SessionStatusBooked:
		return false
	default:
		return false
	}
}

type Attendance string

const (
	AttendancePresent Attendance = "present"
	AttendanceAbsent  Attendance = "absent"
)

// ParseAttendance accepts only "present" and "absent".
func ParseAttendance(s string) (Attendance, error) {
	switch a := Attendance(s); a {
	case AttendancePresent, AttendanceAbsent:
		return a, nil
	default:
		return "", fmt.Errorf("invalid attendance %q", s)
	}
}

// Session занятие студента с ассистентом, привязанное к одному слоту
type Session struct {
	ID          int64         `json:"id"`
	StudentID   int64         `json:"student_id"`
	AssistantID int64         `json:"assistant_id"`
	ScheduledAt time.Time     `json:"scheduled_at"`
	Status      SessionStatus `json:"status"`
	Attendance  *Attendance   `json:"attendance"`
	CreatedAt   time.Time     `json:"created_at"`
}

// Period фильтр списков занятий относительно текущего момента
type Period string

const (
	PeriodUpcoming Period = "upcoming"
	PeriodPast     Period = "past"
)

// ParsePeriod defaults anything other than "past" to upcoming, like the old API did.
func ParsePeriod(s string) Period {
	if Period(s) == PeriodPast {
		return PeriodPast
	}
	return PeriodUpcoming
}

// AssistantSessionView занятие глазами ассистента
type AssistantSessionView struct {
	SessionID    int64         `json:"id"`
	ScheduledAt  time.Time     `json:"scheduled_at"`
	Status       SessionStatus `json:"status"`
	StudentID    int64         `json:"student_id"`
	StudentName  string        `json:"student_name"`
	StudentPhone string        `json:"student_phone"`
	StudentPhoto *string       `json:"student_photo"`
	Attendance   *Attendance   `json:"attendance"`
}

// StudentSessionView занятие глазами студента, вместе с его оценкой
type StudentSessionView struct {
	SessionID      int64         `json:"id"`
	ScheduledAt    time.Time     `json:"scheduled_at"`
	Status         SessionStatus `json:"status"`
	AssistantID    int64         `json:"assistant_id"`
	AssistantName  string        `json:"assistant_name"`
	AssistantPhoto *string       `json:"assistant_photo"`
	Attendance     *Attendance   `json:"attendance"`
	MyRating       *Rating       `json:"my_rating"`
}
