package model

// AssistantCard ассистент в списке для студента
type AssistantCard struct {
	ID             int64    `json:"id"`
	Fullname       string   `json:"fullname"`
	Subject        *string  `json:"subject"`
	AvgRating      float64  `json:"avg_rating"`
	PhotoURL       *string  `json:"photo_url"`
	AvailableSlots []string `json:"available_slots"`
}

type AssistantStats struct {
	AssistantID   int64   `json:"assistant_id"`
	Fullname      string  `json:"fullname"`
	Subject       *string `json:"subject"`
	PhotoURL      *string `json:"photo_url"`
	AvgRating     float64 `json:"avg_rating"`
	TotalSessions int64   `json:"total_sessions"`
}

type SubjectPopularity struct {
	Subject      *string `json:"subject"`
	BookingCount int64   `json:"booking_count"`
}

type PeakHour struct {
	Hour         int   `json:"hour"`
	SessionCount int64 `json:"session_count"`
}

type CenterTotals struct {
	SessionsThisMonth int64 `json:"sessions_this_month"`
	ActiveStudents    int64 `json:"active_students"`
	ActiveAssistants  int64 `json:"active_assistants"`
}

// CenterStats сводка по центру для дашборда менеджера
type CenterStats struct {
	Assistants      []AssistantStats    `json:"assistants"`
	PopularSubjects []SubjectPopularity `json:"popular_subjects"`
	PeakHours       []PeakHour          `json:"peak_hours"`
	Totals          CenterTotals        `json:"center_totals"`
}
