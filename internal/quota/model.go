package quota

import "time"

// Record is the single quota document tracked per identity. The rolling
// 7-day window is anchored to FirstTranslationDate, not to the calendar
// week; WeekStartDate is informational only.
type Record struct {
	GuestUsed            int        `json:"guest_used"`
	UserUsed             int        `json:"user_used"`
	WeekStartDate        time.Time  `json:"week_start_date"`
	FirstTranslationDate *time.Time `json:"first_translation_date,omitempty"`
}

// Status is the answer to "may this identity perform one more translation".
type Status struct {
	Allowed        bool `json:"allowed"`
	Remaining      int  `json:"remaining"`
	Total          int  `json:"total"`
	IsWeeklyLimit  bool `json:"is_weekly_limit"`
	DaysUntilReset int  `json:"days_until_reset"`
}
