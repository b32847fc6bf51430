package models

import "time"

// DateLayout is the calendar-day format used for entry dates and week windows.
const DateLayout = "2006-01-02"

type EntryType string

const (
	EntryTypeTimer  EntryType = "timer"
	EntryTypeManual EntryType = "manual"
)

// TimeEntry is a closed record of worked time. Entries are never updated in place.
type TimeEntry struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	ProjectID string     `json:"project_id"`
	TaskID    string     `json:"task_id"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
	Duration  int64      `json:"duration"`
	EntryType EntryType  `json:"entry_type"`
	Date      string     `json:"date"`
	Notes     *string    `json:"notes"`
	CreatedAt time.Time  `json:"created_at"`
}

type TimerSession struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	ProjectID     string    `json:"project_id"`
	TaskID        string    `json:"task_id"`
	StartTime     time.Time `json:"start_time"`
	LastHeartbeat time.Time `json:"last_heartbeat"`
	IsActive      bool      `json:"is_active"`
	Date          string    `json:"date"`
}
