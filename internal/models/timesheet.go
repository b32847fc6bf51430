package models

import "time"

type TimesheetStatus string

const (
	TimesheetStatusDraft     TimesheetStatus = "draft"
	TimesheetStatusSubmitted TimesheetStatus = "submitted"
	TimesheetStatusApproved  TimesheetStatus = "approved"
	TimesheetStatusDenied    TimesheetStatus = "denied"
)

func (s TimesheetStatus) Valid() bool {
	switch s {
	case TimesheetStatusDraft, TimesheetStatusSubmitted, TimesheetStatusApproved, TimesheetStatusDenied:
		return true
	}
	return false
}

// Locked reports whether a timesheet in this status rejects another submission.
func (s TimesheetStatus) Locked() bool {
	return s == TimesheetStatusSubmitted || s == TimesheetStatusApproved
}

type Timesheet struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id"`
	WeekStart    string          `json:"week_start"`
	WeekEnd      string          `json:"week_end"`
	TotalHours   float64         `json:"total_hours"`
	Status       TimesheetStatus `json:"status"`
	SubmittedAt  *time.Time      `json:"submitted_at"`
	ReviewedAt   *time.Time      `json:"reviewed_at"`
	ReviewedBy   *string         `json:"reviewed_by"`
	AdminComment *string         `json:"admin_comment"`
	CreatedAt    time.Time       `json:"created_at"`
}
