package models

import "time"

type NotificationType string

const (
	NotificationTimesheetSubmitted NotificationType = "timesheet_submitted"
	NotificationTimesheetApproved  NotificationType = "timesheet_approved"
	NotificationTimesheetDenied    NotificationType = "timesheet_denied"
)

type Notification struct {
	ID                 string           `json:"id"`
	UserID             string           `json:"user_id"`
	Type               NotificationType `json:"type"`
	Title              string           `json:"title"`
	Message            string           `json:"message"`
	Read               bool             `json:"read"`
	RelatedTimesheetID *string          `json:"related_timesheet_id"`
	CreatedAt          time.Time        `json:"created_at"`
}

// OutboxMessage is a notification intent written in the same transaction as the
// state change that caused it. Delivery turns it into a Notification with the same ID.
type OutboxMessage struct {
	ID                 string
	RecipientID        string
	Type               NotificationType
	Title              string
	Message            string
	RelatedTimesheetID *string
	Attempts           int
	LastError          *string
	DeliveredAt        *time.Time
	CreatedAt          time.Time
}
