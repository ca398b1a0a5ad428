package models

import "time"

// NotificationKind tells where a notification came from.
type NotificationKind string

const (
	NotificationTask     NotificationKind = "task"
	NotificationReminder NotificationKind = "reminder"
)

// Notification is an in-app alert.
type Notification struct {
	ID        string           `json:"id"`
	Kind      NotificationKind `json:"kind"`
	SourceID  string           `json:"sourceId"`
	Title     string           `json:"title"`
	Body      string           `json:"body"`
	Time      string           `json:"time"`
	IsRead    bool             `json:"isRead"`
	CreatedAt time.Time        `json:"createdAt"`
}
