package domain

import (
	"errors"
	"time"
)

// NotificationType is the closed set of notification kinds. Unknown
// types are rejected at the store boundary.
type NotificationType string

const (
	NotificationRequestReceived  NotificationType = "request_received"
	NotificationRequestAccepted  NotificationType = "request_accepted"
	NotificationRequestRejected  NotificationType = "request_rejected"
	NotificationRequestWithdrawn NotificationType = "request_withdrawn"
)

var ErrUnknownNotificationType = errors.New("unknown notification type")

// Valid reports whether t is one of the known notification types.
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationRequestReceived,
		NotificationRequestAccepted,
		NotificationRequestRejected,
		NotificationRequestWithdrawn:
		return true
	}
	return false
}

// Notification is a durable per-user notification. Realtime delivery is
// best-effort; this record is what the recipient reads on next fetch.
type Notification struct {
	ID         string           `gorm:"primaryKey;size:36" json:"id"`
	UserID     string           `gorm:"size:64;index" json:"userId"`
	Type       NotificationType `gorm:"size:32" json:"type"`
	Message    string           `gorm:"type:text" json:"message"`
	RoomID     string           `gorm:"size:64" json:"roomId"`
	RoomNumber string           `gorm:"size:32" json:"roomNumber"`
	Read       bool             `gorm:"column:is_read;not null;default:false" json:"read"`
	CreatedAt  time.Time        `json:"createdAt"`
}
