package models

import (
	"encoding/json"
	"time"
)

type NotificationKind string

const (
	KindInfo     NotificationKind = "info"
	KindWarning  NotificationKind = "warning"
	KindError    NotificationKind = "error"
	KindSuccess  NotificationKind = "success"
	KindCritical NotificationKind = "critical"
)

type NotificationChannel string

const (
	ChannelEmail     NotificationChannel = "email"
	ChannelSMS       NotificationChannel = "sms"
	ChannelPush      NotificationChannel = "push"
	ChannelDashboard NotificationChannel = "dashboard"
	ChannelWebhook   NotificationChannel = "webhook"
)

type NotificationStatus string

const (
	StatusPending   NotificationStatus = "pending"
	StatusSent      NotificationStatus = "sent"
	StatusDelivered NotificationStatus = "delivered"
	StatusFailed    NotificationStatus = "failed"
	StatusRead      NotificationStatus = "read"
)

// Priority bounds for a notification; 5 is the most urgent.
const (
	PriorityMin = 1
	PriorityMax = 5
)

type Notification struct {
	ID          string              `json:"id" db:"id"`
	Title       string              `json:"title" db:"title"`
	Message     string              `json:"message" db:"message"`
	Kind        NotificationKind    `json:"kind" db:"kind"`
	Channel     NotificationChannel `json:"channel" db:"channel"`
	Status      NotificationStatus  `json:"status" db:"status"`
	Priority    int                 `json:"priority" db:"priority"`
	Metadata    json.RawMessage     `json:"metadata,omitempty" db:"metadata"`
	RecipientID string              `json:"recipient_id" db:"recipient_id"`
	CreatedBy   string              `json:"created_by,omitempty" db:"created_by"`
	ScheduledAt *time.Time          `json:"scheduled_at,omitempty" db:"scheduled_at"`
	SentAt      *time.Time          `json:"sent_at,omitempty" db:"sent_at"`
	DeliveredAt *time.Time          `json:"delivered_at,omitempty" db:"delivered_at"`
	ReadAt      *time.Time          `json:"read_at,omitempty" db:"read_at"`
	CreatedAt   time.Time           `json:"created_at" db:"created_at"`
}

// NotificationStats summarizes a single recipient's records.
type NotificationStats struct {
	Total  int64                      `json:"total_notifications"`
	Unread int64                      `json:"unread_notifications"`
	ByKind map[NotificationKind]int64 `json:"by_type"`
}

func IsValidKind(kind NotificationKind) bool {
	switch kind {
	case KindInfo, KindWarning, KindError, KindSuccess, KindCritical:
		return true
	}
	return false
}

func IsValidChannel(channel NotificationChannel) bool {
	switch channel {
	case ChannelEmail, ChannelSMS, ChannelPush, ChannelDashboard, ChannelWebhook:
		return true
	}
	return false
}

func IsValidPriority(priority int) bool {
	return priority >= PriorityMin && priority <= PriorityMax
}

// IsTerminal reports whether no further automatic transition may leave the status.
func (s NotificationStatus) IsTerminal() bool {
	return s == StatusRead || s == StatusFailed
}
