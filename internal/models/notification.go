package models

import "time"

// NotificationType classifies what a notification is about.
type NotificationType string

const (
	NotificationTypePayment      NotificationType = "payment"
	NotificationTypeRenewal      NotificationType = "renewal"
	NotificationTypeCancellation NotificationType = "cancellation"
	NotificationTypeBudget       NotificationType = "budget"
)

// Severity is the band a budget alert falls into, ordered by how far spend
// has exceeded budget.
type Severity string

const (
	SeverityCaution Severity = "caution"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

// Notification is a derived signal (budget threshold crossed, payment or
// renewal imminent, subscription cancelled). The ID is deterministic per
// (category, severity) or (subscription, days-remaining) so regeneration
// upserts instead of duplicating.
type Notification struct {
	ID        string           `gorm:"primaryKey" json:"id"`
	UserID    string           `gorm:"type:uuid;not null;index" json:"user_id"`
	Type      NotificationType `gorm:"type:varchar(15);not null" json:"type"`
	Severity  Severity         `gorm:"type:varchar(10)" json:"severity,omitempty"`
	Title     string           `gorm:"not null" json:"title"`
	Message   string           `gorm:"not null" json:"message"`
	RelatedID string           `json:"related_id,omitempty"`
	IsRead    bool             `gorm:"default:false" json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}
