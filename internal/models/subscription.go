package models

import "time"

// BillingCycle represents the recurrence unit of a subscription.
type BillingCycle string

const (
	BillingCycleMonthly   BillingCycle = "monthly"
	BillingCycleQuarterly BillingCycle = "quarterly"
	BillingCycleYearly    BillingCycle = "yearly"
)

// SubscriptionStatus represents the lifecycle state of a subscription.
type SubscriptionStatus string

const (
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusInactive SubscriptionStatus = "inactive"
)

// Subscription represents a recurring payment obligation.
// NextPayment is derived from StartDate and BillingCycle but stored so that
// list queries and the reminder sweep do not recompute it per row.
type Subscription struct {
	Base
	UserID       string             `gorm:"type:uuid;not null;index" json:"user_id"`
	Name         string             `gorm:"not null" json:"name"`
	Amount       float64            `gorm:"type:decimal(10,2);not null" json:"amount"`
	BillingCycle BillingCycle       `gorm:"type:varchar(10);not null" json:"billing_cycle"`
	Category     string             `json:"category"`
	StartDate    time.Time          `gorm:"not null" json:"start_date"`
	EndDate      *time.Time         `json:"end_date,omitempty"`
	Description  string             `json:"description,omitempty"`
	ReminderDays int                `gorm:"default:3" json:"reminder_days"`
	Status       SubscriptionStatus `gorm:"type:varchar(10);not null;default:active" json:"status"`
	NextPayment  time.Time          `gorm:"not null" json:"next_payment"`

	Payments []Payment `gorm:"foreignKey:SubscriptionID" json:"payments,omitempty"`
}
