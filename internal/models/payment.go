package models

import "time"

// PaymentStatus represents the settlement state of a payment record.
type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// Payment is a historical payment record for a subscription. Rows are
// generated by stepping the billing cycle from the start date and are
// cascade-deleted with their subscription.
type Payment struct {
	Base
	SubscriptionID string        `gorm:"type:uuid;not null;index" json:"subscription_id"`
	UserID         string        `gorm:"type:uuid;not null;index" json:"user_id"`
	Amount         float64       `gorm:"type:decimal(10,2);not null" json:"amount"`
	Date           time.Time     `gorm:"not null" json:"date"`
	Status         PaymentStatus `gorm:"type:varchar(10);not null;default:paid" json:"status"`
}
