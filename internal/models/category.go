package models

// Category represents a user-defined spending bucket.
// Budget is the embedded monthly ceiling; a per-period Budget record may
// override it for a given month depending on the evaluator's budget source.
type Category struct {
	Base
	UserID string  `gorm:"type:uuid;not null;index" json:"user_id"`
	Name   string  `gorm:"not null" json:"name"`
	Budget float64 `gorm:"type:decimal(10,2);default:0" json:"budget"`
	Color  string  `gorm:"type:varchar(7)" json:"color"`
}
