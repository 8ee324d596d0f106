package models

// Budget is an explicit monthly ceiling record for a category, upserted per
// (category, month, year). It coexists with Category.Budget; which one wins
// is an explicit evaluator parameter, not a guess.
type Budget struct {
	Base
	UserID     string  `gorm:"type:uuid;not null;uniqueIndex:idx_budget_period" json:"user_id"`
	CategoryID string  `gorm:"type:uuid;not null;uniqueIndex:idx_budget_period" json:"category_id"`
	Amount     float64 `gorm:"type:decimal(10,2);not null" json:"amount"`
	Spent      float64 `gorm:"type:decimal(10,2);default:0" json:"spent"`
	Month      int     `gorm:"not null;uniqueIndex:idx_budget_period" json:"month"`
	Year       int     `gorm:"not null;uniqueIndex:idx_budget_period" json:"year"`

	Category Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
