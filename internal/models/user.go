package models

import "time"

// Plan represents a user's pricing tier for the app itself.
type Plan string

const (
	PlanFree Plan = "free"
	PlanPaid Plan = "paid"
)

// FreePlanActiveLimit is the maximum number of active subscriptions a
// free-plan user may hold at once. The count is always recomputed from the
// live collection, never kept as a denormalized counter.
const FreePlanActiveLimit = 5

// User represents the user model in the database
type User struct {
	Base
	Email       string     `gorm:"uniqueIndex;not null" json:"email"`
	Password    string     `gorm:"not null" json:"-"`
	Name        string     `json:"name"`
	Plan        Plan       `gorm:"type:varchar(10);default:free" json:"plan"`
	PhotoURL    string     `json:"photo_url,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	Country     string     `json:"country,omitempty"`
	Bio         string     `json:"bio,omitempty"`
	IsActive    bool       `gorm:"default:true" json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`

	Subscriptions []Subscription `gorm:"foreignKey:UserID" json:"subscriptions,omitempty"`
	Categories    []Category     `gorm:"foreignKey:UserID" json:"categories,omitempty"`
	Budgets       []Budget       `gorm:"foreignKey:UserID" json:"budgets,omitempty"`
}
