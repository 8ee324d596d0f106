package services

import (
	"time"

	"gorm.io/gorm"

	"subtrackt/internal/store"
)

// gormSnapshotSource reads a user's full record set for the state containers.
type gormSnapshotSource struct {
	db *gorm.DB
}

// NewSnapshotSource creates a store.SnapshotSource backed by the database.
func NewSnapshotSource(db *gorm.DB) store.SnapshotSource {
	return &gormSnapshotSource{db: db}
}

// Snapshot loads subscriptions, categories, the current period's budget
// records and notifications for one user.
func (s *gormSnapshotSource) Snapshot(userID string) (store.Snapshot, error) {
	var snap store.Snapshot
	now := time.Now()

	if err := s.db.Where("user_id = ?", userID).Find(&snap.Subscriptions).Error; err != nil {
		return store.Snapshot{}, err
	}
	if err := s.db.Where("user_id = ?", userID).Find(&snap.Categories).Error; err != nil {
		return store.Snapshot{}, err
	}
	if err := s.db.Where("user_id = ? AND month = ? AND year = ?", userID, int(now.Month()), now.Year()).
		Find(&snap.Budgets).Error; err != nil {
		return store.Snapshot{}, err
	}
	if err := s.db.Where("user_id = ?", userID).Order("created_at desc").Find(&snap.Notifications).Error; err != nil {
		return store.Snapshot{}, err
	}
	return snap, nil
}
