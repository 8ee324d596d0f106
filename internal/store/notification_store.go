package store

import (
	"subtrackt/internal/models"
)

// NotificationDerived holds aggregates over the notification collection.
type NotificationDerived struct {
	UnreadCount int `json:"unread_count"`
}

// NotificationState is the notification container's full state.
type NotificationState struct {
	Status        Status
	Err           error
	Notifications []models.Notification
	Derived       NotificationDerived
}

// NotificationAction is the closed set of notification-state transitions.
type NotificationAction interface{ isNotificationAction() }

// NotifLoadStarted marks the beginning of a snapshot load.
type NotifLoadStarted struct{}

// NotifSnapshotArrived replaces the collection with an authoritative snapshot.
type NotifSnapshotArrived struct{ Notifications []models.Notification }

// NotifLoadFailed records a load error and resets the collection.
type NotifLoadFailed struct{ Err error }

// NotifAdded inserts a notification, replacing any existing one with the same
// ID. Deterministic IDs make regeneration idempotent.
type NotifAdded struct{ Notification models.Notification }

// NotifMarkedRead flags one notification as read.
type NotifMarkedRead struct{ ID string }

// NotifAllMarkedRead flags every notification as read.
type NotifAllMarkedRead struct{}

// NotifRemoved deletes one notification.
type NotifRemoved struct{ ID string }

// NotifCleared deletes every notification.
type NotifCleared struct{}

func (NotifLoadStarted) isNotificationAction()     {}
func (NotifSnapshotArrived) isNotificationAction() {}
func (NotifLoadFailed) isNotificationAction()      {}
func (NotifAdded) isNotificationAction()           {}
func (NotifMarkedRead) isNotificationAction()      {}
func (NotifAllMarkedRead) isNotificationAction()   {}
func (NotifRemoved) isNotificationAction()         {}
func (NotifCleared) isNotificationAction()         {}

// ReduceNotifications applies one action to the state and recomputes the
// unread count. It never mutates its input.
func ReduceNotifications(state NotificationState, action NotificationAction) NotificationState {
	next := state

	switch a := action.(type) {
	case NotifLoadStarted:
		next.Status = StatusLoading
		next.Err = nil

	case NotifSnapshotArrived:
		next.Status = StatusReady
		next.Err = nil
		next.Notifications = append([]models.Notification(nil), a.Notifications...)

	case NotifLoadFailed:
		next.Status = StatusError
		next.Err = a.Err
		next.Notifications = nil

	case NotifAdded:
		out := make([]models.Notification, 0, len(state.Notifications)+1)
		out = append(out, a.Notification)
		for _, n := range state.Notifications {
			if n.ID != a.Notification.ID {
				out = append(out, n)
			}
		}
		next.Notifications = out

	case NotifMarkedRead:
		out := append([]models.Notification(nil), state.Notifications...)
		for i := range out {
			if out[i].ID == a.ID {
				out[i].IsRead = true
			}
		}
		next.Notifications = out

	case NotifAllMarkedRead:
		out := append([]models.Notification(nil), state.Notifications...)
		for i := range out {
			out[i].IsRead = true
		}
		next.Notifications = out

	case NotifRemoved:
		out := make([]models.Notification, 0, len(state.Notifications))
		for _, n := range state.Notifications {
			if n.ID != a.ID {
				out = append(out, n)
			}
		}
		next.Notifications = out

	case NotifCleared:
		next.Notifications = nil
	}

	unread := 0
	for _, n := range next.Notifications {
		if !n.IsRead {
			unread++
		}
	}
	next.Derived = NotificationDerived{UnreadCount: unread}
	return next
}
