package store

import (
	"sync"

	"subtrackt/internal/logger"
	"subtrackt/internal/models"
)

// Container bundles the three per-user state machines behind one mutex and
// drives them from a SnapshotSource. Reads return copies of the state; callers
// never hold references into the container's slices.
type Container struct {
	mu     sync.Mutex
	userID string
	source SnapshotSource
	clock  Clock

	subscriptions SubscriptionState
	budgets       BudgetState
	notifications NotificationState
}

// NewContainer builds an uninitialized container for one user. A nil clock
// defaults to SystemClock.
func NewContainer(userID string, source SnapshotSource, clock Clock) *Container {
	if clock == nil {
		clock = SystemClock
	}
	return &Container{
		userID: userID,
		source: source,
		clock:  clock,
		subscriptions: SubscriptionState{Status: StatusUninitialized},
		budgets:       BudgetState{Status: StatusUninitialized},
		notifications: NotificationState{Status: StatusUninitialized},
	}
}

// Refresh pulls an authoritative snapshot and pushes it through every
// reducer. On failure each machine transitions to error and drops its
// collection.
func (c *Container) Refresh() error {
	c.mu.Lock()
	now := c.clock()
	c.subscriptions = ReduceSubscriptions(c.subscriptions, SubLoadStarted{}, now)
	c.budgets = ReduceBudgets(c.budgets, BudgetLoadStarted{})
	c.notifications = ReduceNotifications(c.notifications, NotifLoadStarted{})
	c.mu.Unlock()

	snap, err := c.source.Snapshot(c.userID)

	c.mu.Lock()
	defer c.mu.Unlock()
	now = c.clock()
	if err != nil {
		logger.Get().Warnw("snapshot load failed", "user_id", c.userID, "error", err)
		c.subscriptions = ReduceSubscriptions(c.subscriptions, SubLoadFailed{Err: err}, now)
		c.budgets = ReduceBudgets(c.budgets, BudgetLoadFailed{Err: err})
		c.notifications = ReduceNotifications(c.notifications, NotifLoadFailed{Err: err})
		return err
	}
	c.subscriptions = ReduceSubscriptions(c.subscriptions, SubSnapshotArrived{Subscriptions: snap.Subscriptions}, now)
	c.budgets = ReduceBudgets(c.budgets, BudgetSnapshotArrived{Categories: snap.Categories, Budgets: snap.Budgets})
	c.notifications = ReduceNotifications(c.notifications, NotifSnapshotArrived{Notifications: snap.Notifications})
	return nil
}

// DispatchSubscription applies an optimistic subscription action.
func (c *Container) DispatchSubscription(action SubscriptionAction) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscriptions = ReduceSubscriptions(c.subscriptions, action, c.clock())
}

// DispatchBudget applies an optimistic category/budget action.
func (c *Container) DispatchBudget(action BudgetAction) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.budgets = ReduceBudgets(c.budgets, action)
}

// DispatchNotification applies an optimistic notification action.
func (c *Container) DispatchNotification(action NotificationAction) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notifications = ReduceNotifications(c.notifications, action)
}

// Subscriptions returns a copy of the subscription state.
func (c *Container) Subscriptions() SubscriptionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	state := c.subscriptions
	state.Subscriptions = append([]models.Subscription(nil), state.Subscriptions...)
	return state
}

// Budgets returns a copy of the budget state.
func (c *Container) Budgets() BudgetState {
	c.mu.Lock()
	defer c.mu.Unlock()
	state := c.budgets
	state.Categories = append([]models.Category(nil), state.Categories...)
	state.Budgets = append([]models.Budget(nil), state.Budgets...)
	return state
}

// Notifications returns a copy of the notification state.
func (c *Container) Notifications() NotificationState {
	c.mu.Lock()
	defer c.mu.Unlock()
	state := c.notifications
	state.Notifications = append([]models.Notification(nil), state.Notifications...)
	return state
}

// Registry hands out one Container per user.
type Registry struct {
	mu         sync.Mutex
	source     SnapshotSource
	clock      Clock
	containers map[string]*Container
}

// NewRegistry builds an empty registry backed by the given source.
func NewRegistry(source SnapshotSource, clock Clock) *Registry {
	return &Registry{
		source:     source,
		clock:      clock,
		containers: make(map[string]*Container),
	}
}

// GetOrCreate returns the user's container, creating it uninitialized on
// first access.
func (r *Registry) GetOrCreate(userID string) *Container {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.containers[userID]; ok {
		return c
	}
	c := NewContainer(userID, r.source, r.clock)
	r.containers[userID] = c
	return c
}

// Remove drops the user's container, for logout or account deletion.
func (r *Registry) Remove(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.containers, userID)
}
