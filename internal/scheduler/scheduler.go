// Package scheduler runs the daily maintenance sweep: it settles overdue
// payments, rolls next-payment dates forward, refreshes notifications, and
// sends reminder emails when SMTP is configured.
package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"subtrackt/internal/billing"
	"subtrackt/internal/config"
	"subtrackt/internal/email"
	"subtrackt/internal/logger"
	"subtrackt/internal/models"
	"subtrackt/internal/services"
)

// Scheduler owns the cron runner and the sweep job.
type Scheduler struct {
	cron                *cron.Cron
	db                  *gorm.DB
	notificationService services.NotificationServicer
	sender              *email.Sender
}

// New creates a Scheduler with the sweep registered on the configured spec.
func New(cfg *config.Config, db *gorm.DB, notificationService services.NotificationServicer, sender *email.Sender) (*Scheduler, error) {
	s := &Scheduler{
		cron:                cron.New(),
		db:                  db,
		notificationService: notificationService,
		sender:              sender,
	}
	if _, err := s.cron.AddFunc(cfg.SweepSchedule, s.Sweep); err != nil {
		return nil, err
	}
	return s, nil
}

// Start begins running scheduled jobs in their own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Get().Infow("scheduler started")
}

// Stop halts the cron runner and waits for a running sweep to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Get().Infow("scheduler stopped")
}

// Sweep performs one maintenance pass over all users. Each step logs and
// continues on error so one bad row cannot starve the rest of the sweep.
func (s *Scheduler) Sweep() {
	now := time.Now()
	log := logger.Get()
	log.Infow("reminder sweep started")

	settled := s.settleOverduePayments(now)

	var users []models.User
	if err := s.db.Find(&users).Error; err != nil {
		log.Errorw("sweep failed to list users", "error", err)
		return
	}

	reminded := 0
	for _, user := range users {
		generated, err := s.notificationService.Regenerate(user.ID)
		if err != nil {
			log.Errorw("sweep failed to regenerate notifications", "user_id", user.ID, "error", err)
			continue
		}
		reminded += s.sendReminders(&user, now)
		reminded += s.sendBudgetAlerts(&user, generated)
	}

	log.Infow("reminder sweep finished",
		"users", len(users),
		"payments_settled", settled,
		"emails_sent", reminded,
	)
}

// settleOverduePayments records a paid payment for every active subscription
// whose next payment date has passed and advances the date by whole cycles
// until it lands in the future.
func (s *Scheduler) settleOverduePayments(now time.Time) int {
	log := logger.Get()

	var overdue []models.Subscription
	if err := s.db.Where("status = ? AND next_payment <= ?", models.SubscriptionStatusActive, now).
		Find(&overdue).Error; err != nil {
		log.Errorw("sweep failed to list overdue subscriptions", "error", err)
		return 0
	}

	settled := 0
	for i := range overdue {
		sub := &overdue[i]
		err := s.db.Transaction(func(tx *gorm.DB) error {
			months := billing.CycleMonths(sub.BillingCycle)
			for d := sub.NextPayment; !d.After(now); d = d.AddDate(0, months, 0) {
				if sub.EndDate != nil && d.After(*sub.EndDate) {
					break
				}
				payment := models.Payment{
					SubscriptionID: sub.ID,
					UserID:         sub.UserID,
					Amount:         sub.Amount,
					Date:           d,
					Status:         models.PaymentStatusPaid,
				}
				if err := tx.Create(&payment).Error; err != nil {
					return err
				}
				settled++
			}
			next := billing.NextPaymentDate(sub.StartDate, sub.BillingCycle, now)
			if err := tx.Model(sub).Update("next_payment", next).Error; err != nil {
				return err
			}
			sub.NextPayment = next
			return nil
		})
		if err != nil {
			log.Errorw("sweep failed to settle subscription", "subscription_id", sub.ID, "error", err)
		}
	}
	return settled
}

// sendReminders emails the user about active subscriptions due within their
// per-subscription reminder window. Returns the number of emails sent.
func (s *Scheduler) sendReminders(user *models.User, now time.Time) int {
	if !s.sender.Enabled() {
		return 0
	}
	log := logger.Get()

	var subs []models.Subscription
	if err := s.db.Where("user_id = ? AND status = ?", user.ID, models.SubscriptionStatusActive).
		Find(&subs).Error; err != nil {
		log.Errorw("sweep failed to list subscriptions", "user_id", user.ID, "error", err)
		return 0
	}

	sent := 0
	for i := range subs {
		sub := &subs[i]
		daysUntil := int(sub.NextPayment.Sub(now).Hours() / 24)
		if daysUntil < 0 || daysUntil > sub.ReminderDays {
			continue
		}
		if err := s.sender.SendPaymentReminder(user.Email, user.Name, sub, daysUntil); err != nil {
			continue
		}
		sent++
	}
	return sent
}

// sendBudgetAlerts emails the user about danger-band budget notifications
// produced by the regeneration pass.
func (s *Scheduler) sendBudgetAlerts(user *models.User, generated []models.Notification) int {
	if !s.sender.Enabled() {
		return 0
	}

	sent := 0
	for i := range generated {
		n := &generated[i]
		if n.Type != models.NotificationTypeBudget || n.Severity != models.SeverityDanger {
			continue
		}
		if err := s.sender.SendBudgetAlert(user.Email, user.Name, n); err != nil {
			continue
		}
		sent++
	}
	return sent
}
