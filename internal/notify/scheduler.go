package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"subtrack/internal/entity"
	"subtrack/internal/format"
)

// Reminders fire at a fixed local time of day.
const reminderHour = 9

// Scheduler keeps at most one pending reminder per subscription registered
// with the center, and tracks the center's authorization state.
type Scheduler struct {
	center Center
	log    *slog.Logger
	now    func() time.Time

	mu     sync.Mutex
	status AuthorizationStatus
}

func NewScheduler(center Center, log *slog.Logger) *Scheduler {
	return &Scheduler{
		center: center,
		log:    log,
		now:    time.Now,
		status: AuthorizationNotDetermined,
	}
}

// RefreshAuthorization re-reads the permission state from the center. Called
// on startup and after every permission request.
func (s *Scheduler) RefreshAuthorization(ctx context.Context) {
	status, err := s.center.AuthorizationStatus(ctx)
	if err != nil {
		s.log.Warn("reading notification authorization failed", "error", err)
		return
	}
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
}

// HasAuthorization reports whether reminders may be scheduled; provisional
// grants count.
func (s *Scheduler) HasAuthorization() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status == AuthorizationAuthorized || s.status == AuthorizationProvisional
}

// AuthorizationState returns the last refreshed permission state.
func (s *Scheduler) AuthorizationState() AuthorizationStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// RequestPermission asks the center for authorization. A request failure is
// reported as a plain denial.
func (s *Scheduler) RequestPermission(ctx context.Context) bool {
	granted, err := s.center.RequestAuthorization(ctx)
	if err != nil {
		s.log.Warn("notification permission request failed", "error", err)
		return false
	}
	s.RefreshAuthorization(ctx)
	return granted
}

// ScheduleAll clears every pending reminder, then schedules one per active
// subscription.
func (s *Scheduler) ScheduleAll(ctx context.Context, subs []entity.Subscription) {
	s.center.RemoveAll(ctx)
	for _, sub := range subs {
		if sub.IsActive {
			s.Schedule(ctx, sub)
		}
	}
}

// Schedule registers the reminder for one subscription, replacing any pending
// one for the same id. Inactive subscriptions, subscriptions without a
// reminder offset, and triggers not strictly in the future are skipped.
func (s *Scheduler) Schedule(ctx context.Context, sub entity.Subscription) {
	s.Remove(ctx, sub.ID)
	if !sub.IsActive || sub.ReminderOffsetDays == nil {
		return
	}

	trigger := triggerAt(sub.NextChargeDate, *sub.ReminderOffsetDays)
	if !trigger.After(s.now()) {
		return
	}

	req := Request{
		ID:     Identifier(sub.ID),
		FireAt: trigger,
		Body:   reminderBody(sub),
	}
	if err := s.center.Add(ctx, req); err != nil {
		s.log.Warn("scheduling reminder failed", "id", sub.ID, "error", err)
	}
}

// Remove cancels the pending reminder for one subscription id.
func (s *Scheduler) Remove(ctx context.Context, id uuid.UUID) {
	s.center.Remove(ctx, Identifier(id))
}

// CancelAll clears every pending reminder.
func (s *Scheduler) CancelAll(ctx context.Context) {
	s.center.RemoveAll(ctx)
}

// triggerAt computes the reminder instant: offset days before the charge
// date, at 09:00 in the charge date's zone.
func triggerAt(chargeDate time.Time, offsetDays int) time.Time {
	day := chargeDate.AddDate(0, 0, -offsetDays)
	return time.Date(day.Year(), day.Month(), day.Day(), reminderHour, 0, 0, 0, day.Location())
}

func reminderBody(sub entity.Subscription) string {
	var prefix string
	switch offset := *sub.ReminderOffsetDays; {
	case offset == 0:
		prefix = "Charge today"
	case offset == 1:
		prefix = "Charge tomorrow"
	default:
		prefix = "Charge soon"
	}
	return fmt.Sprintf("%s: %s – %s kr", prefix, sub.DisplayName(), format.Amount(sub.Price))
}
