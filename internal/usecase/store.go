package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"subtrack/internal/entitlement"
	"subtrack/internal/entity"
	"subtrack/internal/format"
	"subtrack/internal/notify"
)

// How long a transient feedback message stays visible.
const defaultFeedbackWindow = 2200 * time.Millisecond

// Event describes a state change observers may react to.
type Event int

const (
	EventSubscriptionsChanged Event = iota
	EventPreferencesChanged
	EventFeedbackChanged
)

// Store owns the in-memory subscription list and coordinates persistence,
// reminder scheduling, monthly snapshots and the insight rule. All public
// operations serialize on one mutex; collaborators never call back in.
type Store struct {
	log       *slog.Logger
	repo      SubscriptionRepository
	prefs     PreferenceRepository
	scheduler *notify.Scheduler
	gate      *entitlement.Gate

	mu                        sync.Mutex
	subs                      []entity.Subscription
	snapshots                 []entity.MonthlySnapshot
	notificationsEnabled      bool
	defaultReminderOffsetDays int
	lastInsightShown          string
	feedback                  string
	listeners                 []func(Event)

	now            func() time.Time
	feedbackWindow time.Duration
}

// NewStore loads preferences, snapshots and the subscription list. A failing
// or corrupt subscription file degrades to an empty list; preferences fall
// back to their defaults.
func NewStore(ctx context.Context, repo SubscriptionRepository, prefs PreferenceRepository,
	scheduler *notify.Scheduler, gate *entitlement.Gate, log *slog.Logger) *Store {

	s := &Store{
		log:                       log,
		repo:                      repo,
		prefs:                     prefs,
		scheduler:                 scheduler,
		gate:                      gate,
		notificationsEnabled:      true,
		defaultReminderOffsetDays: 1,
		now:                       time.Now,
		feedbackWindow:            defaultFeedbackWindow,
	}

	s.readPreference(KeyNotificationsEnabled, &s.notificationsEnabled)
	s.readPreference(KeyDefaultReminderOffsetDays, &s.defaultReminderOffsetDays)
	if s.defaultReminderOffsetDays < 0 {
		s.defaultReminderOffsetDays = 1
	}
	s.readPreference(KeyMonthlySnapshots, &s.snapshots)
	s.readPreference(KeyLastMonthlyInsightShown, &s.lastInsightShown)

	subs, err := repo.Load(ctx)
	if err != nil {
		log.Warn("loading subscriptions failed, starting empty", "error", err)
		subs = nil
	}
	if subs == nil {
		subs = []entity.Subscription{}
	}
	s.subs = subs
	return s
}

func (s *Store) readPreference(key string, out any) {
	if _, err := s.prefs.Get(key, out); err != nil {
		s.log.Warn("reading preference failed", "key", key, "error", err)
	}
}

// AddListener registers an observer for store events. Listeners are invoked
// synchronously after the mutation completes, outside the store lock.
func (s *Store) AddListener(fn func(Event)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

func (s *Store) emit(events ...Event) {
	s.mu.Lock()
	listeners := make([]func(Event), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()
	for _, ev := range events {
		for _, fn := range listeners {
			fn(ev)
		}
	}
}

// Add appends a new subscription, persists, schedules its reminder when
// allowed and re-evaluates the monthly snapshot and insight rule. An active
// add past the free-tier cap is rejected unless pro is unlocked.
func (s *Store) Add(ctx context.Context, sub entity.Subscription) error {
	s.mu.Lock()
	if sub.ID == uuid.Nil || sub.Price.IsNegative() {
		s.mu.Unlock()
		return ErrInvalidSubscription
	}
	if s.indexLocked(sub.ID) >= 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrDuplicateID, sub.ID)
	}
	if sub.IsActive && !s.gate.AllowsAdd(len(s.activeLocked())) {
		s.mu.Unlock()
		return ErrFreeLimitReached
	}

	prevTotal := s.totalLocked()
	now := s.now()
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = now
	}
	sub.UpdatedAt = now
	if sub.BillingCycle == "" {
		sub.BillingCycle = entity.CycleMonthly
	}
	if sub.Currency == "" {
		sub.Currency = entity.DefaultCurrency
	}

	s.subs = append(s.subs, sub)
	s.persistLocked(ctx)
	s.scheduleIfAllowedLocked(ctx, sub)
	feedback := s.finishMutationLocked(prevTotal)
	s.mu.Unlock()

	s.emit(eventsForMutation(feedback)...)
	return nil
}

// Update replaces the record with the same id, preserving id and createdAt.
// An unknown id is a no-op: the caller is responsible for editing existing
// entries only. Deactivating a subscription cancels its reminder and reports
// the monthly amount saved.
func (s *Store) Update(ctx context.Context, sub entity.Subscription) error {
	s.mu.Lock()
	if sub.Price.IsNegative() {
		s.mu.Unlock()
		return ErrInvalidSubscription
	}
	idx := s.indexLocked(sub.ID)
	if idx < 0 {
		s.mu.Unlock()
		s.log.Debug("update of unknown subscription ignored", "id", sub.ID)
		return nil
	}

	prevTotal := s.totalLocked()
	old := s.subs[idx]
	sub.CreatedAt = old.CreatedAt
	sub.UpdatedAt = s.now()
	s.subs[idx] = sub

	s.persistLocked(ctx)
	s.scheduleIfAllowedLocked(ctx, sub)

	feedback := false
	if old.IsActive && !sub.IsActive {
		// The reminder must go away even when scheduling is disabled and the
		// schedule call above was a no-op.
		s.scheduler.Remove(ctx, sub.ID)
		s.setFeedbackLocked(fmt.Sprintf("Saved %s kr per month", format.Amount(sub.Price)))
		feedback = true
	}
	if s.finishMutationLocked(prevTotal) {
		feedback = true
	}
	s.mu.Unlock()

	s.emit(eventsForMutation(feedback)...)
	return nil
}

func eventsForMutation(feedbackChanged bool) []Event {
	events := []Event{EventSubscriptionsChanged}
	if feedbackChanged {
		events = append(events, EventFeedbackChanged)
	}
	return events
}

// Subscription looks up a record by id.
func (s *Store) Subscription(id uuid.UUID) (entity.Subscription, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexLocked(id); idx >= 0 {
		return s.subs[idx], true
	}
	return entity.Subscription{}, false
}

// Subscriptions returns the whole list in insertion order.
func (s *Store) Subscriptions() []entity.Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.Subscription, len(s.subs))
	copy(out, s.subs)
	return out
}

// Active returns the active subscriptions in insertion order.
func (s *Store) Active() []entity.Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeLocked()
}

// ActiveSorted returns the active subscriptions ordered by next charge date.
func (s *Store) ActiveSorted() []entity.Subscription {
	s.mu.Lock()
	active := s.activeLocked()
	s.mu.Unlock()
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].NextChargeDate.Before(active[j].NextChargeDate)
	})
	return active
}

// TotalPerMonth is the exact sum of active prices.
func (s *Store) TotalPerMonth() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalLocked()
}

// AnnualEstimate is the monthly total times twelve.
func (s *Store) AnnualEstimate() decimal.Decimal {
	return s.TotalPerMonth().Mul(decimal.NewFromInt(12))
}

// FreeLimitReached reports whether the active count has reached the free cap.
func (s *Store) FreeLimitReached() bool {
	s.mu.Lock()
	count := len(s.activeLocked())
	s.mu.Unlock()
	return s.gate.FreeLimitReached(count)
}

// FeedbackMessage returns the currently visible transient message, if any.
func (s *Store) FeedbackMessage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.feedback
}

// Snapshots returns the recorded monthly totals.
func (s *Store) Snapshots() []entity.MonthlySnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.MonthlySnapshot, len(s.snapshots))
	copy(out, s.snapshots)
	return out
}

// NotificationsEnabled reports the persisted notification preference.
func (s *Store) NotificationsEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notificationsEnabled
}

// SetNotificationsEnabled persists the preference. Turning it off cancels
// every pending reminder; turning it on re-schedules all reminders when
// authorization is already granted.
func (s *Store) SetNotificationsEnabled(ctx context.Context, enabled bool) {
	s.mu.Lock()
	s.notificationsEnabled = enabled
	s.writePreferenceLocked(KeyNotificationsEnabled, enabled)
	if !enabled {
		s.scheduler.CancelAll(ctx)
	} else if s.scheduler.HasAuthorization() {
		s.scheduler.ScheduleAll(ctx, s.activeLocked())
	}
	s.mu.Unlock()
	s.emit(EventPreferencesChanged)
}

// DefaultReminderOffsetDays reports the persisted default reminder offset.
func (s *Store) DefaultReminderOffsetDays() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.defaultReminderOffsetDays
}

// SetDefaultReminderOffsetDays persists the default offset; negative values
// are clamped to zero.
func (s *Store) SetDefaultReminderOffsetDays(_ context.Context, days int) {
	if days < 0 {
		days = 0
	}
	s.mu.Lock()
	s.defaultReminderOffsetDays = days
	s.writePreferenceLocked(KeyDefaultReminderOffsetDays, days)
	s.mu.Unlock()
	s.emit(EventPreferencesChanged)
}

// DidShowIntro reports whether the one-time intro was shown.
func (s *Store) DidShowIntro() bool {
	var shown bool
	s.readPreference(KeyDidShowIntro, &shown)
	return shown
}

// MarkIntroShown records that the one-time intro was shown.
func (s *Store) MarkIntroShown() {
	s.mu.Lock()
	s.writePreferenceLocked(KeyDidShowIntro, true)
	s.mu.Unlock()
	s.emit(EventPreferencesChanged)
}

// RequestNotificationPermission asks the scheduler for authorization and
// mirrors the grant into the notification preference. A failed request reads
// as denied.
func (s *Store) RequestNotificationPermission(ctx context.Context) bool {
	granted := s.scheduler.RequestPermission(ctx)
	s.SetNotificationsEnabled(ctx, granted)
	return granted
}

// ScheduleAll re-registers reminders for every active subscription.
func (s *Store) ScheduleAll(ctx context.Context) {
	s.mu.Lock()
	active := s.activeLocked()
	s.mu.Unlock()
	s.scheduler.ScheduleAll(ctx, active)
}

func (s *Store) indexLocked(id uuid.UUID) int {
	for i := range s.subs {
		if s.subs[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) activeLocked() []entity.Subscription {
	active := make([]entity.Subscription, 0, len(s.subs))
	for _, sub := range s.subs {
		if sub.IsActive {
			active = append(active, sub)
		}
	}
	return active
}

func (s *Store) totalLocked() decimal.Decimal {
	total := decimal.Zero
	for _, sub := range s.subs {
		if sub.IsActive {
			total = total.Add(sub.Price)
		}
	}
	return total
}

// persistLocked saves the list. The in-memory state stays authoritative on a
// write failure; availability of the UI state wins over strict durability.
func (s *Store) persistLocked(ctx context.Context) {
	if err := s.repo.Save(ctx, s.subs); err != nil {
		s.log.Warn("persisting subscriptions failed", "error", err)
	}
}

func (s *Store) writePreferenceLocked(key string, value any) {
	if err := s.prefs.Set(key, value); err != nil {
		s.log.Warn("persisting preference failed", "key", key, "error", err)
	}
}

func (s *Store) scheduleIfAllowedLocked(ctx context.Context, sub entity.Subscription) {
	if !s.notificationsEnabled || !s.scheduler.HasAuthorization() {
		return
	}
	s.scheduler.Schedule(ctx, sub)
}

// finishMutationLocked runs after every add/update: evaluates the insight
// rule against the pre-mutation total, then upserts the current month's
// snapshot. Reports whether the feedback slot changed.
func (s *Store) finishMutationLocked(prevTotal decimal.Decimal) bool {
	current := s.totalLocked()
	feedback := s.evaluateInsightLocked(prevTotal, current)
	s.upsertSnapshotLocked(current)
	return feedback
}

// evaluateInsightLocked emits the one-per-month spend-decrease message when
// the mutation lowered the total below both the pre-mutation total and the
// previous month's snapshot.
func (s *Store) evaluateInsightLocked(prevTotal, current decimal.Decimal) bool {
	if current.GreaterThanOrEqual(prevTotal) {
		return false
	}

	now := s.now()
	prevYear, prevMonth := previousMonth(now.Year(), now.Month())
	snapshot, ok := s.snapshotLocked(prevYear, prevMonth)
	if !ok || snapshot.TotalPerMonth.IsZero() {
		return false
	}
	if current.GreaterThanOrEqual(snapshot.TotalPerMonth) {
		return false
	}

	percent := decimal.NewFromInt(1).
		Sub(current.Div(snapshot.TotalPerMonth)).
		Mul(decimal.NewFromInt(100)).
		Round(0)
	if percent.LessThanOrEqual(decimal.Zero) {
		return false
	}

	key := entity.MonthKey(now.Year(), now.Month())
	if s.lastInsightShown == key {
		return false
	}

	s.setFeedbackLocked(fmt.Sprintf("Monthly spend down %s%% from last month", percent))
	s.lastInsightShown = key
	s.writePreferenceLocked(KeyLastMonthlyInsightShown, key)
	return true
}

func (s *Store) snapshotLocked(year int, month time.Month) (entity.MonthlySnapshot, bool) {
	for _, snap := range s.snapshots {
		if snap.Year == year && snap.Month == int(month) {
			return snap, true
		}
	}
	return entity.MonthlySnapshot{}, false
}

// upsertSnapshotLocked records the current total for the current month,
// overwriting an existing snapshot for the same month.
func (s *Store) upsertSnapshotLocked(total decimal.Decimal) {
	now := s.now()
	year, month := now.Year(), int(now.Month())
	replaced := false
	for i := range s.snapshots {
		if s.snapshots[i].Year == year && s.snapshots[i].Month == month {
			s.snapshots[i].TotalPerMonth = total
			replaced = true
			break
		}
	}
	if !replaced {
		s.snapshots = append(s.snapshots, entity.MonthlySnapshot{
			Year: year, Month: month, TotalPerMonth: total,
		})
	}
	s.writePreferenceLocked(KeyMonthlySnapshots, s.snapshots)
}

// setFeedbackLocked replaces the single feedback slot and arms its expiry
// timer. Only the timer belonging to the message still occupying the slot is
// allowed to clear it.
func (s *Store) setFeedbackLocked(message string) {
	s.feedback = message
	window := s.feedbackWindow
	time.AfterFunc(window, func() {
		s.mu.Lock()
		cleared := s.feedback == message
		if cleared {
			s.feedback = ""
		}
		s.mu.Unlock()
		if cleared {
			s.emit(EventFeedbackChanged)
		}
	})
}

func previousMonth(year int, month time.Month) (int, time.Month) {
	if month == time.January {
		return year - 1, time.December
	}
	return year, month - 1
}
