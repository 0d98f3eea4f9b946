package usecase

import (
	"context"
	"errors"

	"subtrack/internal/entity"
)

//go:generate go run github.com/golang/mock/mockgen@v1.6.0 -destination=usecase_mock.go -package=usecase subtrack/internal/usecase SubscriptionRepository,PreferenceRepository

var (
	ErrInvalidSubscription = errors.New("invalid subscription")
	ErrDuplicateID         = errors.New("duplicate subscription id")
	ErrFreeLimitReached    = errors.New("free limit reached")
)

// Preference keys, shared with the original data on disk.
const (
	KeyNotificationsEnabled      = "notificationsEnabled"
	KeyDefaultReminderOffsetDays = "defaultReminderOffsetDays"
	KeyMonthlySnapshots          = "monthlySnapshots"
	KeyLastMonthlyInsightShown   = "lastMonthlyInsightShown"
	KeyDidShowIntro              = "didShowIntro"
)

// SubscriptionRepository - durable storage for the whole subscription list.
// The store is the only writer; the repository holds no independent state.
type SubscriptionRepository interface {
	// Load reads the stored list; a missing file is an empty list.
	Load(ctx context.Context) ([]entity.Subscription, error)
	// Save replaces the stored list atomically.
	Save(ctx context.Context, subs []entity.Subscription) error
}

// PreferenceRepository - persisted key-value preferences.
type PreferenceRepository interface {
	// Get decodes the value under key into out; the boolean reports presence.
	Get(key string, out any) (bool, error)
	// Set stores value under key.
	Set(key string, value any) error
}
