package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"subtrack/internal/entity"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func fixedNow() time.Time {
	return time.Date(2026, time.August, 29, 12, 0, 0, 0, time.UTC)
}

func subWithOffset(name, price string, chargeInDays int, offset *int) entity.Subscription {
	sub := entity.New(name, decimal.RequireFromString(price), fixedNow().AddDate(0, 0, chargeInDays))
	sub.ReminderOffsetDays = offset
	return sub
}

func intPtr(v int) *int { return &v }

func TestSchedulerSchedule(t *testing.T) {
	ctx := context.Background()

	t.Run("registers_reminder_at_nine_local", func(t *testing.T) {
		center := NewMemoryCenter()
		s := NewScheduler(center, discardLogger())
		s.now = fixedNow

		sub := subWithOffset("Netflix", "149", 3, intPtr(1))
		s.Schedule(ctx, sub)

		pending := center.Pending()
		require.Len(t, pending, 1)
		assert.Equal(t, Identifier(sub.ID), pending[0].ID)

		// one day before the September 1st charge
		want := time.Date(2026, time.August, 31, 9, 0, 0, 0, time.UTC)
		assert.True(t, pending[0].FireAt.Equal(want), "got %v", pending[0].FireAt)
	})

	t.Run("nil_offset_schedules_nothing", func(t *testing.T) {
		center := NewMemoryCenter()
		s := NewScheduler(center, discardLogger())
		s.now = fixedNow

		s.Schedule(ctx, subWithOffset("Netflix", "149", 3, nil))
		assert.Empty(t, center.Pending())
	})

	t.Run("past_trigger_schedules_nothing", func(t *testing.T) {
		center := NewMemoryCenter()
		s := NewScheduler(center, discardLogger())
		s.now = fixedNow

		// offset pushes the trigger behind the current instant
		s.Schedule(ctx, subWithOffset("Netflix", "149", 1, intPtr(2)))
		assert.Empty(t, center.Pending())
	})

	t.Run("inactive_subscription_removes_pending_reminder", func(t *testing.T) {
		center := NewMemoryCenter()
		s := NewScheduler(center, discardLogger())
		s.now = fixedNow

		sub := subWithOffset("Netflix", "149", 3, intPtr(1))
		s.Schedule(ctx, sub)
		require.Len(t, center.Pending(), 1)

		sub.IsActive = false
		s.Schedule(ctx, sub)
		assert.Empty(t, center.Pending())
	})

	t.Run("rescheduling_replaces_previous_reminder", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		center := NewMockCenter(ctrl)
		s := NewScheduler(center, discardLogger())
		s.now = fixedNow

		sub := subWithOffset("Netflix", "149", 3, intPtr(1))
		gomock.InOrder(
			center.EXPECT().Remove(gomock.Any(), Identifier(sub.ID)),
			center.EXPECT().Add(gomock.Any(), gomock.Any()).Return(nil),
		)

		s.Schedule(ctx, sub)
	})

	t.Run("add_failure_is_swallowed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		center := NewMockCenter(ctrl)
		s := NewScheduler(center, discardLogger())
		s.now = fixedNow

		center.EXPECT().Remove(gomock.Any(), gomock.Any())
		center.EXPECT().Add(gomock.Any(), gomock.Any()).Return(errors.New("center down"))

		s.Schedule(ctx, subWithOffset("Netflix", "149", 3, intPtr(1)))
	})
}

func TestSchedulerReminderBody(t *testing.T) {
	tests := []struct {
		name   string
		offset int
		sub    string
		price  string
		want   string
	}{
		{"same_day", 0, "Netflix", "149", "Charge today: Netflix – 149 kr"},
		{"day_before", 1, "Spotify", "129", "Charge tomorrow: Spotify – 129 kr"},
		{"earlier", 5, "HBO", "99", "Charge soon: HBO – 99 kr"},
		{"unnamed_falls_back", 1, "", "49", "Charge tomorrow: Subscription – 49 kr"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := subWithOffset(tt.sub, tt.price, 10, intPtr(tt.offset))
			assert.Equal(t, tt.want, reminderBody(sub))
		})
	}
}

func TestSchedulerScheduleAll(t *testing.T) {
	ctx := context.Background()

	center := NewMemoryCenter()
	s := NewScheduler(center, discardLogger())
	s.now = fixedNow

	stale := subWithOffset("Old", "10", 3, intPtr(1))
	s.Schedule(ctx, stale)
	require.Len(t, center.Pending(), 1)

	inactive := subWithOffset("Paused", "20", 5, intPtr(1))
	inactive.IsActive = false

	s.ScheduleAll(ctx, []entity.Subscription{
		subWithOffset("One", "10", 3, intPtr(1)),
		subWithOffset("Two", "20", 5, intPtr(1)),
		inactive,
	})

	// the stale reminder is gone, one per active subscription remains
	assert.Len(t, center.Pending(), 2)
}

func TestSchedulerAuthorization(t *testing.T) {
	ctx := context.Background()

	t.Run("refresh_tracks_center_state", func(t *testing.T) {
		center := NewMemoryCenter()
		s := NewScheduler(center, discardLogger())
		assert.False(t, s.HasAuthorization())

		center.SetStatus(AuthorizationProvisional)
		s.RefreshAuthorization(ctx)
		assert.True(t, s.HasAuthorization())
		assert.Equal(t, AuthorizationProvisional, s.AuthorizationState())

		center.SetStatus(AuthorizationDenied)
		s.RefreshAuthorization(ctx)
		assert.False(t, s.HasAuthorization())
	})

	t.Run("request_permission_grants", func(t *testing.T) {
		center := NewMemoryCenter()
		s := NewScheduler(center, discardLogger())

		assert.True(t, s.RequestPermission(ctx))
		assert.True(t, s.HasAuthorization())
	})

	t.Run("request_failure_reads_as_denied", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		center := NewMockCenter(ctrl)
		center.EXPECT().RequestAuthorization(gomock.Any()).Return(false, errors.New("no service"))

		s := NewScheduler(center, discardLogger())
		assert.False(t, s.RequestPermission(ctx))
		assert.False(t, s.HasAuthorization())
	})
}
