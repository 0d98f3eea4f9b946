package model

import (
	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/validate"
)

// Preferences - the persisted user preferences exposed by the gateway.
type Preferences struct {
	NotificationsEnabled      bool  `json:"notifications_enabled"`
	DefaultReminderOffsetDays int64 `json:"default_reminder_offset_days"`
	DidShowIntro              bool  `json:"did_show_intro"`
}

// PreferencesUpdate - partial update; absent fields are left unchanged.
type PreferencesUpdate struct {
	NotificationsEnabled      *bool  `json:"notifications_enabled,omitempty"`
	DefaultReminderOffsetDays *int64 `json:"default_reminder_offset_days,omitempty"`
	DidShowIntro              *bool  `json:"did_show_intro,omitempty"`
}

// Validate validates this preferences update.
func (m *PreferencesUpdate) Validate(_ strfmt.Registry) error {
	if m.DefaultReminderOffsetDays == nil {
		return nil
	}
	if err := validate.MinimumInt("default_reminder_offset_days", "body", *m.DefaultReminderOffsetDays, 0, false); err != nil {
		return errors.CompositeValidationError(err)
	}
	return nil
}

// NotificationStatus - the scheduler's authorization view.
type NotificationStatus struct {
	AuthorizationStatus string `json:"authorization_status"`
	HasAuthorization    bool   `json:"has_authorization"`
	Enabled             bool   `json:"enabled"`
}

// PermissionResult - outcome of a permission request.
type PermissionResult struct {
	Granted bool `json:"granted"`
}
