package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
)

//go:generate go run github.com/golang/mock/mockgen@v1.6.0 -destination=center_mock.go -package=notify subtrack/internal/notify Center

// AuthorizationStatus mirrors the permission state reported by the external
// notification center.
type AuthorizationStatus int

const (
	AuthorizationNotDetermined AuthorizationStatus = iota
	AuthorizationDenied
	AuthorizationAuthorized
	AuthorizationProvisional
)

func (s AuthorizationStatus) String() string {
	switch s {
	case AuthorizationDenied:
		return "denied"
	case AuthorizationAuthorized:
		return "authorized"
	case AuthorizationProvisional:
		return "provisional"
	default:
		return "not_determined"
	}
}

// Request - a one-shot reminder registered with the center, keyed by a
// deterministic identifier so re-registering replaces the previous one.
type Request struct {
	ID     string
	FireAt time.Time
	Body   string
}

// Center - the external local-notification service the scheduler configures.
// Delivery itself is out of the core's hands.
type Center interface {
	// Add registers a one-shot request under its identifier.
	Add(ctx context.Context, req Request) error
	// Remove cancels the pending requests with the given identifiers.
	Remove(ctx context.Context, ids ...string)
	// RemoveAll cancels every pending request.
	RemoveAll(ctx context.Context)
	// AuthorizationStatus reports the current permission state.
	AuthorizationStatus(ctx context.Context) (AuthorizationStatus, error)
	// RequestAuthorization asks the user for permission and reports the grant.
	RequestAuthorization(ctx context.Context) (bool, error)
}

// Identifier derives the center key for a subscription's reminder.
func Identifier(id uuid.UUID) string {
	return "subscription-" + id.String()
}
