// Package entitlement tracks the pro unlock and the free-tier cap. The
// storefront itself is an external collaborator behind the Provider port;
// everything verification-related that fails is treated as "not entitled".
package entitlement

import (
	"context"
	"errors"
)

// FreeLimit - active subscriptions available without the pro unlock.
const FreeLimit = 3

// Product identifiers for the pro unlock.
const (
	ProductMonthly = "subtrack.pro.monthly"
	ProductYearly  = "subtrack.pro.yearly"
)

var ErrVerificationFailed = errors.New("transaction verification failed")

// PurchaseResult - outcome of a purchase attempt.
type PurchaseResult int

const (
	PurchaseSuccess PurchaseResult = iota
	PurchaseCancelled
	PurchasePending
)

// Product - a purchasable unlock as listed by the storefront.
type Product struct {
	ID           string
	DisplayName  string
	DisplayPrice string
}

// SignedTransaction - a raw transaction record handed over by the storefront;
// only Verify turns it into something trusted.
type SignedTransaction struct {
	ProductID string
	Payload   []byte
	Signature string
}

// Transaction - a verified transaction.
type Transaction struct {
	ProductID string
}

// PurchaseOutcome bundles the purchase result with the signed record to
// verify on success.
type PurchaseOutcome struct {
	Result      PurchaseResult
	Transaction SignedTransaction
}

// Provider - the external purchase/entitlement system.
type Provider interface {
	// Products lists purchasable products by identifier.
	Products(ctx context.Context, ids []string) ([]Product, error)
	// Purchase initiates a purchase flow for one product.
	Purchase(ctx context.Context, productID string) (PurchaseOutcome, error)
	// CurrentEntitlements enumerates the signed records currently held.
	CurrentEntitlements(ctx context.Context) ([]SignedTransaction, error)
	// Updates streams transaction records arriving outside a purchase flow.
	// The stream ends when ctx is cancelled.
	Updates(ctx context.Context) <-chan SignedTransaction
	// Verify checks a signed record and returns the trusted transaction.
	Verify(tx SignedTransaction) (Transaction, error)
}

// PreferenceStore - persisted key-value preferences; the gate only keeps its
// pro flag there.
type PreferenceStore interface {
	Get(key string, out any) (bool, error)
	Set(key string, value any) error
}

const keyIsPro = "isPro"

func entitles(productID string) bool {
	return productID == ProductMonthly || productID == ProductYearly
}
