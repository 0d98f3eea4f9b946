package entitlement

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Gate decides whether the user may pass the free-tier cap. The pro flag is
// persisted so the decision survives restarts even before the storefront
// answers.
type Gate struct {
	provider Provider
	prefs    PreferenceStore
	log      *slog.Logger

	mu    sync.Mutex
	isPro bool
}

func NewGate(provider Provider, prefs PreferenceStore, log *slog.Logger) *Gate {
	g := &Gate{provider: provider, prefs: prefs, log: log}
	var stored bool
	if ok, err := prefs.Get(keyIsPro, &stored); err != nil {
		log.Warn("reading pro flag failed", "error", err)
	} else if ok {
		g.isPro = stored
	}
	return g
}

// IsPro reports whether the unlimited tier is unlocked.
func (g *Gate) IsPro() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.isPro
}

// FreeLimitReached reports whether the active count has reached the free-tier
// cap, regardless of the pro flag.
func (g *Gate) FreeLimitReached(activeCount int) bool {
	return activeCount >= FreeLimit
}

// AllowsAdd reports whether one more active subscription may be added.
func (g *Gate) AllowsAdd(activeCount int) bool {
	return g.IsPro() || !g.FreeLimitReached(activeCount)
}

// Products lists the pro products from the storefront.
func (g *Gate) Products(ctx context.Context) ([]Product, error) {
	products, err := g.provider.Products(ctx, []string{ProductMonthly, ProductYearly})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// Purchase runs the purchase flow for one product. Only a successful,
// verified transaction for a pro product unlocks; cancelled and pending
// flows, and records that fail verification, report false.
func (g *Gate) Purchase(ctx context.Context, productID string) (bool, error) {
	outcome, err := g.provider.Purchase(ctx, productID)
	if err != nil {
		return false, fmt.Errorf("purchase %s: %w", productID, err)
	}
	if outcome.Result != PurchaseSuccess {
		return false, nil
	}
	tx, err := g.provider.Verify(outcome.Transaction)
	if err != nil || !entitles(tx.ProductID) {
		return false, nil
	}
	g.setPro(true)
	return true, nil
}

// RefreshEntitlements rescans the currently held records and sets the pro
// flag from what verifies. Called at startup.
func (g *Gate) RefreshEntitlements(ctx context.Context) error {
	records, err := g.provider.CurrentEntitlements(ctx)
	if err != nil {
		return fmt.Errorf("current entitlements: %w", err)
	}
	isPro := false
	for _, record := range records {
		tx, err := g.provider.Verify(record)
		if err != nil {
			continue
		}
		if entitles(tx.ProductID) {
			isPro = true
		}
	}
	g.setPro(isPro)
	return nil
}

// Run drains the provider's update stream until ctx is cancelled, unlocking
// on any verified pro transaction.
func (g *Gate) Run(ctx context.Context) {
	updates := g.provider.Updates(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case record, ok := <-updates:
			if !ok {
				return
			}
			tx, err := g.provider.Verify(record)
			if err != nil {
				continue
			}
			if entitles(tx.ProductID) {
				g.setPro(true)
			}
		}
	}
}

func (g *Gate) setPro(v bool) {
	g.mu.Lock()
	changed := g.isPro != v
	g.isPro = v
	g.mu.Unlock()
	if !changed {
		return
	}
	if err := g.prefs.Set(keyIsPro, v); err != nil {
		g.log.Warn("persisting pro flag failed", "error", err)
	}
}
