package entitlement

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// memoryPrefs is an in-memory PreferenceStore.
type memoryPrefs struct {
	mu     sync.Mutex
	values map[string]json.RawMessage
}

func newMemoryPrefs() *memoryPrefs {
	return &memoryPrefs{values: map[string]json.RawMessage{}}
}

func (p *memoryPrefs) Get(key string, out any) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	raw, ok := p.values[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, out)
}

func (p *memoryPrefs) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.values[key] = raw
	return nil
}

// stubProvider scripts the storefront's answers.
type stubProvider struct {
	products     []Product
	outcome      PurchaseOutcome
	purchaseErr  error
	entitlements []SignedTransaction
	verifyErr    error
	updates      chan SignedTransaction
}

func (s *stubProvider) Products(context.Context, []string) ([]Product, error) {
	return s.products, nil
}

func (s *stubProvider) Purchase(context.Context, string) (PurchaseOutcome, error) {
	return s.outcome, s.purchaseErr
}

func (s *stubProvider) CurrentEntitlements(context.Context) ([]SignedTransaction, error) {
	return s.entitlements, nil
}

func (s *stubProvider) Updates(context.Context) <-chan SignedTransaction {
	return s.updates
}

func (s *stubProvider) Verify(tx SignedTransaction) (Transaction, error) {
	if s.verifyErr != nil {
		return Transaction{}, s.verifyErr
	}
	return Transaction{ProductID: tx.ProductID}, nil
}

func TestGatePersistedFlag(t *testing.T) {
	prefs := newMemoryPrefs()
	require.NoError(t, prefs.Set(keyIsPro, true))

	g := NewGate(NoopProvider{}, prefs, discardLogger())
	assert.True(t, g.IsPro())
}

func TestGateFreeLimit(t *testing.T) {
	g := NewGate(NoopProvider{}, newMemoryPrefs(), discardLogger())

	assert.False(t, g.FreeLimitReached(2))
	assert.True(t, g.FreeLimitReached(3))
	assert.True(t, g.FreeLimitReached(4))

	assert.True(t, g.AllowsAdd(2))
	assert.False(t, g.AllowsAdd(3))
}

func TestGatePurchase(t *testing.T) {
	ctx := context.Background()

	t.Run("verified_success_unlocks_and_persists", func(t *testing.T) {
		prefs := newMemoryPrefs()
		provider := &stubProvider{outcome: PurchaseOutcome{
			Result:      PurchaseSuccess,
			Transaction: SignedTransaction{ProductID: ProductMonthly},
		}}

		g := NewGate(provider, prefs, discardLogger())
		ok, err := g.Purchase(ctx, ProductMonthly)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.True(t, g.IsPro())

		var stored bool
		found, err := prefs.Get(keyIsPro, &stored)
		require.NoError(t, err)
		require.True(t, found)
		assert.True(t, stored)
	})

	t.Run("cancelled_purchase_stays_locked", func(t *testing.T) {
		provider := &stubProvider{outcome: PurchaseOutcome{Result: PurchaseCancelled}}

		g := NewGate(provider, newMemoryPrefs(), discardLogger())
		ok, err := g.Purchase(ctx, ProductMonthly)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.False(t, g.IsPro())
	})

	t.Run("verification_failure_stays_locked", func(t *testing.T) {
		provider := &stubProvider{
			outcome: PurchaseOutcome{
				Result:      PurchaseSuccess,
				Transaction: SignedTransaction{ProductID: ProductMonthly},
			},
			verifyErr: ErrVerificationFailed,
		}

		g := NewGate(provider, newMemoryPrefs(), discardLogger())
		ok, err := g.Purchase(ctx, ProductMonthly)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.False(t, g.IsPro())
	})

	t.Run("unrelated_product_does_not_unlock", func(t *testing.T) {
		provider := &stubProvider{outcome: PurchaseOutcome{
			Result:      PurchaseSuccess,
			Transaction: SignedTransaction{ProductID: "some.other.product"},
		}}

		g := NewGate(provider, newMemoryPrefs(), discardLogger())
		ok, err := g.Purchase(ctx, "some.other.product")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("provider_error_is_surfaced", func(t *testing.T) {
		provider := &stubProvider{purchaseErr: errors.New("storefront unreachable")}

		g := NewGate(provider, newMemoryPrefs(), discardLogger())
		ok, err := g.Purchase(ctx, ProductMonthly)
		assert.Error(t, err)
		assert.False(t, ok)
	})
}

func TestGateRefreshEntitlements(t *testing.T) {
	ctx := context.Background()

	t.Run("verified_record_unlocks", func(t *testing.T) {
		provider := &stubProvider{entitlements: []SignedTransaction{{ProductID: ProductYearly}}}

		g := NewGate(provider, newMemoryPrefs(), discardLogger())
		require.NoError(t, g.RefreshEntitlements(ctx))
		assert.True(t, g.IsPro())
	})

	t.Run("empty_entitlements_revoke", func(t *testing.T) {
		prefs := newMemoryPrefs()
		require.NoError(t, prefs.Set(keyIsPro, true))
		provider := &stubProvider{}

		g := NewGate(provider, prefs, discardLogger())
		require.True(t, g.IsPro())

		require.NoError(t, g.RefreshEntitlements(ctx))
		assert.False(t, g.IsPro())
	})

	t.Run("unverifiable_records_are_ignored", func(t *testing.T) {
		provider := &stubProvider{
			entitlements: []SignedTransaction{{ProductID: ProductMonthly}},
			verifyErr:    ErrVerificationFailed,
		}

		g := NewGate(provider, newMemoryPrefs(), discardLogger())
		require.NoError(t, g.RefreshEntitlements(ctx))
		assert.False(t, g.IsPro())
	})
}

func TestGateRun(t *testing.T) {
	t.Run("update_stream_unlocks", func(t *testing.T) {
		provider := &stubProvider{updates: make(chan SignedTransaction, 1)}

		g := NewGate(provider, newMemoryPrefs(), discardLogger())
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go g.Run(ctx)

		provider.updates <- SignedTransaction{ProductID: ProductMonthly}

		assert.Eventually(t, g.IsPro, time.Second, 10*time.Millisecond)
	})

	t.Run("cancellation_ends_the_loop", func(t *testing.T) {
		g := NewGate(NoopProvider{}, newMemoryPrefs(), discardLogger())

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			g.Run(ctx)
			close(done)
		}()

		cancel()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("Run did not return after cancellation")
		}
	})
}
