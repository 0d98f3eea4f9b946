package entitlement

import "context"

// NoopProvider backs deployments without a storefront attached: no products,
// every purchase resolves to cancelled, nothing verifies.
type NoopProvider struct{}

func (NoopProvider) Products(context.Context, []string) ([]Product, error) {
	return nil, nil
}

func (NoopProvider) Purchase(context.Context, string) (PurchaseOutcome, error) {
	return PurchaseOutcome{Result: PurchaseCancelled}, nil
}

func (NoopProvider) CurrentEntitlements(context.Context) ([]SignedTransaction, error) {
	return nil, nil
}

func (NoopProvider) Updates(context.Context) <-chan SignedTransaction {
	// A nil channel never delivers; Run exits on ctx cancellation.
	return nil
}

func (NoopProvider) Verify(SignedTransaction) (Transaction, error) {
	return Transaction{}, ErrVerificationFailed
}
