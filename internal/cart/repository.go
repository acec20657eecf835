package cart

import "context"

// Repository keeps one cart per operator session.
type Repository interface {
	// Get returns an empty cart when none is stored.
	Get(ctx context.Context, sessionID string) (*Cart, error)
	// Update applies fn to the stored cart and saves the result atomically; nothing is saved when fn fails.
	Update(ctx context.Context, sessionID string, fn func(*Cart) error) (*Cart, error)
	Delete(ctx context.Context, sessionID string) error
}
