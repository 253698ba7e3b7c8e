package draft

import "context"

// Store persists in-progress submission drafts keyed by landlord identity.
// The store is advisory: it is never consulted for verification status and a
// lost draft costs the landlord typing, nothing more.
type Store interface {
	Save(ctx context.Context, d *Draft) error
	// Load returns nil without error when no draft exists.
	Load(ctx context.Context, landlordID string) (*Draft, error)
	Clear(ctx context.Context, landlordID string) error
}
