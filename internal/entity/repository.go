package entity

import "context"

// LeadWriter is the slice of the lead repository a transactional batch sees:
// uniqueness checks and inserts running against the live transaction state.
type LeadWriter interface {
	EmailExists(ctx context.Context, email string, excludeID int64) (bool, error)
	Create(ctx context.Context, lead *Lead) (int64, error)
}
