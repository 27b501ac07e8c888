package repositories

import "context"

// IdempotencyRecord is what a claimed key points at.
type IdempotencyRecord struct {
	// Fingerprint identifies the request body the key was first used with.
	Fingerprint string `json:"fingerprint"`
	// VoucherID is empty while the first request is still in flight.
	VoucherID string `json:"voucherID,omitempty"`
}

// IdempotencyStore remembers which voucher a client-supplied key produced.
type IdempotencyStore interface {
	// Reserve claims key for a request with the given fingerprint. When the key is
	// already claimed it returns the stored record instead.
	Reserve(ctx context.Context, key string, fingerprint string) (existing IdempotencyRecord, reserved bool, err error)

	// Complete records the voucher created under a reserved key.
	Complete(ctx context.Context, key string, record IdempotencyRecord) error

	// Release drops a reservation whose request failed.
	Release(ctx context.Context, key string) error
}
