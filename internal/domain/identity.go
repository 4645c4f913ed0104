package domain

import "context"

// Identity is the verified caller: a reference to the owning user.
type Identity struct {
	UserID string
}

// IdentityResolver verifies a caller-supplied token. Implementations return an
// Unauthorized apperror for missing, malformed or unverifiable tokens.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (Identity, error)
}
