package auth

import (
	"context"
	"errors"
)

var (
	// ErrInvalidToken means the credential was rejected by the verifier.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTimeout means the verifier did not answer within its deadline.
	ErrTimeout = errors.New("token verification timed out")
)

// Principal is the verified identity behind a credential. The service does
// not derive any per-vehicle authorization from it.
type Principal struct {
	Subject string
}

// Verifier validates a bearer credential. Implementations must honor the
// context deadline so a stuck verifier cannot hang the ingestion path.
type Verifier interface {
	Verify(ctx context.Context, token string) (Principal, error)
}
