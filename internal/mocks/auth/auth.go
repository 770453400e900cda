// Package auth contains hand-written test doubles for the auth ports.
// They are lighter than the generated mocks when a test only needs a
// token-to-identity table.
package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	domainauth "github.com/calcfunding/portal/internal/domain/auth"
	"github.com/calcfunding/portal/internal/ports"
)

var _ ports.TokenVerifier = (*TableVerifier)(nil)

// ErrUnknownToken is returned for tokens missing from the table.
var ErrUnknownToken = errors.New("unknown token")

// TableVerifier resolves tokens from a fixed table and counts calls.
type TableVerifier struct {
	VerifyFunc func(ctx context.Context, rawToken string) (domainauth.Identity, error)

	mu     sync.Mutex
	tokens map[string]domainauth.Identity
	calls  int
}

// NewTableVerifier returns a verifier that knows no tokens.
func NewTableVerifier() *TableVerifier {
	return &TableVerifier{tokens: make(map[string]domainauth.Identity)}
}

// Add registers token for id and fills ExpiresAt when unset.
func (v *TableVerifier) Add(token string, id domainauth.Identity) *TableVerifier {
	if id.ExpiresAt.IsZero() {
		id.ExpiresAt = time.Now().Add(time.Hour)
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.tokens[token] = id
	return v
}

func (v *TableVerifier) Verify(ctx context.Context, rawToken string) (domainauth.Identity, error) {
	v.mu.Lock()
	v.calls++
	id, ok := v.tokens[rawToken]
	v.mu.Unlock()

	if v.VerifyFunc != nil {
		return v.VerifyFunc(ctx, rawToken)
	}
	if !ok {
		return domainauth.Identity{}, ErrUnknownToken
	}
	return id, nil
}

// Calls reports how many times Verify ran.
func (v *TableVerifier) Calls() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.calls
}
