// Package devauth provides a config-driven token verifier for local development
// (AUTH_MODE=mock). Any non-empty bearer token is accepted.
package devauth

import (
	"context"
	"errors"
	"strings"
	"time"

	domainauth "github.com/calcfunding/portal/internal/domain/auth"
	"github.com/calcfunding/portal/internal/ports"
)

// Config is the identity handed to every request.
type Config struct {
	UserID      string
	DisplayName string
	Email       string
	Groups      []string
	// TokenTTL is the reported identity lifetime; 8h when zero.
	TokenTTL time.Duration
}

// Verifier returns the configured identity for any token. A token of the form
// "user:<id>" overrides the user id so several dev users can be simulated.
type Verifier struct {
	identity domainauth.Identity
	ttl      time.Duration
	now      func() time.Time
}

var _ ports.TokenVerifier = (*Verifier)(nil)

// NewVerifier validates cfg and constructs a Verifier.
func NewVerifier(cfg Config) (*Verifier, error) {
	if cfg.UserID == "" {
		return nil, errors.New("dev auth: UserID is required")
	}
	ttl := cfg.TokenTTL
	if ttl == 0 {
		ttl = 8 * time.Hour
	}
	display := cfg.DisplayName
	if display == "" {
		display = cfg.UserID
	}
	return &Verifier{
		identity: domainauth.Identity{
			UserID:      cfg.UserID,
			DisplayName: display,
			Email:       cfg.Email,
			Groups:      append([]string(nil), cfg.Groups...),
		},
		ttl: ttl,
		now: time.Now,
	}, nil
}

func (v *Verifier) Verify(_ context.Context, rawToken string) (domainauth.Identity, error) {
	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return domainauth.Identity{}, errors.New("dev auth: empty token")
	}
	id := v.identity
	id.Groups = append([]string(nil), v.identity.Groups...)
	if user, ok := strings.CutPrefix(rawToken, "user:"); ok && user != "" {
		id.UserID = user
		id.DisplayName = user
	}
	id.ExpiresAt = v.now().Add(v.ttl)
	return id, nil
}
