// Package oidc verifies bearer ID tokens issued by the portal's identity provider.
package oidc

import (
	"context"
	"crypto"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	domainauth "github.com/calcfunding/portal/internal/domain/auth"
	"github.com/calcfunding/portal/internal/ports"
)

// Config holds the settings needed to discover the issuer and check audiences.
type Config struct {
	IssuerURL  string
	ClientID   string
	HTTPClient *http.Client
}

// Verifier checks ID token signatures, issuer, audience and expiry with go-oidc.
type Verifier struct {
	verifier *gooidc.IDTokenVerifier
}

var _ ports.TokenVerifier = (*Verifier)(nil)

// NewVerifier fetches the issuer's discovery document once and builds a verifier.
func NewVerifier(ctx context.Context, cfg Config) (*Verifier, error) {
	if cfg.ClientID == "" {
		return nil, errors.New("client ID is required")
	}
	if cfg.IssuerURL == "" {
		return nil, errors.New("issuer URL is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	issuer := strings.TrimSuffix(cfg.IssuerURL, "/")
	issuer = strings.TrimSuffix(issuer, "/.well-known/openid-configuration")

	ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
	provider, err := gooidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc new provider: %w", err)
	}
	return &Verifier{verifier: provider.Verifier(&gooidc.Config{ClientID: cfg.ClientID})}, nil
}

// NewStaticVerifier verifies tokens against fixed public keys without discovery.
func NewStaticVerifier(issuer, clientID string, keys ...crypto.PublicKey) *Verifier {
	ks := &gooidc.StaticKeySet{PublicKeys: keys}
	return &Verifier{verifier: gooidc.NewVerifier(issuer, ks, &gooidc.Config{ClientID: clientID})}
}

// Verify validates rawToken and maps its claims onto an Identity.
func (v *Verifier) Verify(ctx context.Context, rawToken string) (domainauth.Identity, error) {
	tok, err := v.verifier.Verify(ctx, rawToken)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("verify id_token: %w", err)
	}
	var c claims
	if err := tok.Claims(&c); err != nil {
		return domainauth.Identity{}, fmt.Errorf("parse id_token claims: %w", err)
	}
	id := c.identity()
	if id.UserID == "" {
		id.UserID = tok.Subject
	}
	id.ExpiresAt = tok.Expiry
	if id.UserID == "" {
		return domainauth.Identity{}, errors.New("id_token has no subject")
	}
	return id, nil
}

// claims covers both standard OIDC and AD FS claim shapes.
type claims struct {
	Sub               string   `json:"sub"`
	Name              string   `json:"name"`
	GivenName         string   `json:"given_name"`
	FamilyName        string   `json:"family_name"`
	Email             string   `json:"email"`
	PreferredUsername string   `json:"preferred_username"`
	Groups            []string `json:"groups"`
	OID               string   `json:"oid"`

	SamAccountName string   `json:"samaccountname"`
	FirstName      string   `json:"firstname"`
	LastName       string   `json:"lastname"`
	Mail           string   `json:"mail"`
	MemberOf       []string `json:"memberof"`
}

func (c claims) identity() domainauth.Identity {
	display := c.Name
	if display == "" {
		display = strings.TrimSpace(firstNonEmpty(c.GivenName, c.FirstName) + " " + firstNonEmpty(c.FamilyName, c.LastName))
	}
	email := firstNonEmpty(c.Email, c.Mail)
	if display == "" {
		display = firstNonEmpty(c.PreferredUsername, email)
	}
	groups := c.Groups
	if len(groups) == 0 {
		groups = c.MemberOf
	}
	return domainauth.Identity{
		UserID:      firstNonEmpty(c.OID, c.SamAccountName, c.Sub),
		DisplayName: display,
		Email:       email,
		Groups:      groups,
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
