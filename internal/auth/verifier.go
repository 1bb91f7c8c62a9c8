package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// Identity is a verified identity-provider subject plus the profile
// claims needed to bootstrap a local user record.
type Identity struct {
	Subject string
	Name    string
	Email   string
}

// Verifier validates an opaque identity-provider token and returns the
// verified identity, or fails with ErrInvalidCredential.
type Verifier interface {
	Verify(ctx context.Context, rawToken string) (*Identity, error)
}

// OIDCVerifier verifies ID tokens against an OIDC issuer.
type OIDCVerifier struct {
	provider *oidc.Provider
	verifier *oidc.IDTokenVerifier
}

// NewOIDCVerifier discovers the issuer configuration and prepares a
// token verifier for the given client ID.
func NewOIDCVerifier(ctx context.Context, issuer, clientID string) (*OIDCVerifier, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to discover oidc issuer: %w", err)
	}
	return &OIDCVerifier{
		provider: provider,
		verifier: provider.Verifier(&oidc.Config{ClientID: clientID}),
	}, nil
}

// Verify checks the token's signature, expiry and audience, then extracts
// the subject and profile claims. Some providers keep the ID token
// minimal, so missing profile claims are backfilled from the userinfo
// endpoint when possible.
func (v *OIDCVerifier) Verify(ctx context.Context, rawToken string) (*Identity, error) {
	idToken, err := v.verifier.Verify(ctx, rawToken)
	if err != nil {
		slog.Debug("token verification failed", "error", err)
		return nil, ErrInvalidCredential
	}

	var claims struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, ErrInvalidCredential
	}

	if claims.Email == "" || claims.Name == "" {
		userInfo, err := v.provider.UserInfo(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: rawToken}))
		if err == nil {
			var infoClaims struct {
				Name  string `json:"name"`
				Email string `json:"email"`
			}
			if err := userInfo.Claims(&infoClaims); err == nil {
				if claims.Name == "" {
					claims.Name = infoClaims.Name
				}
				if claims.Email == "" {
					claims.Email = infoClaims.Email
				}
			}
		} else {
			slog.Warn("failed to fetch userinfo", "error", err)
		}
	}

	return &Identity{
		Subject: idToken.Subject,
		Name:    claims.Name,
		Email:   claims.Email,
	}, nil
}
