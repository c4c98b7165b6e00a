package auth

import (
	"context"
	"errors"
	"log"
	"time"

	"schedulsy-api/internal/cache"
	"schedulsy-api/internal/database"
	"schedulsy-api/internal/models"
	"schedulsy-api/internal/session"
)

// UserFinder looks users up by id.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// Provider resolves bearer tokens into session values.
type Provider struct {
	tokens  *TokenIssuer
	users   UserFinder
	revoked *cache.SimpleCache[string, struct{}]
}

// NewProvider creates a Provider.
func NewProvider(tokens *TokenIssuer, users UserFinder) *Provider {
	return &Provider{
		tokens:  tokens,
		users:   users,
		revoked: cache.NewSimpleCache[string, struct{}](cache.Options[string, struct{}]{ConcurrencySafe: true}),
	}
}

// Resolve maps a bearer token to a session. Invalid, expired and revoked
// tokens are unauthenticated; a user directory that cannot answer yet
// leaves the session loading.
func (p *Provider) Resolve(ctx context.Context, token string) session.Session {
	if token == "" {
		return session.Unauthenticated()
	}
	claims, err := p.tokens.ValidateToken(token)
	if err != nil {
		return session.Unauthenticated()
	}
	if p.revoked.Has(claims.SessionID()) {
		return session.Unauthenticated()
	}

	user, err := p.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			return session.Unauthenticated()
		}
		log.Printf("identity lookup for user %s failed: %v", claims.UserID, err)
		return session.Loading()
	}

	return session.Authenticated(claims.SessionID(), user.ID, user.DisplayName())
}

// Revoke ends a session before its token expires. The entry is kept only
// as long as a token of that session could still be accepted.
func (p *Provider) Revoke(sessionID string) {
	p.revoked.Set(sessionID, struct{}{}, p.tokens.ttl+time.Minute)
}

// Sweep forgets revocations whose tokens have expired anyway.
func (p *Provider) Sweep() {
	p.revoked.PurgeExpired()
}
