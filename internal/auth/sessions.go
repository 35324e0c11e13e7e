package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BruksfildServices01/petcare-scheduler/internal/cache"
)

var (
	ErrTokenRevoked   = errors.New("token revoked")
	ErrAccountDeleted = errors.New("account deleted")
)

// AccountStore reports whether the live account p names still exists.
// Trashed accounts do not count.
type AccountStore interface {
	Exists(ctx context.Context, p Principal) (bool, error)
}

const revokedPrefix = "revoked:"

// Sessions decides whether a signed token may still be used.
type Sessions struct {
	accounts AccountStore
	revoked  cache.Store
	now      func() time.Time
}

func NewSessions(accounts AccountStore, revoked cache.Store) *Sessions {
	return &Sessions{accounts: accounts, revoked: revoked, now: time.Now}
}

// Check fails with ErrTokenRevoked after logout or refresh, and with
// ErrAccountDeleted once the account is gone or trashed.
func (s *Sessions) Check(ctx context.Context, p Principal) error {
	if p.TokenID != "" {
		_, revoked, err := s.revoked.Get(ctx, revokedPrefix+p.TokenID)
		if err != nil {
			return fmt.Errorf("revocation lookup: %w", err)
		}
		if revoked {
			return ErrTokenRevoked
		}
	}

	ok, err := s.accounts.Exists(ctx, p)
	if err != nil {
		return fmt.Errorf("account lookup: %w", err)
	}
	if !ok {
		return ErrAccountDeleted
	}
	return nil
}

// Revoke blocks p's token until it would have expired anyway.
func (s *Sessions) Revoke(ctx context.Context, p Principal) error {
	if p.TokenID == "" {
		return nil
	}
	ttl := p.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	return s.revoked.Set(ctx, revokedPrefix+p.TokenID, "1", ttl)
}
