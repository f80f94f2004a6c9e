package fixture

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/keikchoco/alternative-learning-system/internal/models"
)

// UserSource serves auth users and refresh tokens from the seeded store.
type UserSource struct {
	store *Store
}

// FindByEmail fetches a user by email, case-insensitively.
func (s *UserSource) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	for _, u := range s.store.users {
		if strings.EqualFold(u.Email, email) {
			copied := u
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

// FindByID fetches a user by identifier.
func (s *UserSource) FindByID(ctx context.Context, id string) (*models.User, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	for _, u := range s.store.users {
		if u.ID == id {
			copied := u
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

// UpdateLastLogin records the latest successful login.
func (s *UserSource) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	for i := range s.store.users {
		if s.store.users[i].ID == id {
			s.store.users[i].LastLogin = &ts
			return nil
		}
	}
	return sql.ErrNoRows
}

// UpdatePassword replaces the stored password hash.
func (s *UserSource) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	for i := range s.store.users {
		if s.store.users[i].ID == id {
			s.store.users[i].PasswordHash = passwordHash
			s.store.users[i].UpdatedAt = updatedAt
			return nil
		}
	}
	return sql.ErrNoRows
}

// CreateRefreshToken stores a new refresh token session.
func (s *UserSource) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	s.store.tokens = append(s.store.tokens, *token)
	return nil
}

// FindRefreshToken fetches a refresh token by its opaque value.
func (s *UserSource) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	for _, t := range s.store.tokens {
		if t.Token == token {
			copied := t
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

// RevokeRefreshToken marks one token revoked.
func (s *UserSource) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	for i := range s.store.tokens {
		if s.store.tokens[i].ID == id {
			s.store.tokens[i].Revoked = true
			s.store.tokens[i].RevokedAt = &revokedAt
			return nil
		}
	}
	return sql.ErrNoRows
}

// RevokeUserRefreshTokens revokes every live token for a user.
func (s *UserSource) RevokeUserRefreshTokens(ctx context.Context, userID string) error {
	now := time.Now().UTC()
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	for i := range s.store.tokens {
		if s.store.tokens[i].UserID == userID && !s.store.tokens[i].Revoked {
			s.store.tokens[i].Revoked = true
			s.store.tokens[i].RevokedAt = &now
		}
	}
	return nil
}
