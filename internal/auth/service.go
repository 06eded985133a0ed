package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/decodedesk/decodedesk/internal/users"
)

type Service struct {
	jwt     *JWTManager
	rdb     redis.Cmdable
	userSvc *users.Service
}

func NewService(jwt *JWTManager, rdb redis.Cmdable, userSvc *users.Service) *Service {
	return &Service{
		jwt:     jwt,
		rdb:     rdb,
		userSvc: userSvc,
	}
}

func (s *Service) GenerateTokens(ctx context.Context, user *users.User) (*TokenPair, error) {
	pair, tokenID, err := s.jwt.GenerateTokenPair(user.ID.String(), user.Email, user.Plan)
	if err != nil {
		return nil, err
	}

	key := refreshKey(user.ID.String(), tokenID)
	if err := s.rdb.Set(ctx, key, "1", s.jwt.RefreshExpiry()).Err(); err != nil {
		return nil, fmt.Errorf("storing refresh token: %w", err)
	}

	return pair, nil
}

// RefreshTokens rotates a valid refresh token for a new pair. The user row
// is re-read so plan changes propagate into the fresh access token.
func (s *Service) RefreshTokens(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	key := refreshKey(claims.UserID, claims.TokenID)
	exists, err := s.rdb.Exists(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("checking refresh token: %w", err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("refresh token revoked")
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id in refresh token: %w", err)
	}
	user, err := s.userSvc.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user no longer exists")
	}

	s.rdb.Del(ctx, key)

	return s.GenerateTokens(ctx, user)
}

// Logout revokes every outstanding refresh token for the user.
func (s *Service) Logout(ctx context.Context, userID string) error {
	pattern := fmt.Sprintf("refresh:%s:*", userID)
	iter := s.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		s.rdb.Del(ctx, iter.Val())
	}
	return iter.Err()
}

func (s *Service) ValidateAccessToken(token string) (*AccessClaims, error) {
	return s.jwt.ValidateAccessToken(token)
}

func refreshKey(userID, tokenID string) string {
	return fmt.Sprintf("refresh:%s:%s", userID, tokenID)
}
