package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restoops/backend/internal/infrastructure/config"
)

func newTestJWTService(expiration time.Duration) *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                "test-secret-at-least-32-characters-long",
		AccessTokenExpiration: expiration,
		Issuer:                "restoops-test",
	})
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	service := newTestJWTService(time.Hour)
	userID := uuid.New()
	branchID := uuid.New()

	token, expiresAt, err := service.GenerateToken(GenerateTokenInput{
		UserID:    userID,
		Username:  "chef.ramirez",
		BranchIDs: []uuid.UUID{branchID},
		Role:      "manager",
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "chef.ramirez", claims.Username)
	assert.Equal(t, "manager", claims.Role)
	require.Len(t, claims.BranchIDs, 1)
	assert.Equal(t, branchID.String(), claims.BranchIDs[0])
}

func TestJWTService_ValidateToken_Errors(t *testing.T) {
	t.Run("expired token", func(t *testing.T) {
		service := newTestJWTService(-time.Minute)

		token, _, err := service.GenerateToken(GenerateTokenInput{
			UserID:   uuid.New(),
			Username: "late",
		})
		require.NoError(t, err)

		_, err = service.ValidateToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		service := newTestJWTService(time.Hour)

		_, err := service.ValidateToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("token signed with a different secret", func(t *testing.T) {
		service := newTestJWTService(time.Hour)
		other := NewJWTService(config.JWTConfig{
			Secret:                "a-completely-different-signing-secret!!",
			AccessTokenExpiration: time.Hour,
			Issuer:                "restoops-test",
		})

		token, _, err := other.GenerateToken(GenerateTokenInput{
			UserID:   uuid.New(),
			Username: "impostor",
		})
		require.NoError(t, err)

		_, err = service.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		service := newTestJWTService(time.Hour)
		other := NewJWTService(config.JWTConfig{
			Secret:                "test-secret-at-least-32-characters-long",
			AccessTokenExpiration: time.Hour,
			Issuer:                "someone-else",
		})

		token, _, err := other.GenerateToken(GenerateTokenInput{
			UserID:   uuid.New(),
			Username: "wanderer",
		})
		require.NoError(t, err)

		_, err = service.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestClaims_CanAccessBranch(t *testing.T) {
	granted := uuid.New()
	other := uuid.New()

	t.Run("empty branch list grants all branches", func(t *testing.T) {
		claims := &Claims{}
		assert.True(t, claims.CanAccessBranch(granted))
		assert.True(t, claims.CanAccessBranch(other))
	})

	t.Run("non-empty list restricts to its members", func(t *testing.T) {
		claims := &Claims{BranchIDs: []string{granted.String()}}
		assert.True(t, claims.CanAccessBranch(granted))
		assert.False(t, claims.CanAccessBranch(other))
	})
}
