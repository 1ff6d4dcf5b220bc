package auth_test

import (
	"testing"
	"time"

	"school-service/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokens(t *testing.T) {
	user := &auth.User{
		ID:       7,
		Username: "jsmith",
		Role:     auth.RoleTeacher,
	}

	t.Run("RoundTrip", func(t *testing.T) {
		tokens := auth.NewTokens("test-secret", 15*time.Minute)

		signed, err := tokens.Generate(user)
		require.NoError(t, err)

		claims, err := tokens.Parse(signed)
		require.NoError(t, err)
		assert.Equal(t, 7, claims.UserID)
		assert.Equal(t, "jsmith", claims.Username)
		assert.Equal(t, auth.RoleTeacher, claims.Role)
	})

	t.Run("WrongSecretRejected", func(t *testing.T) {
		tokens := auth.NewTokens("test-secret", 15*time.Minute)
		other := auth.NewTokens("other-secret", 15*time.Minute)

		signed, err := tokens.Generate(user)
		require.NoError(t, err)

		_, err = other.Parse(signed)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("ExpiredTokenRejected", func(t *testing.T) {
		tokens := auth.NewTokens("test-secret", -time.Minute)

		signed, err := tokens.Generate(user)
		require.NoError(t, err)

		_, err = tokens.Parse(signed)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("GarbageRejected", func(t *testing.T) {
		tokens := auth.NewTokens("test-secret", 15*time.Minute)

		_, err := tokens.Parse("not.a.token")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("RemainingTTLWithinAccessWindow", func(t *testing.T) {
		tokens := auth.NewTokens("test-secret", 15*time.Minute)

		signed, err := tokens.Generate(user)
		require.NoError(t, err)
		claims, err := tokens.Parse(signed)
		require.NoError(t, err)

		ttl := tokens.RemainingTTL(claims)
		assert.Greater(t, ttl, 14*time.Minute)
		assert.LessOrEqual(t, ttl, 15*time.Minute)
	})
}
