package controllers

import (
	"context"
	"testing"

	"raglite/raglite/config"
	"raglite/raglite/sources/psql/dao"
	"raglite/raglite/utils/apperrors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthTest(t *testing.T) *AuthController {
	db := openTestDB(t)
	cfg := config.Config{JWTSecret: "test-secret"}
	return NewAuthController(dao.NewUserDAO(db), cfg)
}

func TestRegisterValidation(t *testing.T) {
	ctrl := setupAuthTest(t)
	ctx := context.Background()

	cases := []struct {
		name     string
		username string
		password string
	}{
		{"empty username", "", "secret123"},
		{"empty password", "alice", ""},
		{"short username", "al", "secret123"},
		{"short password", "alice", "12345"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ctrl.Register(ctx, tc.username, tc.password, "")
			assert.True(t, apperrors.IsValidation(err), "expected ValidationError, got %v", err)
		})
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	ctrl := setupAuthTest(t)
	ctx := context.Background()
	_, err := ctrl.Register(ctx, "alice", "secret123", "alice@example.com")
	require.NoError(t, err)

	_, err = ctrl.Register(ctx, "alice", "secret123", "")
	assert.True(t, apperrors.IsValidation(err))

	_, err = ctrl.Register(ctx, "alice2", "secret123", "alice@example.com")
	assert.True(t, apperrors.IsValidation(err), "duplicate email should be rejected")
}

func TestLoginIssuesToken(t *testing.T) {
	ctrl := setupAuthTest(t)
	ctx := context.Background()
	registered, err := ctrl.Register(ctx, "alice", "secret123", "")
	require.NoError(t, err)

	token, user, err := ctrl.Login(ctx, "alice", "secret123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	parsed, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, registered.ID, claims["user_id"])
}

func TestLoginFailures(t *testing.T) {
	ctrl := setupAuthTest(t)
	ctx := context.Background()
	_, err := ctrl.Register(ctx, "alice", "secret123", "")
	require.NoError(t, err)

	_, _, err = ctrl.Login(ctx, "nobody", "secret123")
	assert.True(t, apperrors.IsValidation(err))

	_, _, err = ctrl.Login(ctx, "alice", "wrong-password")
	assert.True(t, apperrors.IsValidation(err))
}
