package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tempohq/tempo/internal/domain"
	"github.com/tempohq/tempo/internal/realtime"
	"github.com/tempohq/tempo/internal/repository"
)

func newAuthService() *AuthService {
	store := repository.NewMemoryStore(realtime.NewHub())
	return NewAuthService(store.Users(), AuthConfig{
		JWTSecret:   "test-secret",
		FrontendURL: "http://localhost:5173",
	})
}

func TestSignUpAndTokenRoundTrip(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	user, tokens, err := svc.SignUp(ctx, "Ada", "ada@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "Ada", user.DisplayName)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, domain.AuthProviderPassword, user.Provider)
	require.NotNil(t, tokens)

	userID, err := svc.ValidateToken(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)

	fetched, err := svc.GetUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, fetched.Email)
}

func TestSignUpDuplicateEmail(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	_, _, err := svc.SignUp(ctx, "Ada", "ada@example.com", "correct horse")
	require.NoError(t, err)

	_, _, err = svc.SignUp(ctx, "Other", "ada@example.com", "different pass")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestLogin(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	_, _, err := svc.SignUp(ctx, "Ada", "Ada@Example.com", "correct horse")
	require.NoError(t, err)

	// Email comparison is case-insensitive.
	user, tokens, err := svc.Login(ctx, "ada@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "Ada", user.DisplayName)
	assert.NotEmpty(t, tokens.RefreshToken)

	_, _, err = svc.Login(ctx, "ada@example.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, _, err = svc.Login(ctx, "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestRefreshAccessToken(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	user, tokens, err := svc.SignUp(ctx, "Ada", "ada@example.com", "correct horse")
	require.NoError(t, err)

	fresh, err := svc.RefreshAccessToken(tokens.RefreshToken)
	require.NoError(t, err)

	userID, err := svc.ValidateToken(fresh.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)

	// An access token is not accepted where a refresh token is required,
	// and vice versa.
	_, err = svc.RefreshAccessToken(tokens.AccessToken)
	assert.Error(t, err)
	_, err = svc.ValidateToken(tokens.RefreshToken)
	assert.Error(t, err)
}

func TestValidateGarbageToken(t *testing.T) {
	svc := newAuthService()
	_, err := svc.ValidateToken("not-a-token")
	assert.Error(t, err)
}
