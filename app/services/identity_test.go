package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lidosole/lidosole/app/models"
	"github.com/lidosole/lidosole/app/requests"
	"github.com/lidosole/lidosole/app/responses"
	"github.com/lidosole/lidosole/pkg/apperr"
	"github.com/lidosole/lidosole/pkg/auth"
	"github.com/lidosole/lidosole/pkg/cache"
)

func noopMailer(string, string, string, interface{}) error { return nil }

func newIdentity(t *testing.T) *IdentityService {
	t.Helper()
	return NewIdentityService(newTestDB(t), cache.Nop()).WithMailer(noopMailer)
}

func register(t *testing.T, identity *IdentityService) responses.User {
	t.Helper()
	user, err := identity.Register(context.Background(), requests.Register{
		FirstName: "Rita",
		LastName:  "Rossi",
		Email:     "rita@example.com",
		Password:  "sunshine1",
	})
	require.NoError(t, err)
	return user
}

func verify(t *testing.T, identity *IdentityService, userID uint) {
	t.Helper()
	token, err := VerificationToken(userID)
	require.NoError(t, err)
	_, err = identity.VerifyEmail(context.Background(), token)
	require.NoError(t, err)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	identity := newIdentity(t)
	register(t, identity)

	_, err := identity.Register(context.Background(), requests.Register{
		FirstName: "Other",
		LastName:  "Person",
		Email:     "rita@example.com",
		Password:  "different1",
	})
	assert.True(t, apperr.IsConflict(err))
}

func TestLoginRequiresVerifiedEmail(t *testing.T) {
	identity := newIdentity(t)
	user := register(t, identity)
	ctx := context.Background()

	_, err := identity.Login(ctx, requests.Login{Email: "rita@example.com", Password: "sunshine1"})
	require.Error(t, err)
	assert.True(t, apperr.IsInvalid(err))
	assert.Contains(t, err.Error(), "verified")

	verify(t, identity, user.ID)

	pair, err := identity.Login(ctx, requests.Login{Email: "rita@example.com", Password: "sunshine1"})
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
}

func TestDefaultRoleAssignedAtVerification(t *testing.T) {
	identity := newIdentity(t)
	user := register(t, identity)

	// Unverified accounts carry no role yet.
	assert.Empty(t, user.Role)

	token, err := VerificationToken(user.ID)
	require.NoError(t, err)
	verified, err := identity.VerifyEmail(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, verified.Role)
}

func TestVerifyEmailBadToken(t *testing.T) {
	identity := newIdentity(t)

	_, err := identity.VerifyEmail(context.Background(), "not-a-real-token")
	assert.True(t, apperr.IsInvalid(err))
}

func TestLoginWrongPasswordLockout(t *testing.T) {
	identity := newIdentity(t)
	user := register(t, identity)
	verify(t, identity, user.ID)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := identity.Login(ctx, requests.Login{Email: "rita@example.com", Password: "wrong"})
		assert.True(t, apperr.IsInvalid(err))
	}

	// Locked now, even with the right password.
	_, err := identity.Login(ctx, requests.Login{Email: "rita@example.com", Password: "sunshine1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "locked")
}

func TestRefreshRotatesTokens(t *testing.T) {
	identity := newIdentity(t)
	user := register(t, identity)
	verify(t, identity, user.ID)
	ctx := context.Background()

	pair, err := identity.Login(ctx, requests.Login{Email: "rita@example.com", Password: "sunshine1"})
	require.NoError(t, err)

	next, err := identity.Refresh(ctx, requests.Refresh{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, next.RefreshToken)

	// The old refresh token was overwritten and cannot be replayed.
	_, err = identity.Refresh(ctx, requests.Refresh{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
	assert.True(t, apperr.IsInvalid(err))
}

func TestRefreshRejectsForgedAccessToken(t *testing.T) {
	identity := newIdentity(t)
	user := register(t, identity)
	verify(t, identity, user.ID)
	ctx := context.Background()

	pair, err := identity.Login(ctx, requests.Login{Email: "rita@example.com", Password: "sunshine1"})
	require.NoError(t, err)

	_, err = identity.Refresh(ctx, requests.Refresh{
		AccessToken:  "garbage.token.here",
		RefreshToken: pair.RefreshToken,
	})
	assert.True(t, apperr.IsInvalid(err))
}

func TestStampRotationInvalidatesOldTokens(t *testing.T) {
	identity := newIdentity(t)
	user := register(t, identity)
	verify(t, identity, user.ID)
	ctx := context.Background()

	first, err := identity.Login(ctx, requests.Login{Email: "rita@example.com", Password: "sunshine1"})
	require.NoError(t, err)

	firstClaims, err := auth.ValidateToken(first.AccessToken)
	require.NoError(t, err)
	assert.True(t, identity.ValidStamp(ctx, user.ID, firstClaims.Stamp))

	// A second login rotates the stamp, invalidating the first token.
	_, err = identity.Login(ctx, requests.Login{Email: "rita@example.com", Password: "sunshine1"})
	require.NoError(t, err)

	assert.False(t, identity.ValidStamp(ctx, user.ID, firstClaims.Stamp))
}

func TestRegisterSendsVerificationMail(t *testing.T) {
	sent := make(chan string, 1)
	identity := NewIdentityService(newTestDB(t), cache.Nop()).
		WithMailer(func(to, subject, tmpl string, data interface{}) error {
			sent <- to
			return nil
		})

	register(t, identity)

	select {
	case to := <-sent:
		assert.Equal(t, "rita@example.com", to)
	case <-time.After(2 * time.Second):
		t.Fatal("verification mail was never sent")
	}
}
