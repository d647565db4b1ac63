package auth

import (
	"context"
	"testing"

	domain "github.com/example/taskmanager/domain/user"
	"github.com/example/taskmanager/domain/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestService wires an AuthService against an in-memory database and
// session store, with the cheapest bcrypt cost to keep tests fast.
func newTestService(t *testing.T) *AuthService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}))

	sessions, err := NewMemorySessionStore()
	require.NoError(t, err)

	return NewAuthService(
		NewUserRepository(db),
		&PasswordHasher{cost: 4},
		NewCredentialValidator(),
		sessions,
	)
}

const (
	testEmail    = "test123@gmail.com"
	testPassword = "tomciopaluch5032"
)

func register(t *testing.T, service *AuthService) *domain.User {
	t.Helper()
	user, fieldErrs, err := service.Register(context.Background(), testEmail, testPassword, true)
	require.NoError(t, err)
	require.Nil(t, fieldErrs)
	return user
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates user without a session", func(t *testing.T) {
		service := newTestService(t)

		user, fieldErrs, err := service.Register(ctx, testEmail, testPassword, true)
		require.NoError(t, err)
		require.Nil(t, fieldErrs)

		assert.NotEmpty(t, user.ID)
		assert.Equal(t, testEmail, user.Email)
		assert.True(t, user.Active)
		assert.False(t, user.Staff)
		assert.True(t, user.TermsAccepted)
		assert.NotEqual(t, testPassword, user.PasswordHash)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		service := newTestService(t)
		register(t, service)

		_, fieldErrs, err := service.Register(ctx, testEmail, "an0therPassw0rem", true)
		require.NoError(t, err)
		assert.Equal(t, []string{MsgEmailExists}, fieldErrs["email"])
	})

	t.Run("rejects unaccepted terms", func(t *testing.T) {
		service := newTestService(t)

		_, fieldErrs, err := service.Register(ctx, testEmail, testPassword, false)
		require.NoError(t, err)
		assert.Equal(t, []string{MsgTermsNotAccepted}, fieldErrs["terms_accepted"])
	})

	t.Run("rejects password too similar to the email", func(t *testing.T) {
		service := newTestService(t)

		_, fieldErrs, err := service.Register(ctx, testEmail, testEmail+"12", true)
		require.NoError(t, err)
		assert.Equal(t, []string{MsgPasswordTooSimilar}, fieldErrs[validation.NonFieldErrors])
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		service := newTestService(t)

		_, fieldErrs, err := service.Register(ctx, "not-an-email", testPassword, true)
		require.NoError(t, err)
		assert.Equal(t, []string{MsgInvalidEmail}, fieldErrs["email"])
	})

	t.Run("rejects blank fields", func(t *testing.T) {
		service := newTestService(t)

		_, fieldErrs, err := service.Register(ctx, "", "", true)
		require.NoError(t, err)
		assert.Equal(t, []string{validation.MsgBlank}, fieldErrs["email"])
		assert.Equal(t, []string{validation.MsgBlank}, fieldErrs["password"])
	})

	t.Run("normalizes the email domain", func(t *testing.T) {
		service := newTestService(t)

		user, fieldErrs, err := service.Register(ctx, "Test123@GMAIL.com", testPassword, true)
		require.NoError(t, err)
		require.Nil(t, fieldErrs)
		assert.Equal(t, "Test123@gmail.com", user.Email)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("establishes a session", func(t *testing.T) {
		service := newTestService(t)
		registered := register(t, service)

		user, sessionID, fieldErrs, err := service.Login(ctx, testEmail, testPassword)
		require.NoError(t, err)
		require.Nil(t, fieldErrs)

		assert.Equal(t, registered.ID, user.ID)
		assert.NotEmpty(t, sessionID)

		identity, err := service.ResolveSession(ctx, sessionID)
		require.NoError(t, err)
		require.NotNil(t, identity)
		assert.Equal(t, registered.ID, identity.UserID)
		assert.Equal(t, testEmail, identity.Email)
	})

	t.Run("unknown email and wrong password fail identically", func(t *testing.T) {
		service := newTestService(t)
		register(t, service)

		_, _, unknownEmail, err := service.Login(ctx, "wrongemail@yahoo.com", testPassword)
		require.NoError(t, err)
		_, _, wrongPassword, err := service.Login(ctx, testEmail, "different")
		require.NoError(t, err)

		want := validation.FieldErrors{validation.NonFieldErrors: {MsgWrongCredentials}}
		assert.Equal(t, want, unknownEmail)
		assert.Equal(t, want, wrongPassword)
	})

	t.Run("inactive user cannot log in", func(t *testing.T) {
		service := newTestService(t)
		user := register(t, service)

		user.Active = false
		require.NoError(t, service.repo.db.Save(user).Error)

		_, _, fieldErrs, err := service.Login(ctx, testEmail, testPassword)
		require.NoError(t, err)
		assert.Equal(t, []string{MsgWrongCredentials}, fieldErrs[validation.NonFieldErrors])
	})
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	service := newTestService(t)
	register(t, service)

	_, sessionID, _, err := service.Login(ctx, testEmail, testPassword)
	require.NoError(t, err)

	require.NoError(t, service.Logout(ctx, sessionID))

	identity, err := service.ResolveSession(ctx, sessionID)
	require.NoError(t, err)
	assert.Nil(t, identity)

	// Logout is idempotent.
	require.NoError(t, service.Logout(ctx, sessionID))
	require.NoError(t, service.Logout(ctx, ""))
}

func TestAuthService_ResolveSession(t *testing.T) {
	ctx := context.Background()
	service := newTestService(t)

	t.Run("unknown session resolves to no identity", func(t *testing.T) {
		identity, err := service.ResolveSession(ctx, "no-such-session")
		require.NoError(t, err)
		assert.Nil(t, identity)
	})

	t.Run("empty session id resolves to no identity", func(t *testing.T) {
		identity, err := service.ResolveSession(ctx, "")
		require.NoError(t, err)
		assert.Nil(t, identity)
	})
}
