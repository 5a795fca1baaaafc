package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/dmitrijs2005/itportal/internal/common"
	"github.com/dmitrijs2005/itportal/internal/models"
	"github.com/dmitrijs2005/itportal/internal/session"
	"github.com/dmitrijs2005/itportal/internal/store"
)

func newAuth(f *fixture, limiter *rate.Limiter) AuthService {
	return NewAuthService(f.store, f.hasher, f.sessions, f.repo, limiter, nil, f.metrics)
}

func TestAuthService_RegisterVerifyLogin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := newAuth(f, nil)

	acc, err := svc.Register(ctx, RegisterInput{FirstName: "A", LastName: "B", Email: "a@b.com", Password: "pass1234"})
	require.NoError(t, err)
	assert.False(t, acc.Verified)
	assert.Equal(t, models.RoleUser, acc.Role)
	assert.NotEqual(t, "pass1234", acc.Password)

	pending, err := svc.PendingVerification(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", pending)

	_, err = svc.Login(ctx, "a@b.com", "pass1234")
	require.ErrorIs(t, err, common.ErrNotFound)
	assert.False(t, f.sessions.IsAuthenticated())

	acc, err = svc.VerifyEmail(ctx, anonymous, "a@b.com")
	require.NoError(t, err)
	assert.True(t, acc.Verified)

	pending, err = svc.PendingVerification(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	acc, err = svc.Login(ctx, " a@b.com ", "pass1234")
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", acc.Email)
	assert.Equal(t, session.Actor{Email: "a@b.com", Role: models.RoleUser}, f.sessions.Actor())

	svc.Logout(ctx)
	assert.False(t, f.sessions.IsAuthenticated())
}

func TestAuthService_RegisterRejects(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := newAuth(f, nil)

	_, err := svc.Register(ctx, RegisterInput{FirstName: "A", LastName: "B", Email: bobActor.Email, Password: "pass1234"})
	require.ErrorIs(t, err, common.ErrConflict)

	_, err = svc.Register(ctx, RegisterInput{FirstName: "A", LastName: "B", Email: "new@x.io", Password: "short"})
	require.ErrorIs(t, err, common.ErrValidation)

	_, err = svc.Register(ctx, RegisterInput{FirstName: "", LastName: "B", Email: "new@x.io", Password: "pass1234"})
	require.ErrorIs(t, err, common.ErrValidation)

	assert.Len(t, f.reload(t).Accounts, 3)
}

func TestAuthService_LoginRejectsWrongPassword(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := newAuth(f, nil)

	_, err := svc.Login(ctx, store.SeedAdminEmail, "wrong")
	require.ErrorIs(t, err, common.ErrNotFound)
	_, err = svc.Login(ctx, "ghost@x.io", store.SeedAdminPassword)
	require.ErrorIs(t, err, common.ErrNotFound)

	acc, err := svc.Login(ctx, store.SeedAdminEmail, store.SeedAdminPassword)
	require.NoError(t, err)
	assert.True(t, acc.IsAdmin())
	assert.True(t, f.sessions.IsAdmin())
}

func TestAuthService_LoginIsThrottled(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := newAuth(f, rate.NewLimiter(0, 2))

	_, err := svc.Login(ctx, bobActor.Email, "bad")
	require.ErrorIs(t, err, common.ErrNotFound)
	_, err = svc.Login(ctx, bobActor.Email, "bad")
	require.ErrorIs(t, err, common.ErrNotFound)

	_, err = svc.Login(ctx, bobActor.Email, "secret-pw")
	require.ErrorIs(t, err, common.ErrThrottled)
	assert.False(t, f.sessions.IsAuthenticated())
}

func TestAuthService_VerifyUnknownEmail(t *testing.T) {
	f := newFixture(t)
	_, err := newAuth(f, nil).VerifyEmail(context.Background(), adminActor, "ghost@x.io")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestAuthService_VerifyOnlyPendingEmail(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := newAuth(f, nil)

	_, err := svc.Register(ctx, RegisterInput{FirstName: "Vic", LastName: "Tim", Email: "victim@x.io", Password: "pass1234"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, RegisterInput{FirstName: "Mal", LastName: "Lory", Email: "mallory@x.io", Password: "pass1234"})
	require.NoError(t, err)

	for name, actor := range map[string]session.Actor{"anonymous": anonymous, "user": bobActor} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.VerifyEmail(ctx, actor, "victim@x.io")
			require.ErrorIs(t, err, common.ErrForbidden)

			i := f.store.Snapshot().AccountIndex("victim@x.io")
			assert.False(t, f.store.Snapshot().Accounts[i].Verified)
		})
	}

	_, err = svc.Login(ctx, "victim@x.io", "pass1234")
	require.ErrorIs(t, err, common.ErrNotFound)
	lines, err := f.metrics.Lines()
	require.NoError(t, err)
	assert.Contains(t, lines, "portal_denied_operations_total{operation=verify email} 2")

	acc, err := svc.VerifyEmail(ctx, anonymous, "mallory@x.io")
	require.NoError(t, err)
	assert.True(t, acc.Verified)

	// admins may verify any account
	acc, err = svc.VerifyEmail(ctx, adminActor, "victim@x.io")
	require.NoError(t, err)
	assert.True(t, acc.Verified)
}

func TestAuthService_UpdateProfileRefreshesSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := newAuth(f, nil)

	_, err := svc.UpdateProfile(ctx, anonymous, "X", "Y")
	require.ErrorIs(t, err, common.ErrForbidden)

	_, err = svc.Login(ctx, bobActor.Email, "secret-pw")
	require.NoError(t, err)

	_, err = svc.UpdateProfile(ctx, f.sessions.Actor(), "  ", "Y")
	require.ErrorIs(t, err, common.ErrValidation)

	acc, err := svc.UpdateProfile(ctx, f.sessions.Actor(), "Bobby", "Tables")
	require.NoError(t, err)
	assert.Equal(t, "Bobby Tables", acc.FullName())

	current, ok := f.sessions.Current()
	require.True(t, ok)
	assert.Equal(t, "Bobby", current.FirstName)
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := newAuth(f, nil)

	err := svc.ChangePassword(ctx, bobActor, "not-the-password", "new-password")
	require.ErrorIs(t, err, common.ErrValidation)

	err = svc.ChangePassword(ctx, bobActor, "secret-pw", "short")
	require.ErrorIs(t, err, common.ErrValidation)

	require.NoError(t, svc.ChangePassword(ctx, bobActor, "secret-pw", "new-password"))

	_, err = svc.Login(ctx, bobActor.Email, "secret-pw")
	require.ErrorIs(t, err, common.ErrNotFound)
	_, err = svc.Login(ctx, bobActor.Email, "new-password")
	require.NoError(t, err)
}
