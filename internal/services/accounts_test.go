package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/itportal/internal/common"
	"github.com/dmitrijs2005/itportal/internal/models"
	"github.com/dmitrijs2005/itportal/internal/store"
)

func validAccount(email string) AccountInput {
	return AccountInput{FirstName: "Carol", LastName: "Clark", Email: email, Password: "longenough"}
}

func TestAccountService_Create(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewAccountService(f.store, f.hasher, nil, f.metrics)

	acc, err := svc.Create(ctx, adminActor, AccountInput{
		FirstName: "  Carol ", LastName: "Clark", Email: " carol@x.io ", Password: "longenough",
	})
	require.NoError(t, err)
	assert.Equal(t, "Carol", acc.FirstName)
	assert.Equal(t, "carol@x.io", acc.Email)
	assert.Equal(t, models.RoleUser, acc.Role)
	assert.True(t, acc.Verified)
	assert.Len(t, acc.Password, 64)
	assert.NotEqual(t, "longenough", acc.Password)

	persisted, ok := f.reload(t).FindAccount("carol@x.io")
	require.True(t, ok)
	assert.Equal(t, acc, persisted)

	acc, err = svc.Create(ctx, adminActor, AccountInput{
		FirstName: "Dan", LastName: "D", Email: "dan@x.io", Password: "longenough",
		Role: "admin", Verified: ptr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, acc.Role)
	assert.False(t, acc.Verified)
}

func TestAccountService_CreateRejects(t *testing.T) {
	tests := []struct {
		name    string
		input   func() AccountInput
		wantErr error
	}{
		{"blank first name", func() AccountInput { in := validAccount("c@x.io"); in.FirstName = "  "; return in }, common.ErrValidation},
		{"blank last name", func() AccountInput { in := validAccount("c@x.io"); in.LastName = ""; return in }, common.ErrValidation},
		{"no at sign", func() AccountInput { return validAccount("carol.x.io") }, common.ErrValidation},
		{"no tld", func() AccountInput { return validAccount("carol@x") }, common.ErrValidation},
		{"short password", func() AccountInput { in := validAccount("c@x.io"); in.Password = "123456"; return in }, common.ErrValidation},
		{"unknown role", func() AccountInput { in := validAccount("c@x.io"); in.Role = "root"; return in }, common.ErrValidation},
		{"duplicate email", func() AccountInput { return validAccount(bobActor.Email) }, common.ErrConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			svc := NewAccountService(f.store, f.hasher, nil, f.metrics)
			before := f.store.Snapshot()

			_, err := svc.Create(context.Background(), adminActor, tt.input())
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, before, f.store.Snapshot())
		})
	}
}

func TestAccountService_RequiresAdmin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewAccountService(f.store, f.hasher, nil, f.metrics)

	_, err := svc.List(ctx, bobActor)
	require.ErrorIs(t, err, common.ErrForbidden)
	_, err = svc.Create(ctx, anonymous, validAccount("c@x.io"))
	require.ErrorIs(t, err, common.ErrForbidden)
	_, err = svc.Delete(ctx, bobActor, eveActor.Email)
	require.ErrorIs(t, err, common.ErrForbidden)
	_, err = svc.ResetPassword(ctx, bobActor, eveActor.Email, "longenough")
	require.ErrorIs(t, err, common.ErrForbidden)

	lines, err := f.metrics.Lines()
	require.NoError(t, err)
	assert.Contains(t, lines, f.deniedLine("delete account"))
	assert.Len(t, f.reload(t).Accounts, 3)
}

func TestAccountService_UpdateKeepsUnsetFields(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewAccountService(f.store, f.hasher, nil, f.metrics)
	before, _ := f.store.Snapshot().FindAccount(bobActor.Email)

	acc, err := svc.Update(ctx, adminActor, bobActor.Email, AccountInput{
		FirstName: "Robert", LastName: "Brown", Email: bobActor.Email,
	})
	require.NoError(t, err)
	assert.Equal(t, "Robert", acc.FirstName)
	assert.Equal(t, before.Password, acc.Password)
	assert.Equal(t, before.Role, acc.Role)
	assert.Equal(t, before.Verified, acc.Verified)

	acc, err = svc.Update(ctx, adminActor, bobActor.Email, AccountInput{
		FirstName: "Robert", LastName: "Brown", Email: "robert@x.io", Password: "another-pw", Role: models.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, "robert@x.io", acc.Email)
	assert.Equal(t, models.RoleAdmin, acc.Role)
	assert.NotEqual(t, before.Password, acc.Password)

	_, ok := f.reload(t).FindAccount(bobActor.Email)
	assert.False(t, ok)
}

func TestAccountService_UpdateRejects(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewAccountService(f.store, f.hasher, nil, f.metrics)

	_, err := svc.Update(ctx, adminActor, "ghost@x.io", validAccount("ghost@x.io"))
	require.ErrorIs(t, err, common.ErrNotFound)

	_, err = svc.Update(ctx, adminActor, bobActor.Email, validAccount(eveActor.Email))
	require.ErrorIs(t, err, common.ErrConflict)

	in := validAccount(bobActor.Email)
	in.Password = "short"
	_, err = svc.Update(ctx, adminActor, bobActor.Email, in)
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestAccountService_SelfProtection(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewAccountService(f.store, f.hasher, nil, f.metrics)
	self := store.SeedAdminEmail
	before := f.store.Snapshot()

	attempts := map[string]AccountInput{
		"demote":   {FirstName: "Admin", LastName: "User", Email: self, Role: models.RoleUser},
		"unverify": {FirstName: "Admin", LastName: "User", Email: self, Verified: ptr(false)},
		"rename":   {FirstName: "Admin", LastName: "User", Email: "boss@x.io"},
	}
	for name, in := range attempts {
		_, err := svc.Update(ctx, adminActor, self, in)
		require.ErrorIs(t, err, common.ErrForbidden, name)
	}

	_, err := svc.Delete(ctx, adminActor, self)
	require.ErrorIs(t, err, common.ErrForbidden)
	assert.Equal(t, before, f.store.Snapshot())

	acc, err := svc.Update(ctx, adminActor, self, AccountInput{
		FirstName: "Head", LastName: "Admin", Email: self, Role: models.RoleAdmin, Verified: ptr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, "Head", acc.FirstName)
	assert.True(t, acc.IsAdmin())
}

func TestAccountService_DeleteAndReset(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewAccountService(f.store, f.hasher, nil, f.metrics)

	removed, err := svc.Delete(ctx, adminActor, eveActor.Email)
	require.NoError(t, err)
	assert.Equal(t, eveActor.Email, removed.Email)

	_, err = svc.Delete(ctx, adminActor, eveActor.Email)
	require.ErrorIs(t, err, common.ErrNotFound)

	_, err = svc.ResetPassword(ctx, adminActor, bobActor.Email, "tiny")
	require.ErrorIs(t, err, common.ErrValidation)

	acc, err := svc.ResetPassword(ctx, adminActor, bobActor.Email, "brand-new-pw")
	require.NoError(t, err)
	want, err := f.hasher.Digest(ctx, "brand-new-pw")
	require.NoError(t, err)
	assert.Equal(t, want, acc.Password)

	list, err := svc.List(ctx, adminActor)
	require.NoError(t, err)
	seen := map[string]bool{}
	for _, a := range list {
		assert.False(t, seen[a.Email], "duplicate email %q", a.Email)
		seen[a.Email] = true
	}
	assert.Len(t, list, 2)
}
