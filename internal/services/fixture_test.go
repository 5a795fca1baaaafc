package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/itportal/internal/cryptox"
	"github.com/dmitrijs2005/itportal/internal/metrics"
	"github.com/dmitrijs2005/itportal/internal/models"
	"github.com/dmitrijs2005/itportal/internal/session"
	"github.com/dmitrijs2005/itportal/internal/storage"
	"github.com/dmitrijs2005/itportal/internal/store"
)

var (
	adminActor = session.Actor{Email: store.SeedAdminEmail, Role: models.RoleAdmin}
	bobActor   = session.Actor{Email: "bob@x.io", Role: models.RoleUser}
	eveActor   = session.Actor{Email: "eve@x.io", Role: models.RoleUser}
	anonymous  = session.Actor{}
)

type fixture struct {
	repo     *storage.MemoryRepository
	store    *store.Store
	metrics  *metrics.Metrics
	sessions *session.Manager
	hasher   cryptox.Hasher
}

// newFixture loads a freshly seeded store and adds two verified users,
// bob and eve, both with password "secret-pw".
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	f := &fixture{
		repo:    storage.NewMemoryRepository(),
		metrics: metrics.New(),
		hasher:  cryptox.SHA256{},
	}
	f.store = store.New(f.repo, f.hasher, nil, f.metrics)
	f.sessions = session.NewManager(f.repo, []byte("k"), time.Hour, nil)

	_, err := f.store.Load(ctx)
	require.NoError(t, err)

	accounts := NewAccountService(f.store, f.hasher, nil, f.metrics)
	for _, email := range []string{bobActor.Email, eveActor.Email} {
		_, err := accounts.Create(ctx, adminActor, AccountInput{
			FirstName: "First", LastName: "Last", Email: email, Password: "secret-pw",
		})
		require.NoError(t, err)
	}
	return f
}

// reload reads the persisted document through a second store.
func (f *fixture) reload(t *testing.T) *models.Document {
	t.Helper()
	doc, err := store.New(f.repo, f.hasher, nil, nil).Load(context.Background())
	require.NoError(t, err)
	return doc
}

func (f *fixture) deniedLine(op string) string {
	return "portal_denied_operations_total{operation=" + op + "} 1"
}

func ptr[T any](v T) *T { return &v }
