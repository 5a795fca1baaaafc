// Package session tracks which account, if any, is logged in. A Manager
// is created once per process and passed explicitly to whoever needs it.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/itportal/internal/common"
	"github.com/dmitrijs2005/itportal/internal/logging"
	"github.com/dmitrijs2005/itportal/internal/models"
	"github.com/dmitrijs2005/itportal/internal/storage"
)

// Actor is the immutable view of a session that services authorize
// against. The zero Actor is an anonymous visitor.
type Actor struct {
	Email string
	Role  models.Role
}

func (a Actor) IsAuthenticated() bool { return a.Email != "" }
func (a Actor) IsAdmin() bool         { return a.IsAuthenticated() && a.Role == models.RoleAdmin }

// ActorFor returns the actor acting as acc.
func ActorFor(acc models.Account) Actor {
	return Actor{Email: acc.Email, Role: acc.Role}
}

// Manager holds the current account and mirrors it to storage as a
// signed snapshot so a restarted process can pick the session up again.
type Manager struct {
	mu      sync.RWMutex
	repo    storage.Repository
	secret  []byte
	ttl     time.Duration
	logger  logging.Logger
	now     func() time.Time
	current *models.Account
}

func NewManager(repo storage.Repository, secret []byte, ttl time.Duration, logger logging.Logger) *Manager {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Manager{
		repo:   repo,
		secret: secret,
		ttl:    ttl,
		logger: logger.With("component", "session"),
		now:    time.Now,
	}
}

// LogIn makes acc the current account and persists its snapshot. A
// snapshot that cannot be written only costs reload survival.
func (m *Manager) LogIn(ctx context.Context, acc models.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.current = &acc
	m.persist(ctx, acc)
	m.logger.Info(ctx, "logged in", "email", acc.Email, "role", string(acc.Role))
}

// LogOut clears the session and removes its snapshot.
func (m *Manager) LogOut(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil {
		m.logger.Info(ctx, "logged out", "email", m.current.Email)
	}
	m.current = nil
	if err := m.repo.Delete(ctx, common.SessionKey); err != nil {
		m.logger.Warn(ctx, "session snapshot not removed", "error", err.Error())
	}
}

// Restore re-establishes the session from the stored snapshot. The
// snapshot must verify, and its email must still name a verified account
// in doc; the session then points at that authoritative record rather
// than the snapshot. Any failure leaves the session logged out and the
// snapshot removed.
func (m *Manager) Restore(ctx context.Context, doc *models.Document) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.current = nil

	raw, err := m.repo.Get(ctx, common.SessionKey)
	if err != nil {
		m.logger.Warn(ctx, "session snapshot unreadable", "error", err.Error())
		return false
	}
	if len(raw) == 0 {
		return false
	}

	snapshot, err := DecodeSnapshot(string(raw), m.secret, m.now())
	if err != nil {
		m.logger.Info(ctx, "session snapshot rejected", "error", err.Error())
		m.drop(ctx)
		return false
	}

	acc, ok := doc.FindAccount(snapshot.Email)
	if !ok || !acc.Verified {
		m.logger.Info(ctx, "session account no longer valid", "email", snapshot.Email)
		m.drop(ctx)
		return false
	}

	m.current = &acc
	m.persist(ctx, acc)
	return true
}

// Refresh re-reads the current account from doc after it may have been
// edited. The session ends if the account is gone.
func (m *Manager) Refresh(ctx context.Context, doc *models.Document) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return
	}
	acc, ok := doc.FindAccount(m.current.Email)
	if !ok {
		m.logger.Info(ctx, "session account removed", "email", m.current.Email)
		m.current = nil
		m.drop(ctx)
		return
	}
	m.current = &acc
	m.persist(ctx, acc)
}

// Current returns the logged-in account.
func (m *Manager) Current() (models.Account, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return models.Account{}, false
	}
	return *m.current, true
}

func (m *Manager) IsAuthenticated() bool {
	_, ok := m.Current()
	return ok
}

func (m *Manager) IsAdmin() bool {
	acc, ok := m.Current()
	return ok && acc.IsAdmin()
}

// Actor returns the current actor, or the anonymous actor.
func (m *Manager) Actor() Actor {
	acc, ok := m.Current()
	if !ok {
		return Actor{}
	}
	return ActorFor(acc)
}

func (m *Manager) persist(ctx context.Context, acc models.Account) {
	token, err := EncodeSnapshot(acc, m.secret, m.ttl, m.now())
	if err != nil {
		m.logger.Warn(ctx, "session snapshot not signed", "error", err.Error())
		return
	}
	if err := m.repo.Set(ctx, common.SessionKey, []byte(token)); err != nil {
		m.logger.Warn(ctx, "session snapshot not saved", "error", err.Error())
	}
}

func (m *Manager) drop(ctx context.Context) {
	if err := m.repo.Delete(ctx, common.SessionKey); err != nil {
		m.logger.Warn(ctx, "session snapshot not removed", "error", err.Error())
	}
}
