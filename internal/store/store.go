// Package store owns the portal document: it loads it from storage,
// recovers from corruption by reseeding, and writes it back wholesale
// after every mutation.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/itportal/internal/common"
	"github.com/dmitrijs2005/itportal/internal/cryptox"
	"github.com/dmitrijs2005/itportal/internal/logging"
	"github.com/dmitrijs2005/itportal/internal/metrics"
	"github.com/dmitrijs2005/itportal/internal/models"
	"github.com/dmitrijs2005/itportal/internal/storage"
)

// Store keeps the authoritative in-memory document and mirrors it to
// storage. Saves overwrite the stored blob unconditionally (last writer
// wins); the portal runs one session per store.
type Store struct {
	mu       sync.Mutex
	repo     storage.Repository
	hasher   cryptox.Hasher
	logger   logging.Logger
	metrics  *metrics.Metrics
	doc      *models.Document
	readOnly bool
}

func New(repo storage.Repository, hasher cryptox.Hasher, logger logging.Logger, m *metrics.Metrics) *Store {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Store{
		repo:    repo,
		hasher:  hasher,
		logger:  logger.With("component", "store"),
		metrics: m,
	}
}

// Load reads the document from storage and makes it current. An absent,
// empty, unparseable or malformed blob is replaced by seed data; Load
// only fails when the seed itself cannot be built.
func (s *Store) Load(ctx context.Context) (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.repo.Get(ctx, common.DocumentKey)
	if err != nil {
		s.enterReadOnly(ctx, err)
		return s.reseed(ctx, &corruptionError{reason: reasonUnreadable, err: err})
	}

	doc, migrated, err := decode(raw)
	if err != nil {
		return s.reseed(ctx, err)
	}

	s.doc = doc
	if migrated {
		s.logger.Info(ctx, "document migrated", "version", models.DocumentVersion)
		s.persist(ctx)
	}
	return doc.Clone(), nil
}

// Seed replaces the document with bootstrap data and persists it. Any
// stored session snapshot or pending verification is dropped with it,
// since both point into the discarded data.
func (s *Store) Seed(ctx context.Context) (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seed(ctx)
}

func (s *Store) seed(ctx context.Context) (*models.Document, error) {
	doc, err := seedDocument(ctx, s.hasher)
	if err != nil {
		return nil, err
	}
	s.doc = doc

	raw, err := encode(doc)
	if err != nil {
		return nil, err
	}
	if !s.readOnly {
		err = s.repo.Batch(ctx, func(ctx context.Context, r storage.Repository) error {
			if err := r.Set(ctx, common.DocumentKey, raw); err != nil {
				return err
			}
			if err := r.Delete(ctx, common.SessionKey); err != nil {
				return err
			}
			return r.Delete(ctx, common.PendingVerificationKey)
		})
		if err != nil {
			s.metrics.SaveFailed()
			s.enterReadOnly(ctx, err)
		} else {
			s.metrics.Saved()
		}
	}
	return doc.Clone(), nil
}

func (s *Store) reseed(ctx context.Context, cause error) (*models.Document, error) {
	var ce *corruptionError
	reason := reasonUnparseable
	if errors.As(cause, &ce) {
		reason = ce.reason
	}

	if reason == reasonAbsent {
		s.logger.Info(ctx, "no stored document, seeding")
	} else {
		s.logger.Warn(ctx, "stored document discarded, reseeding", "reason", reason, "error", cause.Error())
	}
	s.metrics.Reseeded(reason)

	return s.seed(ctx)
}

// Save makes doc current and overwrites the stored blob. When storage
// rejects the write the store switches to in-memory-only mode: the
// change is kept in memory, the failure is logged once, and Save still
// succeeds.
func (s *Store) Save(ctx context.Context, doc *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := encode(doc); err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	s.doc = doc.Clone()
	s.persist(ctx)
	return nil
}

// Update applies fn to a copy of the current document and, if fn
// succeeds, saves the copy. On error nothing changes.
func (s *Store) Update(ctx context.Context, fn func(doc *models.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return errors.New("store: document not loaded")
	}

	staged := s.doc.Clone()
	if err := fn(staged); err != nil {
		return err
	}
	if _, err := encode(staged); err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	s.doc = staged
	s.persist(ctx)
	return nil
}

// Snapshot returns a copy of the current document.
func (s *Store) Snapshot() *models.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return &models.Document{Version: models.DocumentVersion}
	}
	return s.doc.Clone()
}

// ReadOnly reports whether storage writes have been abandoned.
func (s *Store) ReadOnly() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readOnly
}

// persist writes s.doc; callers hold s.mu.
func (s *Store) persist(ctx context.Context) {
	if s.readOnly {
		return
	}
	raw, err := encode(s.doc)
	if err != nil {
		return
	}
	if err := s.repo.Set(ctx, common.DocumentKey, raw); err != nil {
		s.metrics.SaveFailed()
		s.enterReadOnly(ctx, err)
		return
	}
	s.metrics.Saved()
	s.logger.Debug(ctx, "document saved",
		"accounts", len(s.doc.Accounts),
		"departments", len(s.doc.Departments),
		"employees", len(s.doc.Employees),
		"requests", len(s.doc.Requests),
	)
}

func (s *Store) enterReadOnly(ctx context.Context, cause error) {
	if s.readOnly {
		return
	}
	s.readOnly = true
	s.logger.Error(ctx, "storage unavailable, continuing in memory only", "error", cause.Error())
}
