package services

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/time/rate"

	"github.com/dmitrijs2005/itportal/internal/common"
	"github.com/dmitrijs2005/itportal/internal/cryptox"
	"github.com/dmitrijs2005/itportal/internal/logging"
	"github.com/dmitrijs2005/itportal/internal/metrics"
	"github.com/dmitrijs2005/itportal/internal/models"
	"github.com/dmitrijs2005/itportal/internal/session"
	"github.com/dmitrijs2005/itportal/internal/storage"
)

// RegisterInput holds the self-registration form.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// AuthService covers what a visitor does to and with their own account.
//
// Contract:
//   - Register: create an unverified User and remember it as pending.
//   - VerifyEmail: mark an account verified (simulated mail link). Only
//     the pending email may be verified, unless the actor is an admin.
//   - PendingVerification: the last registered, not yet verified email.
//   - Login: start a session; only verified accounts with a matching
//     password succeed, anything else is common.ErrNotFound.
//   - Logout: end the session.
//   - UpdateProfile, ChangePassword: edit the logged-in account.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (models.Account, error)
	VerifyEmail(ctx context.Context, actor session.Actor, email string) (models.Account, error)
	PendingVerification(ctx context.Context) (string, error)
	Login(ctx context.Context, email, password string) (models.Account, error)
	Logout(ctx context.Context)
	UpdateProfile(ctx context.Context, actor session.Actor, firstName, lastName string) (models.Account, error)
	ChangePassword(ctx context.Context, actor session.Actor, current, next string) error
}

type authService struct {
	base
	hasher   cryptox.Hasher
	sessions *session.Manager
	repo     storage.Repository
	limiter  *rate.Limiter
}

// NewAuthService builds an AuthService. repo holds the pending
// verification key; limiter throttles Login and may be nil.
func NewAuthService(docs Documents, hasher cryptox.Hasher, sessions *session.Manager, repo storage.Repository,
	limiter *rate.Limiter, logger logging.Logger, m *metrics.Metrics) AuthService {
	return &authService{
		base:     newBase(docs, logger, m, "auth"),
		hasher:   hasher,
		sessions: sessions,
		repo:     repo,
		limiter:  limiter,
	}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (models.Account, error) {
	acc, err := accountFields(AccountInput{FirstName: in.FirstName, LastName: in.LastName, Email: in.Email})
	if err != nil {
		return models.Account{}, err
	}
	if err := validPassword(in.Password); err != nil {
		return models.Account{}, err
	}
	if acc.Password, err = s.hasher.Digest(ctx, in.Password); err != nil {
		return models.Account{}, fmt.Errorf("hash password: %w", err)
	}
	acc.Role = models.RoleUser
	acc.Verified = false

	err = s.docs.Update(ctx, func(doc *models.Document) error {
		if doc.AccountIndex(acc.Email) >= 0 {
			return fmt.Errorf("%w: email %q is already registered", common.ErrConflict, acc.Email)
		}
		doc.Accounts = append(doc.Accounts, acc)
		return nil
	})
	if err != nil {
		return models.Account{}, err
	}

	if err := s.repo.Set(ctx, common.PendingVerificationKey, []byte(acc.Email)); err != nil {
		s.logger.Warn(ctx, "pending verification not saved", "error", err.Error())
	}
	s.logger.Info(ctx, "account registered", "email", acc.Email)
	return acc, nil
}

func (s *authService) VerifyEmail(ctx context.Context, actor session.Actor, email string) (models.Account, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return models.Account{}, fmt.Errorf("%w: email is required", common.ErrValidation)
	}

	pending, err := s.PendingVerification(ctx)
	if err != nil {
		return models.Account{}, err
	}
	if email != pending && !actor.IsAdmin() {
		s.deny(ctx, actor, "verify email")
		return models.Account{}, fmt.Errorf("%w: %q is not awaiting verification", common.ErrForbidden, email)
	}

	var verified models.Account
	err = s.docs.Update(ctx, func(doc *models.Document) error {
		i := doc.AccountIndex(email)
		if i < 0 {
			return fmt.Errorf("%w: account %q", common.ErrNotFound, email)
		}
		doc.Accounts[i].Verified = true
		verified = doc.Accounts[i]
		return nil
	})
	if err != nil {
		return models.Account{}, err
	}

	if pending == email {
		if err := s.repo.Delete(ctx, common.PendingVerificationKey); err != nil {
			s.logger.Warn(ctx, "pending verification not cleared", "error", err.Error())
		}
	}
	s.logger.Info(ctx, "email verified", "email", email)
	return verified, nil
}

func (s *authService) PendingVerification(ctx context.Context) (string, error) {
	raw, err := s.repo.Get(ctx, common.PendingVerificationKey)
	if err != nil {
		return "", fmt.Errorf("read pending verification: %w", err)
	}
	return string(raw), nil
}

func (s *authService) Login(ctx context.Context, email, password string) (models.Account, error) {
	if s.limiter != nil && !s.limiter.Allow() {
		s.logger.Warn(ctx, "login throttled", "email", email)
		return models.Account{}, fmt.Errorf("%w: try again later", common.ErrThrottled)
	}

	email = strings.TrimSpace(email)
	acc, ok := s.docs.Snapshot().FindAccount(email)
	if ok && acc.Verified {
		match, err := cryptox.Matches(ctx, s.hasher, password, acc.Password)
		if err != nil {
			return models.Account{}, fmt.Errorf("hash password: %w", err)
		}
		if match {
			s.sessions.LogIn(ctx, acc)
			return acc, nil
		}
	}

	s.logger.Info(ctx, "login rejected", "email", email)
	return models.Account{}, fmt.Errorf("%w: invalid credentials or email not verified", common.ErrNotFound)
}

func (s *authService) Logout(ctx context.Context) {
	s.sessions.LogOut(ctx)
}

func (s *authService) UpdateProfile(ctx context.Context, actor session.Actor, firstName, lastName string) (models.Account, error) {
	if err := s.requireAuth(ctx, actor, "update profile"); err != nil {
		return models.Account{}, err
	}
	first, err := required("first name", firstName)
	if err != nil {
		return models.Account{}, err
	}
	last, err := required("last name", lastName)
	if err != nil {
		return models.Account{}, err
	}

	var updated models.Account
	err = s.docs.Update(ctx, func(doc *models.Document) error {
		i := doc.AccountIndex(actor.Email)
		if i < 0 {
			return fmt.Errorf("%w: account %q", common.ErrNotFound, actor.Email)
		}
		doc.Accounts[i].FirstName = first
		doc.Accounts[i].LastName = last
		updated = doc.Accounts[i]
		return nil
	})
	if err != nil {
		return models.Account{}, err
	}

	s.sessions.Refresh(ctx, s.docs.Snapshot())
	return updated, nil
}

func (s *authService) ChangePassword(ctx context.Context, actor session.Actor, current, next string) error {
	if err := s.requireAuth(ctx, actor, "change password"); err != nil {
		return err
	}
	if err := validPassword(next); err != nil {
		return err
	}

	acc, ok := s.docs.Snapshot().FindAccount(actor.Email)
	if !ok {
		return fmt.Errorf("%w: account %q", common.ErrNotFound, actor.Email)
	}
	match, err := cryptox.Matches(ctx, s.hasher, current, acc.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if !match {
		return fmt.Errorf("%w: current password is incorrect", common.ErrValidation)
	}
	digest, err := s.hasher.Digest(ctx, next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	err = s.docs.Update(ctx, func(doc *models.Document) error {
		i := doc.AccountIndex(actor.Email)
		if i < 0 {
			return fmt.Errorf("%w: account %q", common.ErrNotFound, actor.Email)
		}
		doc.Accounts[i].Password = digest
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "password changed", "email", actor.Email)
	return nil
}
