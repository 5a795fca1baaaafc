package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/itportal/internal/common"
	"github.com/dmitrijs2005/itportal/internal/cryptox"
	"github.com/dmitrijs2005/itportal/internal/logging"
	"github.com/dmitrijs2005/itportal/internal/metrics"
	"github.com/dmitrijs2005/itportal/internal/models"
	"github.com/dmitrijs2005/itportal/internal/session"
)

// AccountInput holds the form values for creating or editing an account.
// On update a blank Password keeps the stored digest, a blank Role keeps
// the current role and a nil Verified keeps the current flag.
type AccountInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Verified  *bool
	Role      models.Role
}

// AccountService manages accounts on behalf of an administrator.
//
// An actor can never delete its own account, and editing its own record
// through Update cannot change role, verified flag or email.
type AccountService interface {
	List(ctx context.Context, actor session.Actor) ([]models.Account, error)
	Create(ctx context.Context, actor session.Actor, in AccountInput) (models.Account, error)
	Update(ctx context.Context, actor session.Actor, email string, in AccountInput) (models.Account, error)
	Delete(ctx context.Context, actor session.Actor, email string) (models.Account, error)
	ResetPassword(ctx context.Context, actor session.Actor, email, password string) (models.Account, error)
}

type accountService struct {
	base
	hasher cryptox.Hasher
}

func NewAccountService(docs Documents, hasher cryptox.Hasher, logger logging.Logger, m *metrics.Metrics) AccountService {
	return &accountService{base: newBase(docs, logger, m, "accounts"), hasher: hasher}
}

func (s *accountService) List(ctx context.Context, actor session.Actor) ([]models.Account, error) {
	if err := s.requireAdmin(ctx, actor, "list accounts"); err != nil {
		return nil, err
	}
	return s.docs.Snapshot().Accounts, nil
}

func (s *accountService) Create(ctx context.Context, actor session.Actor, in AccountInput) (models.Account, error) {
	if err := s.requireAdmin(ctx, actor, "create account"); err != nil {
		return models.Account{}, err
	}

	acc, err := accountFields(in)
	if err != nil {
		return models.Account{}, err
	}
	if acc.Role == "" {
		acc.Role = models.RoleUser
	}
	acc.Verified = true
	if in.Verified != nil {
		acc.Verified = *in.Verified
	}
	if err := validPassword(in.Password); err != nil {
		return models.Account{}, err
	}
	if acc.Password, err = s.hasher.Digest(ctx, in.Password); err != nil {
		return models.Account{}, fmt.Errorf("hash password: %w", err)
	}

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

	s.logger.Info(ctx, "account created", "email", acc.Email, "role", string(acc.Role), "by", actor.Email)
	return acc, nil
}

func (s *accountService) Update(ctx context.Context, actor session.Actor, email string, in AccountInput) (models.Account, error) {
	if err := s.requireAdmin(ctx, actor, "update account"); err != nil {
		return models.Account{}, err
	}

	fields, err := accountFields(in)
	if err != nil {
		return models.Account{}, err
	}

	var digest string
	if in.Password != "" {
		if err := validPassword(in.Password); err != nil {
			return models.Account{}, err
		}
		if digest, err = s.hasher.Digest(ctx, in.Password); err != nil {
			return models.Account{}, fmt.Errorf("hash password: %w", err)
		}
	}

	var updated models.Account
	err = s.docs.Update(ctx, func(doc *models.Document) error {
		i := doc.AccountIndex(email)
		if i < 0 {
			return fmt.Errorf("%w: account %q", common.ErrNotFound, email)
		}
		acc := doc.Accounts[i]

		next := acc
		next.FirstName = fields.FirstName
		next.LastName = fields.LastName
		next.Email = fields.Email
		if fields.Role != "" {
			next.Role = fields.Role
		}
		if in.Verified != nil {
			next.Verified = *in.Verified
		}
		if digest != "" {
			next.Password = digest
		}

		if acc.Email == actor.Email {
			if next.Email != acc.Email || next.Role != acc.Role || next.Verified != acc.Verified {
				s.deny(ctx, actor, "update own account")
				return fmt.Errorf("%w: you cannot change your own email, role or verification", common.ErrForbidden)
			}
		}
		if next.Email != acc.Email && doc.AccountIndex(next.Email) >= 0 {
			return fmt.Errorf("%w: email %q is already registered", common.ErrConflict, next.Email)
		}

		doc.Accounts[i] = next
		updated = next
		return nil
	})
	if err != nil {
		return models.Account{}, err
	}

	s.logger.Info(ctx, "account updated", "email", updated.Email, "by", actor.Email)
	return updated, nil
}

func (s *accountService) Delete(ctx context.Context, actor session.Actor, email string) (models.Account, error) {
	if err := s.requireAdmin(ctx, actor, "delete account"); err != nil {
		return models.Account{}, err
	}

	var removed models.Account
	err := s.docs.Update(ctx, func(doc *models.Document) error {
		i := doc.AccountIndex(email)
		if i < 0 {
			return fmt.Errorf("%w: account %q", common.ErrNotFound, email)
		}
		if email == actor.Email {
			s.deny(ctx, actor, "delete own account")
			return fmt.Errorf("%w: you cannot delete your own account", common.ErrForbidden)
		}
		removed = doc.Accounts[i]
		doc.Accounts = append(doc.Accounts[:i], doc.Accounts[i+1:]...)
		return nil
	})
	if err != nil {
		return models.Account{}, err
	}

	s.logger.Info(ctx, "account deleted", "email", email, "by", actor.Email)
	return removed, nil
}

func (s *accountService) ResetPassword(ctx context.Context, actor session.Actor, email, password string) (models.Account, error) {
	if err := s.requireAdmin(ctx, actor, "reset password"); err != nil {
		return models.Account{}, err
	}
	if err := validPassword(password); err != nil {
		return models.Account{}, err
	}
	digest, err := s.hasher.Digest(ctx, password)
	if err != nil {
		return models.Account{}, fmt.Errorf("hash password: %w", err)
	}

	var updated models.Account
	err = s.docs.Update(ctx, func(doc *models.Document) error {
		i := doc.AccountIndex(email)
		if i < 0 {
			return fmt.Errorf("%w: account %q", common.ErrNotFound, email)
		}
		doc.Accounts[i].Password = digest
		updated = doc.Accounts[i]
		return nil
	})
	if err != nil {
		return models.Account{}, err
	}

	s.logger.Info(ctx, "password reset", "email", email, "by", actor.Email)
	return updated, nil
}

// accountFields validates the text fields shared by create and update.
func accountFields(in AccountInput) (models.Account, error) {
	var (
		acc models.Account
		err error
	)
	if acc.FirstName, err = required("first name", in.FirstName); err != nil {
		return acc, err
	}
	if acc.LastName, err = required("last name", in.LastName); err != nil {
		return acc, err
	}
	if acc.Email, err = validEmail(in.Email); err != nil {
		return acc, err
	}
	if acc.Role, err = parseRole(string(in.Role)); err != nil {
		return acc, err
	}
	return acc, nil
}

// parseRole accepts a role name in any case; blank yields "".
func parseRole(value string) (models.Role, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "":
		return "", nil
	case "admin":
		return models.RoleAdmin, nil
	case "user":
		return models.RoleUser, nil
	}
	return "", fmt.Errorf("%w: unknown role %q", common.ErrValidation, value)
}
