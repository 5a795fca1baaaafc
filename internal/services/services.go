// Package services implements the portal operations over the persisted
// document. Every operation takes the acting session explicitly, checks
// its input before touching the document, and saves the whole document
// before returning. Failures are typed by the sentinels in common.
package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/dmitrijs2005/itportal/internal/common"
	"github.com/dmitrijs2005/itportal/internal/logging"
	"github.com/dmitrijs2005/itportal/internal/metrics"
	"github.com/dmitrijs2005/itportal/internal/models"
	"github.com/dmitrijs2005/itportal/internal/session"
)

// MinPasswordLen is exclusive: a password needs more characters than this.
const MinPasswordLen = 6

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Documents is the slice of the store the services depend on.
type Documents interface {
	Snapshot() *models.Document
	Update(ctx context.Context, fn func(doc *models.Document) error) error
}

// base carries what every service needs.
type base struct {
	docs    Documents
	logger  logging.Logger
	metrics *metrics.Metrics
}

func newBase(docs Documents, logger logging.Logger, m *metrics.Metrics, component string) base {
	if logger == nil {
		logger = logging.Nop()
	}
	return base{docs: docs, logger: logger.With("component", component), metrics: m}
}

// requireAdmin rejects non-admin actors and records the denial.
func (b base) requireAdmin(ctx context.Context, actor session.Actor, op string) error {
	if actor.IsAdmin() {
		return nil
	}
	b.deny(ctx, actor, op)
	return fmt.Errorf("%w: %s requires an administrator", common.ErrForbidden, op)
}

// requireAuth rejects anonymous actors.
func (b base) requireAuth(ctx context.Context, actor session.Actor, op string) error {
	if actor.IsAuthenticated() {
		return nil
	}
	b.deny(ctx, actor, op)
	return fmt.Errorf("%w: %s requires a logged-in user", common.ErrForbidden, op)
}

func (b base) deny(ctx context.Context, actor session.Actor, op string) {
	b.metrics.Denied(op)
	b.logger.Info(ctx, "operation denied", "operation", op, "actor", actor.Email)
}

// required trims value and fails when nothing is left.
func required(field, value string) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", fmt.Errorf("%w: %s is required", common.ErrValidation, field)
	}
	return v, nil
}

func validEmail(value string) (string, error) {
	email, err := required("email", value)
	if err != nil {
		return "", err
	}
	if !emailPattern.MatchString(email) {
		return "", fmt.Errorf("%w: email %q is not a valid address", common.ErrValidation, email)
	}
	return email, nil
}

func validPassword(value string) error {
	if len([]rune(value)) <= MinPasswordLen {
		return fmt.Errorf("%w: password must be longer than %d characters", common.ErrValidation, MinPasswordLen)
	}
	return nil
}
