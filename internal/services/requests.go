package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/itportal/internal/common"
	"github.com/dmitrijs2005/itportal/internal/ids"
	"github.com/dmitrijs2005/itportal/internal/logging"
	"github.com/dmitrijs2005/itportal/internal/metrics"
	"github.com/dmitrijs2005/itportal/internal/models"
	"github.com/dmitrijs2005/itportal/internal/session"
)

// RequestInput is what a user submits. Date and owner come from the
// service, never from the form.
type RequestInput struct {
	Type  string
	Items []models.Item
}

// RequestService manages requests. Administrators see and decide on all
// of them; users see, create and withdraw their own.
type RequestService interface {
	List(ctx context.Context, actor session.Actor) ([]models.Request, error)
	Create(ctx context.Context, actor session.Actor, in RequestInput) (models.Request, error)
	UpdateStatus(ctx context.Context, actor session.Actor, id string, status models.RequestStatus) (models.Request, error)
	Delete(ctx context.Context, actor session.Actor, id string) (models.Request, error)
}

type requestService struct {
	base
	now   func() time.Time
	newID func() string
}

func NewRequestService(docs Documents, logger logging.Logger, m *metrics.Metrics) RequestService {
	return &requestService{
		base:  newBase(docs, logger, m, "requests"),
		now:   time.Now,
		newID: ids.NewSortable,
	}
}

func (s *requestService) List(ctx context.Context, actor session.Actor) ([]models.Request, error) {
	if err := s.requireAuth(ctx, actor, "list requests"); err != nil {
		return nil, err
	}
	all := s.docs.Snapshot().Requests
	if actor.IsAdmin() {
		return all, nil
	}
	own := make([]models.Request, 0, len(all))
	for _, r := range all {
		if r.EmployeeEmail == actor.Email {
			own = append(own, r)
		}
	}
	return own, nil
}

func (s *requestService) Create(ctx context.Context, actor session.Actor, in RequestInput) (models.Request, error) {
	if err := s.requireAuth(ctx, actor, "create request"); err != nil {
		return models.Request{}, err
	}

	typ, err := parseRequestType(in.Type)
	if err != nil {
		return models.Request{}, err
	}
	items, err := requestItems(in.Items)
	if err != nil {
		return models.Request{}, err
	}

	req := models.Request{
		ID:            s.newID(),
		Type:          typ,
		Items:         items,
		Status:        models.StatusPending,
		Date:          s.now().Format(common.DateLayout),
		EmployeeEmail: actor.Email,
	}
	err = s.docs.Update(ctx, func(doc *models.Document) error {
		doc.Requests = append(doc.Requests, req)
		return nil
	})
	if err != nil {
		return models.Request{}, err
	}

	s.logger.Info(ctx, "request created", "id", req.ID, "type", req.Type, "by", actor.Email)
	return req, nil
}

func (s *requestService) UpdateStatus(ctx context.Context, actor session.Actor, id string, status models.RequestStatus) (models.Request, error) {
	if err := s.requireAdmin(ctx, actor, "update request status"); err != nil {
		return models.Request{}, err
	}
	if status != models.StatusApproved && status != models.StatusRejected {
		return models.Request{}, fmt.Errorf("%w: status must be %s or %s", common.ErrValidation, models.StatusApproved, models.StatusRejected)
	}

	var updated models.Request
	err := s.docs.Update(ctx, func(doc *models.Document) error {
		i := doc.RequestIndex(id)
		if i < 0 {
			return fmt.Errorf("%w: request %q", common.ErrNotFound, id)
		}
		doc.Requests[i].Status = status
		updated = doc.Requests[i]
		return nil
	})
	if err != nil {
		return models.Request{}, err
	}

	s.logger.Info(ctx, "request status changed", "id", id, "status", string(status), "by", actor.Email)
	return updated, nil
}

func (s *requestService) Delete(ctx context.Context, actor session.Actor, id string) (models.Request, error) {
	if err := s.requireAuth(ctx, actor, "delete request"); err != nil {
		return models.Request{}, err
	}

	var removed models.Request
	err := s.docs.Update(ctx, func(doc *models.Document) error {
		i := doc.RequestIndex(id)
		if i < 0 {
			return fmt.Errorf("%w: request %q", common.ErrNotFound, id)
		}
		if !actor.IsAdmin() && doc.Requests[i].EmployeeEmail != actor.Email {
			s.deny(ctx, actor, "delete request")
			return fmt.Errorf("%w: request %q belongs to someone else", common.ErrForbidden, id)
		}
		removed = doc.Requests[i]
		doc.Requests = append(doc.Requests[:i], doc.Requests[i+1:]...)
		return nil
	})
	if err != nil {
		return models.Request{}, err
	}

	s.logger.Info(ctx, "request deleted", "id", id, "by", actor.Email)
	return removed, nil
}

// parseRequestType matches a request type case-insensitively.
func parseRequestType(value string) (string, error) {
	v := strings.TrimSpace(value)
	for _, t := range models.RequestTypes {
		if strings.EqualFold(t, v) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: type must be one of %s", common.ErrValidation, strings.Join(models.RequestTypes, ", "))
}

// requestItems drops items without a name and checks the rest.
func requestItems(in []models.Item) ([]models.Item, error) {
	items := make([]models.Item, 0, len(in))
	for _, it := range in {
		it.Name = strings.TrimSpace(it.Name)
		if it.Name == "" {
			continue
		}
		if it.Qty < 1 {
			return nil, fmt.Errorf("%w: quantity of %q must be at least 1", common.ErrValidation, it.Name)
		}
		items = append(items, it)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: at least one item is required", common.ErrValidation)
	}
	return items, nil
}
