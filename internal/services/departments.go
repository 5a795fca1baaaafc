package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/itportal/internal/common"
	"github.com/dmitrijs2005/itportal/internal/ids"
	"github.com/dmitrijs2005/itportal/internal/logging"
	"github.com/dmitrijs2005/itportal/internal/metrics"
	"github.com/dmitrijs2005/itportal/internal/models"
	"github.com/dmitrijs2005/itportal/internal/session"
)

type DepartmentInput struct {
	Name        string
	Description string
}

// DepartmentService manages departments. Deleting a department leaves
// employees that reference it in place.
type DepartmentService interface {
	List(ctx context.Context, actor session.Actor) ([]models.Department, error)
	Create(ctx context.Context, actor session.Actor, in DepartmentInput) (models.Department, error)
	Update(ctx context.Context, actor session.Actor, id string, in DepartmentInput) (models.Department, error)
	Delete(ctx context.Context, actor session.Actor, id string) (models.Department, error)
}

type departmentService struct {
	base
	newID func() string
}

func NewDepartmentService(docs Documents, logger logging.Logger, m *metrics.Metrics) DepartmentService {
	return &departmentService{base: newBase(docs, logger, m, "departments"), newID: ids.NewRandom}
}

func (s *departmentService) List(ctx context.Context, actor session.Actor) ([]models.Department, error) {
	if err := s.requireAdmin(ctx, actor, "list departments"); err != nil {
		return nil, err
	}
	return s.docs.Snapshot().Departments, nil
}

func (s *departmentService) Create(ctx context.Context, actor session.Actor, in DepartmentInput) (models.Department, error) {
	if err := s.requireAdmin(ctx, actor, "create department"); err != nil {
		return models.Department{}, err
	}
	dep, err := departmentFields(in)
	if err != nil {
		return models.Department{}, err
	}
	dep.ID = s.newID()

	err = s.docs.Update(ctx, func(doc *models.Document) error {
		doc.Departments = append(doc.Departments, dep)
		return nil
	})
	if err != nil {
		return models.Department{}, err
	}

	s.logger.Info(ctx, "department created", "id", dep.ID, "name", dep.Name)
	return dep, nil
}

func (s *departmentService) Update(ctx context.Context, actor session.Actor, id string, in DepartmentInput) (models.Department, error) {
	if err := s.requireAdmin(ctx, actor, "update department"); err != nil {
		return models.Department{}, err
	}
	dep, err := departmentFields(in)
	if err != nil {
		return models.Department{}, err
	}
	dep.ID = id

	err = s.docs.Update(ctx, func(doc *models.Document) error {
		i := doc.DepartmentIndex(id)
		if i < 0 {
			return fmt.Errorf("%w: department %q", common.ErrNotFound, id)
		}
		doc.Departments[i] = dep
		return nil
	})
	if err != nil {
		return models.Department{}, err
	}

	s.logger.Info(ctx, "department updated", "id", id)
	return dep, nil
}

func (s *departmentService) Delete(ctx context.Context, actor session.Actor, id string) (models.Department, error) {
	if err := s.requireAdmin(ctx, actor, "delete department"); err != nil {
		return models.Department{}, err
	}

	var removed models.Department
	err := s.docs.Update(ctx, func(doc *models.Document) error {
		i := doc.DepartmentIndex(id)
		if i < 0 {
			return fmt.Errorf("%w: department %q", common.ErrNotFound, id)
		}
		removed = doc.Departments[i]
		doc.Departments = append(doc.Departments[:i], doc.Departments[i+1:]...)
		return nil
	})
	if err != nil {
		return models.Department{}, err
	}

	s.logger.Info(ctx, "department deleted", "id", id, "name", removed.Name)
	return removed, nil
}

func departmentFields(in DepartmentInput) (models.Department, error) {
	var (
		dep models.Department
		err error
	)
	if dep.Name, err = required("name", in.Name); err != nil {
		return dep, err
	}
	if dep.Description, err = required("description", in.Description); err != nil {
		return dep, err
	}
	return dep, nil
}
