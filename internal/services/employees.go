package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/itportal/internal/common"
	"github.com/dmitrijs2005/itportal/internal/logging"
	"github.com/dmitrijs2005/itportal/internal/metrics"
	"github.com/dmitrijs2005/itportal/internal/models"
	"github.com/dmitrijs2005/itportal/internal/session"
)

type EmployeeInput struct {
	ID           string
	UserEmail    string
	Position     string
	DepartmentID string
	HireDate     string
}

// EmployeeView is an employee with its department resolved for display.
type EmployeeView struct {
	models.Employee
	DepartmentName string
}

// EmployeeService manages employee records. References to accounts and
// departments are checked when an employee is written, not afterwards.
type EmployeeService interface {
	List(ctx context.Context, actor session.Actor) ([]EmployeeView, error)
	Create(ctx context.Context, actor session.Actor, in EmployeeInput) (models.Employee, error)
	Update(ctx context.Context, actor session.Actor, id string, in EmployeeInput) (models.Employee, error)
	Delete(ctx context.Context, actor session.Actor, id string) (models.Employee, error)
}

type employeeService struct {
	base
}

func NewEmployeeService(docs Documents, logger logging.Logger, m *metrics.Metrics) EmployeeService {
	return &employeeService{base: newBase(docs, logger, m, "employees")}
}

func (s *employeeService) List(ctx context.Context, actor session.Actor) ([]EmployeeView, error) {
	if err := s.requireAdmin(ctx, actor, "list employees"); err != nil {
		return nil, err
	}
	doc := s.docs.Snapshot()
	views := make([]EmployeeView, 0, len(doc.Employees))
	for _, e := range doc.Employees {
		views = append(views, EmployeeView{Employee: e, DepartmentName: doc.DepartmentName(e.DepartmentID)})
	}
	return views, nil
}

func (s *employeeService) Create(ctx context.Context, actor session.Actor, in EmployeeInput) (models.Employee, error) {
	if err := s.requireAdmin(ctx, actor, "create employee"); err != nil {
		return models.Employee{}, err
	}
	emp, err := employeeFields(in)
	if err != nil {
		return models.Employee{}, err
	}

	err = s.docs.Update(ctx, func(doc *models.Document) error {
		if err := checkReferences(doc, emp); err != nil {
			return err
		}
		if doc.EmployeeIndex(emp.ID) >= 0 {
			return fmt.Errorf("%w: employee id %q is already taken", common.ErrConflict, emp.ID)
		}
		doc.Employees = append(doc.Employees, emp)
		return nil
	})
	if err != nil {
		return models.Employee{}, err
	}

	s.logger.Info(ctx, "employee created", "id", emp.ID, "email", emp.UserEmail)
	return emp, nil
}

func (s *employeeService) Update(ctx context.Context, actor session.Actor, id string, in EmployeeInput) (models.Employee, error) {
	if err := s.requireAdmin(ctx, actor, "update employee"); err != nil {
		return models.Employee{}, err
	}
	emp, err := employeeFields(in)
	if err != nil {
		return models.Employee{}, err
	}

	err = s.docs.Update(ctx, func(doc *models.Document) error {
		i := doc.EmployeeIndex(id)
		if i < 0 {
			return fmt.Errorf("%w: employee %q", common.ErrNotFound, id)
		}
		if err := checkReferences(doc, emp); err != nil {
			return err
		}
		if emp.ID != id && doc.EmployeeIndex(emp.ID) >= 0 {
			return fmt.Errorf("%w: employee id %q is already taken", common.ErrConflict, emp.ID)
		}
		doc.Employees[i] = emp
		return nil
	})
	if err != nil {
		return models.Employee{}, err
	}

	s.logger.Info(ctx, "employee updated", "id", emp.ID)
	return emp, nil
}

func (s *employeeService) Delete(ctx context.Context, actor session.Actor, id string) (models.Employee, error) {
	if err := s.requireAdmin(ctx, actor, "delete employee"); err != nil {
		return models.Employee{}, err
	}

	var removed models.Employee
	err := s.docs.Update(ctx, func(doc *models.Document) error {
		i := doc.EmployeeIndex(id)
		if i < 0 {
			return fmt.Errorf("%w: employee %q", common.ErrNotFound, id)
		}
		removed = doc.Employees[i]
		doc.Employees = append(doc.Employees[:i], doc.Employees[i+1:]...)
		return nil
	})
	if err != nil {
		return models.Employee{}, err
	}

	s.logger.Info(ctx, "employee deleted", "id", id)
	return removed, nil
}

func employeeFields(in EmployeeInput) (models.Employee, error) {
	var (
		emp models.Employee
		err error
	)
	if emp.ID, err = required("id", in.ID); err != nil {
		return emp, err
	}
	if emp.UserEmail, err = required("user email", in.UserEmail); err != nil {
		return emp, err
	}
	if emp.Position, err = required("position", in.Position); err != nil {
		return emp, err
	}
	if emp.DepartmentID, err = required("department", in.DepartmentID); err != nil {
		return emp, err
	}
	if emp.HireDate, err = required("hire date", in.HireDate); err != nil {
		return emp, err
	}
	if _, err := time.Parse(common.DateLayout, emp.HireDate); err != nil {
		return emp, fmt.Errorf("%w: hire date %q is not YYYY-MM-DD", common.ErrValidation, emp.HireDate)
	}
	return emp, nil
}

func checkReferences(doc *models.Document, emp models.Employee) error {
	if doc.AccountIndex(emp.UserEmail) < 0 {
		return fmt.Errorf("%w: no account with email %q", common.ErrNotFound, emp.UserEmail)
	}
	if doc.DepartmentIndex(emp.DepartmentID) < 0 {
		return fmt.Errorf("%w: department %q", common.ErrNotFound, emp.DepartmentID)
	}
	return nil
}
