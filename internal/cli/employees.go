package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/itportal/internal/common"
	"github.com/dmitrijs2005/itportal/internal/models"
	"github.com/dmitrijs2005/itportal/internal/router"
	"github.com/dmitrijs2005/itportal/internal/services"
)

func (a *App) employee(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.usage("employee add|edit|delete [id]")
	}
	if !a.enter(ctx, router.Employees) {
		return nil
	}

	var err error
	switch args[0] {
	case "add":
		err = a.employeeForm(ctx, nil)
	case "edit", "delete":
		if len(args) < 2 {
			return a.usage("employee " + args[0] + " <id>")
		}
		if args[0] == "delete" {
			_, err = a.Employees.Delete(ctx, a.actor(), args[1])
			a.notify(ctx, err, "Employee %s deleted", args[1])
			break
		}
		doc := a.Store.Snapshot()
		i := doc.EmployeeIndex(args[1])
		if i < 0 {
			err = fmt.Errorf("%w: employee %q", common.ErrNotFound, args[1])
			a.notify(ctx, err, "")
			return err
		}
		err = a.employeeForm(ctx, &doc.Employees[i])
	default:
		return a.usage("employee add|edit|delete [id]")
	}

	if err == nil {
		a.render(ctx, router.PageEmployees)
	}
	return err
}

// employeeForm creates an employee, or edits current when it is set.
func (a *App) employeeForm(ctx context.Context, current *models.Employee) error {
	var def models.Employee
	if current != nil {
		def = *current
	}

	var (
		in  services.EmployeeInput
		err error
	)
	if in.ID, err = a.askOptional("Employee ID", def.ID); err != nil {
		return err
	}
	if in.UserEmail, err = a.askOptional("User email", def.UserEmail); err != nil {
		return err
	}
	if in.Position, err = a.askOptional("Position", def.Position); err != nil {
		return err
	}

	for i, d := range a.Store.Snapshot().Departments {
		fmt.Fprintf(a.out, "  %d. %s\n", i+1, d.Name)
	}
	dep, err := a.askOptional("Department (number or id)", def.DepartmentID)
	if err != nil {
		return err
	}
	in.DepartmentID = a.departmentRef(dep)

	if in.HireDate, err = a.askOptional("Hire date (YYYY-MM-DD)", def.HireDate); err != nil {
		return err
	}

	var emp models.Employee
	if current == nil {
		emp, err = a.Employees.Create(ctx, a.actor(), in)
		a.notify(ctx, err, "Employee %s created", emp.ID)
	} else {
		emp, err = a.Employees.Update(ctx, a.actor(), current.ID, in)
		a.notify(ctx, err, "Employee %s updated", emp.ID)
	}
	return err
}

// askOptional uses askDefault when there is a current value.
func (a *App) askOptional(prompt, current string) (string, error) {
	if current == "" {
		return a.ask(prompt)
	}
	return a.askDefault(prompt, current)
}
