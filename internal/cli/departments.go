package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/itportal/internal/common"
	"github.com/dmitrijs2005/itportal/internal/models"
	"github.com/dmitrijs2005/itportal/internal/router"
	"github.com/dmitrijs2005/itportal/internal/services"
)

func (a *App) department(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.usage("department add|edit|delete [n|id]")
	}
	if !a.enter(ctx, router.Departments) {
		return nil
	}

	var err error
	switch args[0] {
	case "add":
		err = a.addDepartment(ctx)
	case "edit", "delete":
		if len(args) < 2 {
			return a.usage("department " + args[0] + " <n|id>")
		}
		id := a.departmentRef(args[1])
		if args[0] == "edit" {
			err = a.editDepartment(ctx, id)
		} else {
			var dep models.Department
			dep, err = a.Departments.Delete(ctx, a.actor(), id)
			a.notify(ctx, err, "Department %s deleted", dep.Name)
		}
	default:
		return a.usage("department add|edit|delete [n|id]")
	}

	if err == nil {
		a.render(ctx, router.PageDepartments)
	}
	return err
}

func (a *App) addDepartment(ctx context.Context) error {
	var (
		in  services.DepartmentInput
		err error
	)
	if in.Name, err = a.ask("Name"); err != nil {
		return err
	}
	if in.Description, err = a.ask("Description"); err != nil {
		return err
	}

	dep, err := a.Departments.Create(ctx, a.actor(), in)
	a.notify(ctx, err, "Department %s created", dep.Name)
	return err
}

func (a *App) editDepartment(ctx context.Context, id string) error {
	doc := a.Store.Snapshot()
	i := doc.DepartmentIndex(id)
	if i < 0 {
		err := fmt.Errorf("%w: department %q", common.ErrNotFound, id)
		a.notify(ctx, err, "")
		return err
	}
	current := doc.Departments[i]

	var (
		in  services.DepartmentInput
		err error
	)
	if in.Name, err = a.askDefault("Name", current.Name); err != nil {
		return err
	}
	if in.Description, err = a.askDefault("Description", current.Description); err != nil {
		return err
	}

	dep, err := a.Departments.Update(ctx, a.actor(), id, in)
	a.notify(ctx, err, "Department %s updated", dep.Name)
	return err
}

// departmentRef maps a listed position to the department id.
func (a *App) departmentRef(ref string) string {
	deps := a.Store.Snapshot().Departments
	ids := make([]string, len(deps))
	for i, d := range deps {
		ids[i] = d.ID
	}
	return pick(ref, ids)
}
