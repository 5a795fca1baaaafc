package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/itportal/internal/common"
	"github.com/dmitrijs2005/itportal/internal/models"
	"github.com/dmitrijs2005/itportal/internal/router"
	"github.com/dmitrijs2005/itportal/internal/services"
)

func (a *App) account(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.usage("account add|edit|delete|reset [email]")
	}
	if !a.enter(ctx, router.Accounts) {
		return nil
	}

	var err error
	switch args[0] {
	case "add":
		err = a.addAccount(ctx)
	case "edit", "delete", "reset":
		if len(args) < 2 {
			return a.usage("account " + args[0] + " <email>")
		}
		switch args[0] {
		case "edit":
			err = a.editAccount(ctx, args[1])
		case "delete":
			_, err = a.Accounts.Delete(ctx, a.actor(), args[1])
			a.notify(ctx, err, "Account %s deleted", args[1])
		case "reset":
			err = a.resetPassword(ctx, args[1])
		}
	default:
		return a.usage("account add|edit|delete|reset [email]")
	}

	if err == nil {
		a.Sessions.Refresh(ctx, a.Store.Snapshot())
		a.render(ctx, router.PageAccounts)
	}
	return err
}

func (a *App) addAccount(ctx context.Context) error {
	var (
		in  services.AccountInput
		err error
	)
	if in.FirstName, err = a.ask("First name"); err != nil {
		return err
	}
	if in.LastName, err = a.ask("Last name"); err != nil {
		return err
	}
	if in.Email, err = a.ask("Email"); err != nil {
		return err
	}
	if in.Password, err = a.askSecret("Password"); err != nil {
		return err
	}
	role, err := a.askDefault("Role (Admin/User)", "User")
	if err != nil {
		return err
	}
	in.Role = models.Role(role)
	if in.Verified, err = a.askBool("Verified", true); err != nil {
		return err
	}

	acc, err := a.Accounts.Create(ctx, a.actor(), in)
	a.notify(ctx, err, "Account %s created", acc.Email)
	return err
}

func (a *App) editAccount(ctx context.Context, email string) error {
	current, ok := a.Store.Snapshot().FindAccount(email)
	if !ok {
		err := fmt.Errorf("%w: account %q", common.ErrNotFound, email)
		a.notify(ctx, err, "")
		return err
	}

	var (
		in  services.AccountInput
		err error
	)
	if in.FirstName, err = a.askDefault("First name", current.FirstName); err != nil {
		return err
	}
	if in.LastName, err = a.askDefault("Last name", current.LastName); err != nil {
		return err
	}
	if in.Email, err = a.askDefault("Email", current.Email); err != nil {
		return err
	}
	if in.Password, err = a.askSecret("New password (blank keeps current)"); err != nil {
		return err
	}
	role, err := a.askDefault("Role (Admin/User)", string(current.Role))
	if err != nil {
		return err
	}
	in.Role = models.Role(role)
	if in.Verified, err = a.askBool("Verified", current.Verified); err != nil {
		return err
	}

	acc, err := a.Accounts.Update(ctx, a.actor(), email, in)
	a.notify(ctx, err, "Account %s updated", acc.Email)
	return err
}

func (a *App) resetPassword(ctx context.Context, email string) error {
	password, err := a.askSecret("New password")
	if err != nil {
		return err
	}
	_, err = a.Accounts.ResetPassword(ctx, a.actor(), email, password)
	a.notify(ctx, err, "Password of %s reset", email)
	return err
}

// askBool asks a yes/no question; blank keeps current, anything
// unrecognised is asked again once and then treated as current.
func (a *App) askBool(prompt string, current bool) (*bool, error) {
	for attempt := 0; attempt < 2; attempt++ {
		v, err := a.askDefault(prompt+" (yes/no)", yesNo(current))
		if err != nil {
			return nil, err
		}
		if b, ok := parseYesNo(v); ok {
			return &b, nil
		}
		fmt.Fprintln(a.out, "Please answer yes or no.")
	}
	return &current, nil
}
