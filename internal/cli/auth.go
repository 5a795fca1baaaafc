package cli

import (
	"context"

	"github.com/dmitrijs2005/itportal/internal/router"
	"github.com/dmitrijs2005/itportal/internal/services"
)

// register prompts for the sign-up form and creates an unverified account.
func (a *App) register(ctx context.Context) error {
	if !a.enter(ctx, router.Register) {
		return nil
	}

	var (
		in  services.RegisterInput
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

	acc, err := a.Auth.Register(ctx, in)
	a.notify(ctx, err, "Account %s created; check your email to verify it", acc.Email)
	if err == nil {
		a.navigate(ctx, router.VerifyEmail)
	}
	return err
}

// login prompts for credentials and starts a session.
func (a *App) login(ctx context.Context) error {
	if !a.enter(ctx, router.Login) {
		return nil
	}

	email, err := a.ask("Email")
	if err != nil {
		return err
	}
	password, err := a.askSecret("Password")
	if err != nil {
		return err
	}

	acc, err := a.Auth.Login(ctx, email, password)
	a.notify(ctx, err, "Logged in as %s", acc.Email)
	if err == nil {
		a.navigate(ctx, router.Profile)
	}
	return err
}

func (a *App) logout(ctx context.Context) error {
	if !a.Sessions.IsAuthenticated() {
		a.navigate(ctx, router.Home)
		return nil
	}
	a.Auth.Logout(ctx)
	a.notify(ctx, nil, "Logged out")
	a.navigate(ctx, router.Home)
	return nil
}

// verify confirms the pending email, or the one given as argument.
func (a *App) verify(ctx context.Context, args []string) error {
	if !a.enter(ctx, router.VerifyEmail) {
		return nil
	}

	var email string
	if len(args) > 0 {
		email = args[0]
	} else {
		pending, err := a.Auth.PendingVerification(ctx)
		if err != nil {
			a.notify(ctx, err, "")
			return err
		}
		email = pending
	}
	if email == "" {
		var err error
		if email, err = a.ask("Email to verify"); err != nil {
			return err
		}
	}

	acc, err := a.Auth.VerifyEmail(ctx, a.Sessions.Actor(), email)
	a.notify(ctx, err, "Email %s verified", acc.Email)
	if err == nil && !a.Sessions.IsAuthenticated() {
		a.navigate(ctx, router.Login)
	}
	return err
}

func (a *App) editProfile(ctx context.Context) error {
	if !a.enter(ctx, router.Profile) {
		return nil
	}
	current, _ := a.Sessions.Current()

	first, err := a.askDefault("First name", current.FirstName)
	if err != nil {
		return err
	}
	last, err := a.askDefault("Last name", current.LastName)
	if err != nil {
		return err
	}

	_, err = a.Auth.UpdateProfile(ctx, a.actor(), first, last)
	a.notify(ctx, err, "Profile updated")
	if err == nil {
		a.render(ctx, router.PageProfile)
	}
	return err
}

func (a *App) changePassword(ctx context.Context) error {
	if !a.enter(ctx, router.Profile) {
		return nil
	}

	current, err := a.askSecret("Current password")
	if err != nil {
		return err
	}
	next, err := a.askSecret("New password")
	if err != nil {
		return err
	}

	err = a.Auth.ChangePassword(ctx, a.actor(), current, next)
	a.notify(ctx, err, "Password changed")
	return err
}
