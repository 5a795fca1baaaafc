package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/dmitrijs2005/itportal/internal/export"
	"github.com/dmitrijs2005/itportal/internal/router"
)

// render prints page. List pages re-read their data on every call, so
// handlers render again after each mutation.
func (a *App) render(ctx context.Context, page router.Page) {
	switch page {
	case router.PageHome:
		a.renderHome()
	case router.PageLogin:
		fmt.Fprintln(a.out, "== Login ==\nType 'login' to sign in or 'register' to create an account.")
	case router.PageRegister:
		fmt.Fprintln(a.out, "== Register ==\nType 'register' to create an account.")
	case router.PageVerifyEmail:
		a.renderVerify(ctx)
	case router.PageProfile:
		a.renderProfile()
	case router.PageRequests:
		a.renderRequests(ctx)
	case router.PageAccounts:
		a.renderAccounts(ctx)
	case router.PageDepartments:
		a.renderDepartments(ctx)
	case router.PageEmployees:
		a.renderEmployees(ctx)
	}
}

func (a *App) renderHome() {
	fmt.Fprintln(a.out, "== IT Portal ==")
	if acc, ok := a.Sessions.Current(); ok {
		fmt.Fprintf(a.out, "Welcome back, %s.\n", acc.FullName())
		return
	}
	fmt.Fprintln(a.out, "Not logged in. Type 'login' or 'register'.")
}

func (a *App) renderVerify(ctx context.Context) {
	fmt.Fprintln(a.out, "== Verify email ==")
	pending, err := a.Auth.PendingVerification(ctx)
	if err != nil {
		a.notify(ctx, err, "")
		return
	}
	if pending == "" {
		fmt.Fprintln(a.out, "No verification pending. Type 'verify <email>' to verify an address.")
		return
	}
	fmt.Fprintf(a.out, "A verification link was sent to %s. Type 'verify' to confirm it.\n", pending)
}

func (a *App) renderProfile() {
	fmt.Fprintln(a.out, "== Profile ==")
	acc, ok := a.Sessions.Current()
	if !ok {
		return
	}
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Name\t%s\n", acc.FullName())
	fmt.Fprintf(tw, "Email\t%s\n", acc.Email)
	fmt.Fprintf(tw, "Role\t%s\n", acc.Role)
	fmt.Fprintf(tw, "Verified\t%s\n", yesNo(acc.Verified))
	tw.Flush()
}

func (a *App) renderAccounts(ctx context.Context) {
	fmt.Fprintln(a.out, "== Accounts ==")
	list, err := a.Accounts.List(ctx, a.actor())
	if err != nil {
		a.notify(ctx, err, "")
		return
	}
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tEMAIL\tROLE\tVERIFIED")
	for i, acc := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", i+1, acc.FullName(), acc.Email, acc.Role, yesNo(acc.Verified))
	}
	tw.Flush()
}

func (a *App) renderDepartments(ctx context.Context) {
	fmt.Fprintln(a.out, "== Departments ==")
	list, err := a.Departments.List(ctx, a.actor())
	if err != nil {
		a.notify(ctx, err, "")
		return
	}
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tDESCRIPTION\tID")
	for i, d := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i+1, d.Name, d.Description, d.ID)
	}
	tw.Flush()
}

func (a *App) renderEmployees(ctx context.Context) {
	fmt.Fprintln(a.out, "== Employees ==")
	list, err := a.Employees.List(ctx, a.actor())
	if err != nil {
		a.notify(ctx, err, "")
		return
	}
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEMAIL\tPOSITION\tDEPARTMENT\tHIRED")
	for _, e := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.ID, e.UserEmail, e.Position, e.DepartmentName, e.HireDate)
	}
	tw.Flush()
}

func (a *App) renderRequests(ctx context.Context) {
	fmt.Fprintln(a.out, "== Requests ==")
	list, err := a.Requests.List(ctx, a.actor())
	if err != nil {
		a.notify(ctx, err, "")
		return
	}
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tTYPE\tITEMS\tSTATUS\tDATE\tEMPLOYEE")
	for i, r := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", i+1, r.Type, export.FormatItems(r.Items), r.Status, r.Date, r.EmployeeEmail)
	}
	tw.Flush()
}
