package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/dmitrijs2005/itportal/internal/common"
	"github.com/dmitrijs2005/itportal/internal/logging"
	"github.com/dmitrijs2005/itportal/internal/metrics"
	"github.com/dmitrijs2005/itportal/internal/router"
	"github.com/dmitrijs2005/itportal/internal/services"
	"github.com/dmitrijs2005/itportal/internal/session"
	"github.com/dmitrijs2005/itportal/internal/store"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

// Deps are the collaborators the App drives.
type Deps struct {
	Store       *store.Store
	Sessions    *session.Manager
	Router      *router.Router
	Auth        services.AuthService
	Accounts    services.AccountService
	Departments services.DepartmentService
	Employees   services.EmployeeService
	Requests    services.RequestService
	Metrics     *metrics.Metrics
	Logger      logging.Logger
}

type App struct {
	Deps
	reader   *bufio.Reader
	out      io.Writer
	terminal bool
	page     router.Page
}

// NewApp builds an App reading commands from in and printing to out.
// Passwords are read without echo only when in is an interactive stdin.
func NewApp(d Deps, in io.Reader, out io.Writer) *App {
	if d.Logger == nil {
		d.Logger = logging.Nop()
	}
	a := &App{Deps: d, reader: bufio.NewReader(in), out: out, page: router.PageHome}
	if f, ok := in.(*os.File); ok && f == os.Stdin && term.IsTerminal(int(f.Fd())) {
		a.terminal = true
	}
	return a
}

// Run shows the home page and serves commands until exit or EOF.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to the IT portal (type 'help' for commands)")
	a.navigate(ctx, router.Home)
	runREPL(ctx, a, a.reader, a.out)
}

func (a *App) status() string {
	var parts []string
	if acc, ok := a.Sessions.Current(); ok {
		parts = append(parts, fmt.Sprintf("%s %s", acc.Email, acc.Role))
	} else {
		parts = append(parts, "guest")
	}
	parts = append(parts, string(a.page))
	if a.Store.ReadOnly() {
		parts = append(parts, "memory-only")
	}
	return "(" + strings.Join(parts, " ") + ")"
}

func (a *App) help() string {
	lines := []string{"Available commands:", "  go <route>, help, exit"}
	switch {
	case a.Sessions.IsAdmin():
		lines = append(lines,
			"  profile [edit], passwd, logout, verify [email]",
			"  requests, request add|approve|reject|delete <n|id>",
			"  accounts, account add|edit|delete|reset <email>",
			"  departments, department add|edit|delete <n|id>",
			"  employees, employee add|edit|delete <id>",
			"  export <file.xlsx>, stats",
		)
	case a.Sessions.IsAuthenticated():
		lines = append(lines,
			"  profile [edit], passwd, logout, verify [email]",
			"  requests, request add|delete <n|id>",
		)
	default:
		lines = append(lines, "  register, login, verify [email]")
	}
	lines = append(lines, "Routes: "+strings.Join(router.Routes(), " "))
	return strings.Join(lines, "\n")
}

func (a *App) execute(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "go":
		if len(args) == 0 {
			fmt.Fprintln(a.out, "Usage: go <route>")
			return nil
		}
		a.navigate(ctx, args[0])
		return nil
	case "register":
		return a.register(ctx)
	case "login":
		return a.login(ctx)
	case "logout":
		return a.logout(ctx)
	case "verify":
		return a.verify(ctx, args)
	case "profile":
		if len(args) > 0 && args[0] == "edit" {
			return a.editProfile(ctx)
		}
		a.navigate(ctx, router.Profile)
		return nil
	case "passwd":
		return a.changePassword(ctx)
	case "accounts":
		a.navigate(ctx, router.Accounts)
		return nil
	case "account":
		return a.account(ctx, args)
	case "departments":
		a.navigate(ctx, router.Departments)
		return nil
	case "department":
		return a.department(ctx, args)
	case "employees":
		a.navigate(ctx, router.Employees)
		return nil
	case "employee":
		return a.employee(ctx, args)
	case "requests":
		a.navigate(ctx, router.Requests)
		return nil
	case "request":
		return a.request(ctx, args)
	case "export":
		return a.export(ctx, args)
	case "stats":
		return a.stats(ctx)
	}
	return errUnknownCommand
}

// enter checks that route may be shown. When the router redirects, the
// redirect is followed and enter reports false.
func (a *App) enter(ctx context.Context, route string) bool {
	d := a.Router.Resolve(route, a.Sessions)
	if d.Action == router.Show {
		a.page = d.Page
		return true
	}
	a.follow(ctx, route, d)
	return false
}

// permit asks the router whether route is reachable without leaving the
// current page. A refusal is followed like any redirect.
func (a *App) permit(ctx context.Context, route string) bool {
	d := a.Router.Resolve(route, a.Sessions)
	if d.Action == router.Show {
		return true
	}
	a.follow(ctx, route, d)
	return false
}

// navigate resolves route and renders whatever page results.
func (a *App) navigate(ctx context.Context, route string) {
	d := a.Router.Resolve(route, a.Sessions)
	if d.Action == router.Redirect {
		a.follow(ctx, route, d)
		return
	}
	a.page = d.Page
	a.render(ctx, d.Page)
}

func (a *App) follow(ctx context.Context, from string, d router.Decision) {
	fmt.Fprintf(a.out, "[redirect] %s -> %s\n", router.Normalize(from), d.Target)
	a.navigate(ctx, d.Target)
}

// notify prints the outcome of a service call. Internal failures are
// logged as well.
func (a *App) notify(ctx context.Context, err error, format string, args ...any) {
	kind := common.KindOf(err)
	if err != nil {
		if kind == common.KindInternal {
			a.Logger.Error(ctx, "command failed", "page", string(a.page), "error", err.Error())
		}
		fmt.Fprintf(a.out, "[%s] %s\n", kind, err)
		return
	}
	fmt.Fprintf(a.out, "[%s] %s\n", kind, fmt.Sprintf(format, args...))
}

func (a *App) actor() session.Actor {
	return a.Sessions.Actor()
}

func (a *App) ask(prompt string) (string, error) {
	return getSimpleText(a.reader, prompt, a.out)
}

// askDefault shows current in the prompt and returns it for a blank answer.
func (a *App) askDefault(prompt, current string) (string, error) {
	v, err := a.ask(fmt.Sprintf("%s [%s]", prompt, current))
	if err != nil {
		return "", err
	}
	if v == "" {
		return current, nil
	}
	return v, nil
}

func (a *App) askSecret(prompt string) (string, error) {
	if a.terminal {
		return getPassword(a.out, prompt)
	}
	return a.ask(prompt)
}

func (a *App) usage(text string) error {
	fmt.Fprintln(a.out, "Usage:", text)
	return nil
}
