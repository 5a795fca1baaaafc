// Package router decides, for a requested route and the current session,
// which page to show or where to redirect. It holds no state.
package router

import (
	"strings"

	"github.com/dmitrijs2005/itportal/internal/metrics"
)

// Route paths.
const (
	Home        = "/"
	Login       = "/login"
	Register    = "/register"
	VerifyEmail = "/verify-email"
	Profile     = "/profile"
	Requests    = "/requests"
	Accounts    = "/accounts"
	Departments = "/departments"
	Employees   = "/employees"
)

// Page identifies a view.
type Page string

const (
	PageHome        Page = "home"
	PageLogin       Page = "login"
	PageRegister    Page = "register"
	PageVerifyEmail Page = "verify-email"
	PageProfile     Page = "profile"
	PageRequests    Page = "requests"
	PageAccounts    Page = "accounts"
	PageDepartments Page = "departments"
	PageEmployees   Page = "employees"
)

// Action tells the caller what to do with a Decision.
type Action int

const (
	Show Action = iota
	Redirect
)

func (a Action) String() string {
	if a == Redirect {
		return "redirect"
	}
	return "show"
}

// Decision is the outcome of Resolve. Page is set for Show, Target for
// Redirect.
type Decision struct {
	Action Action
	Page   Page
	Target string
}

// Viewer is the part of a session the router needs.
type Viewer interface {
	IsAuthenticated() bool
	IsAdmin() bool
}

type entry struct {
	page      Page
	auth      bool
	admin     bool
	guestOnly bool
}

var table = map[string]entry{
	Home:        {page: PageHome},
	Login:       {page: PageLogin, guestOnly: true},
	Register:    {page: PageRegister, guestOnly: true},
	VerifyEmail: {page: PageVerifyEmail},
	Profile:     {page: PageProfile, auth: true},
	Requests:    {page: PageRequests, auth: true},
	Accounts:    {page: PageAccounts, auth: true, admin: true},
	Departments: {page: PageDepartments, auth: true, admin: true},
	Employees:   {page: PageEmployees, auth: true, admin: true},
}

// Routes returns the known route paths in menu order.
func Routes() []string {
	return []string{Home, Login, Register, VerifyEmail, Profile, Requests, Accounts, Departments, Employees}
}

// Normalize canonicalizes a route as typed by a user or stored in a
// fragment: surrounding blanks, a leading '#', a query string and a
// trailing '/' are dropped and a leading '/' is ensured. Case is kept.
func Normalize(route string) string {
	r := strings.TrimSpace(route)
	r = strings.TrimPrefix(r, "#")
	if i := strings.IndexByte(r, '?'); i >= 0 {
		r = r[:i]
	}
	r = strings.Trim(r, "/")
	return "/" + r
}

// Resolve applies the access rules in order: authentication, then admin
// role, then guest-only pages. Unknown routes show the home page.
func Resolve(route string, v Viewer) Decision {
	e, ok := table[Normalize(route)]
	if !ok {
		return Decision{Action: Show, Page: PageHome}
	}

	authenticated := v != nil && v.IsAuthenticated()

	switch {
	case e.auth && !authenticated:
		return Decision{Action: Redirect, Target: Login}
	case e.admin && !v.IsAdmin():
		return Decision{Action: Redirect, Target: Home}
	case e.guestOnly && authenticated:
		return Decision{Action: Redirect, Target: Profile}
	}
	return Decision{Action: Show, Page: e.page}
}

// Router wraps Resolve and counts redirects.
type Router struct {
	metrics *metrics.Metrics
}

func New(m *metrics.Metrics) *Router {
	return &Router{metrics: m}
}

func (r *Router) Resolve(route string, v Viewer) Decision {
	d := Resolve(route, v)
	if d.Action == Redirect {
		r.metrics.Redirected(Normalize(route), d.Target)
	}
	return d
}
