// Package cli is the interactive terminal front end of the portal. Every
// page a command touches is first resolved through the router, so access
// rules live in one place; services report outcomes that the REPL prints
// as one-line notifications tagged with the error kind.
package cli
