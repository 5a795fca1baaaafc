package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/itportal/internal/export"
	"github.com/dmitrijs2005/itportal/internal/router"
)

// export writes the whole document to an XLSX workbook.
func (a *App) export(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.usage("export <file.xlsx>")
	}
	if !a.permit(ctx, router.Accounts) {
		return nil
	}

	err := export.WriteFile(args[0], a.Store.Snapshot())
	a.notify(ctx, err, "Exported to %s", args[0])
	if err == nil {
		a.Logger.Info(ctx, "document exported", "path", args[0], "by", a.actor().Email)
	}
	return err
}

// stats prints storage state and the non-zero operational counters.
func (a *App) stats(ctx context.Context) error {
	if !a.permit(ctx, router.Accounts) {
		return nil
	}

	mode := "persistent"
	if a.Store.ReadOnly() {
		mode = "memory-only"
	}
	fmt.Fprintln(a.out, "storage:", mode)

	lines, err := a.Metrics.Lines()
	if err != nil {
		a.notify(ctx, err, "")
		return err
	}
	if len(lines) == 0 {
		fmt.Fprintln(a.out, "no events recorded")
	}
	for _, l := range lines {
		fmt.Fprintln(a.out, l)
	}
	return nil
}
