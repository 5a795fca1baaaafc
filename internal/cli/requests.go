package cli

import (
	"context"

	"github.com/dmitrijs2005/itportal/internal/models"
	"github.com/dmitrijs2005/itportal/internal/router"
	"github.com/dmitrijs2005/itportal/internal/services"
)

func (a *App) request(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.usage("request add|approve|reject|delete [n|id]")
	}
	if !a.enter(ctx, router.Requests) {
		return nil
	}

	var err error
	switch args[0] {
	case "add":
		err = a.addRequest(ctx)
	case "approve", "reject", "delete":
		if len(args) < 2 {
			return a.usage("request " + args[0] + " <n|id>")
		}
		id, lerr := a.requestRef(ctx, args[1])
		if lerr != nil {
			a.notify(ctx, lerr, "")
			return lerr
		}
		switch args[0] {
		case "approve":
			_, err = a.Requests.UpdateStatus(ctx, a.actor(), id, models.StatusApproved)
			a.notify(ctx, err, "Request %s approved", id)
		case "reject":
			_, err = a.Requests.UpdateStatus(ctx, a.actor(), id, models.StatusRejected)
			a.notify(ctx, err, "Request %s rejected", id)
		case "delete":
			_, err = a.Requests.Delete(ctx, a.actor(), id)
			a.notify(ctx, err, "Request %s deleted", id)
		}
	default:
		return a.usage("request add|approve|reject|delete [n|id]")
	}

	if err == nil {
		a.render(ctx, router.PageRequests)
	}
	return err
}

func (a *App) addRequest(ctx context.Context) error {
	var (
		in  services.RequestInput
		err error
	)
	if in.Type, err = a.askDefault("Type (Equipment/Leave/Resources)", models.RequestTypeEquipment); err != nil {
		return err
	}
	lines, err := GetLines(a.reader, "Items as name=qty, one per line", a.out)
	if err != nil {
		return err
	}
	in.Items = ParseItems(lines)

	req, err := a.Requests.Create(ctx, a.actor(), in)
	a.notify(ctx, err, "Request %s submitted", req.ID)
	return err
}

// requestRef maps a position in the actor's listing to the request id.
func (a *App) requestRef(ctx context.Context, ref string) (string, error) {
	list, err := a.Requests.List(ctx, a.actor())
	if err != nil {
		return "", err
	}
	ids := make([]string, len(list))
	for i, r := range list {
		ids[i] = r.ID
	}
	return pick(ref, ids), nil
}
