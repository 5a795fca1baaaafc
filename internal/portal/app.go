// Package portal wires the portal together: storage, the document store,
// the session, the services and the terminal front end.
package portal

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/time/rate"

	"github.com/dmitrijs2005/itportal/internal/cli"
	"github.com/dmitrijs2005/itportal/internal/config"
	"github.com/dmitrijs2005/itportal/internal/cryptox"
	"github.com/dmitrijs2005/itportal/internal/logging"
	"github.com/dmitrijs2005/itportal/internal/metrics"
	"github.com/dmitrijs2005/itportal/internal/router"
	"github.com/dmitrijs2005/itportal/internal/services"
	"github.com/dmitrijs2005/itportal/internal/session"
	"github.com/dmitrijs2005/itportal/internal/storage"
	"github.com/dmitrijs2005/itportal/internal/store"
)

type App struct {
	config *config.Config
	logger logging.Logger
	repo   storage.Repository
	cli    *cli.App
}

// NewApp opens storage, loads the document, restores any saved session
// and builds the terminal front end reading from in and writing to out.
// When the configured storage cannot be opened the portal runs on an
// in-memory repository instead.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger, in io.Reader, out io.Writer) (*App, error) {
	if logger == nil {
		logger = logging.Nop()
	}

	hasher, err := cryptox.New(c.Hasher)
	if err != nil {
		return nil, err
	}

	repo, err := storage.Open(ctx, c.StorageDriver, c.DatabaseDSN)
	if err != nil {
		logger.Error(ctx, "storage unavailable, continuing in memory only",
			"driver", c.StorageDriver, "error", err.Error())
		repo = storage.NewMemoryRepository()
	}

	m := metrics.New()
	st := store.New(repo, hasher, logger, m)
	doc, err := st.Load(ctx)
	if err != nil {
		_ = repo.Close()
		return nil, fmt.Errorf("load document: %w", err)
	}

	sessions := session.NewManager(repo, []byte(c.SessionSecret), c.SessionTTL, logger)
	if sessions.Restore(ctx, doc) {
		acc, _ := sessions.Current()
		logger.Info(ctx, "session restored", "email", acc.Email)
	}

	limiter := rate.NewLimiter(rate.Limit(c.LoginRate), c.LoginBurst)

	app := cli.NewApp(cli.Deps{
		Store:       st,
		Sessions:    sessions,
		Router:      router.New(m),
		Auth:        services.NewAuthService(st, hasher, sessions, repo, limiter, logger, m),
		Accounts:    services.NewAccountService(st, hasher, logger, m),
		Departments: services.NewDepartmentService(st, logger, m),
		Employees:   services.NewEmployeeService(st, logger, m),
		Requests:    services.NewRequestService(st, logger, m),
		Metrics:     m,
		Logger:      logger,
	}, in, out)

	return &App{config: c, logger: logger, repo: repo, cli: app}, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		select {
		case <-sigs:
		case <-ctx.Done():
			signal.Stop(sigs)
			return
		}
		cancelFunc()
		app.logger.Info(ctx, "interrupted")
		// the REPL may be blocked reading stdin
		_ = app.Close()
		os.Exit(130)
	}()
}

// Run serves the terminal session until the user quits, input ends or
// the process is interrupted.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting portal", "storage", app.config.StorageDriver, "hasher", app.config.Hasher)
	app.initSignalHandler(ctx, cancelFunc)

	app.cli.Run(ctx)
}

// Close releases the storage backend.
func (app *App) Close() error {
	return app.repo.Close()
}
