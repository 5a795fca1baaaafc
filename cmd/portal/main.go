package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/itportal/internal/config"
	"github.com/dmitrijs2005/itportal/internal/logging"
	"github.com/dmitrijs2005/itportal/internal/portal"
)

func main() {

	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(os.Stderr, cfg.LogFormat, cfg.LogLevel)

	app, err := portal.NewApp(ctx, cfg, logger, os.Stdin, os.Stdout)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer app.Close()

	app.Run(ctx)

}
