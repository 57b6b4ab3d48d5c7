package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/assetgate/internal/buildinfo"
	"github.com/dmitrijs2005/assetgate/internal/client/cli"
	"github.com/dmitrijs2005/assetgate/internal/client/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	app, err := cli.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		if errors.Is(err, cli.ErrAccessDenied) {
			os.Exit(1)
		}
		log.Fatalf("%v", err)
	}
}
