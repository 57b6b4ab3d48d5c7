package main

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/dmitrijs2005/assetgate/internal/buildinfo"
	"github.com/dmitrijs2005/assetgate/internal/server"
	"github.com/dmitrijs2005/assetgate/internal/server/config"
)

// usage:
//
//	server [flags]                        run the directory server
//	server admin-token [subject] [flags]  print a signed admin token
func main() {

	buildinfo.PrintBuildData(os.Stderr)

	ctx := context.Background()
	cfg := config.LoadConfig()

	if len(os.Args) > 1 && os.Args[1] == "admin-token" {
		subject := ""
		if len(os.Args) > 2 && !strings.HasPrefix(os.Args[2], "-") {
			subject = os.Args[2]
		}
		if err := server.PrintAdminToken(os.Stdout, cfg, subject); err != nil {
			log.Fatalf("%v", err)
		}
		return
	}

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)

}
