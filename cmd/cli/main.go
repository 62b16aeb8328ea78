package main

import (
	"context"
	"log"

	"github.com/hebsync/hebsync/internal/cli"
	"github.com/hebsync/hebsync/internal/server/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := cli.NewApp(cfg)

	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)

}
