package main

import (
	"context"
	"os"
	"time"

	"github.com/3-lines-studio/folio"
	"github.com/3-lines-studio/folio/internal/adapters/cli"
	"github.com/3-lines-studio/folio/internal/config"
)

func main() {
	var arg string
	if len(os.Args) > 1 {
		arg = os.Args[1]
	}

	output := cli.NewOutput()

	cfg, err := config.Load(config.ResolvePath(arg))
	if err != nil {
		output.PrintHeader("Folio Doctor")
		output.PrintError("%v", err)
		os.Exit(1)
	}

	app, err := folio.New(cfg, folio.WithMode(folio.ModeProd))
	if err != nil {
		output.PrintHeader("Folio Doctor")
		output.PrintError("%v", err)
		os.Exit(1)
	}
	defer func() { _ = app.Stop() }()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	result := app.Doctor(ctx, output)
	if result.Error != nil {
		output.PrintError("%v", result.Error)
		os.Exit(1)
	}
	if !result.Healthy {
		os.Exit(1)
	}
}
