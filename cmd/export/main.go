package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/3-lines-studio/folio"
	"github.com/3-lines-studio/folio/internal/adapters/cli"
	"github.com/3-lines-studio/folio/internal/config"
)

const defaultOutDir = "dist"

func main() {
	outDir := defaultOutDir
	var arg string

	argIdx := 1
	for argIdx < len(os.Args) {
		a := os.Args[argIdx]

		switch a {
		case "--help", "-h":
			printUsage()
			os.Exit(0)
		case "--out", "-o":
			if argIdx+1 >= len(os.Args) {
				output := cli.NewOutput()
				output.PrintHeader("Folio Export")
				output.PrintError("%s requires a value", a)
				os.Exit(1)
			}
			outDir = os.Args[argIdx+1]
			argIdx += 2
			continue
		}

		if arg == "" && !isFlag(a) {
			arg = a
		}
		argIdx++
	}

	output := cli.NewOutput()

	configPath := config.ResolvePath(arg)
	cfg, err := config.Load(configPath)
	if err != nil {
		output.PrintHeader("Folio Export")
		output.PrintError("%v", err)
		os.Exit(1)
	}

	absOut, err := filepath.Abs(outDir)
	if err != nil {
		output.PrintHeader("Folio Export")
		output.PrintError("Failed to resolve output directory: %v", err)
		os.Exit(1)
	}

	app, err := folio.New(cfg, folio.WithMode(folio.ModeExport))
	if err != nil {
		output.PrintHeader("Folio Export")
		output.PrintError("%v", err)
		os.Exit(1)
	}
	defer func() { _ = app.Stop() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report := cli.NewExportReport(output, absOut)
	result := app.Export(ctx, absOut, report)
	if result.Error != nil {
		report.AddError("export", result.Error.Error(), nil)
	}
	report.Render()

	if report.HasFailures() {
		os.Exit(1)
	}
}

func isFlag(arg string) bool {
	return len(arg) > 0 && arg[0] == '-'
}

func printUsage() {
	output := cli.NewOutput()
	output.PrintHeader("Folio Export")
	fmt.Println()
	fmt.Println("Usage: folio-export [--out <dir>] [project-dir | config-file]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Printf("  --out <dir>  Output directory. Default: %s\n", defaultOutDir)
	fmt.Println()
	fmt.Println("Broken gallery images are reported as warnings and exported as placeholders.")
}
