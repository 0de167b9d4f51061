package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/3-lines-studio/folio/internal/adapters"
	"github.com/3-lines-studio/folio/internal/adapters/cli"
	"github.com/3-lines-studio/folio/internal/adapters/fs"
	"github.com/3-lines-studio/folio/internal/templates"
	"github.com/3-lines-studio/folio/internal/usecase"
)

func main() {
	template := templates.DefaultTemplate
	var projectDir string

	output := cli.NewOutput()

	if len(os.Args) < 2 {
		printUsage(output)
		os.Exit(1)
	}

	if os.Args[1] == "--help" || os.Args[1] == "-h" {
		printUsage(output)
		os.Exit(0)
	}

	argIdx := 1
	for argIdx < len(os.Args) {
		arg := os.Args[argIdx]

		if arg == "--template" {
			if argIdx+1 >= len(os.Args) {
				output.PrintHeader("Folio Init")
				output.PrintError("--template requires a value")
				os.Exit(1)
			}
			template = os.Args[argIdx+1]
			argIdx += 2
			continue
		}

		if projectDir == "" && !isFlag(arg) {
			projectDir = arg
		}
		argIdx++
	}

	if projectDir == "" {
		printUsage(output)
		os.Exit(1)
	}

	absProjectDir, err := filepath.Abs(projectDir)
	if err != nil {
		output.PrintHeader("Folio Init")
		output.PrintError("Failed to resolve project directory: %v", err)
		os.Exit(1)
	}

	svc := usecase.NewInitService(fs.NewOSFileSystem(), adapters.NewTemplateSource(), output)
	result := svc.InitProject(usecase.InitInput{
		ProjectDir: absProjectDir,
		Template:   template,
	})
	if result.Error != nil {
		output.PrintError("%v", result.Error)
		os.Exit(1)
	}
}

func isFlag(arg string) bool {
	return len(arg) > 0 && arg[0] == '-'
}

func printUsage(output *cli.Output) {
	output.PrintHeader("Folio Init")
	fmt.Println()
	fmt.Println("Usage: folio-init [options] <project-dir>")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Printf("  --template <name>  Template to use (%s). Default: %s\n", strings.Join(templates.Names(), ", "), templates.DefaultTemplate)
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  folio-init studio")
	fmt.Println("  folio-init --template sequence studio")
	fmt.Println()
	fmt.Println("To check an existing portfolio, use: folio-doctor <dir>")
}
