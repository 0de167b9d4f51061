package usecase

import (
	"errors"
	"fmt"
	iofs "io/fs"
	"path/filepath"
	"time"

	"github.com/3-lines-studio/folio/internal/core"
	"github.com/3-lines-studio/folio/internal/templates"
)

type InitInput struct {
	ProjectDir string
	Template   string
	Name       string
	// Now stamps the scaffold's year; zero means the current time.
	Now time.Time
}

type InitOutput struct {
	Success bool
	Files   []string
	Error   error
}

type InitService struct {
	fs        FileSystem
	templates TemplateSource
	cli       CLIOutput
}

func NewInitService(fs FileSystem, templates TemplateSource, cli CLIOutput) *InitService {
	return &InitService{
		fs:        fs,
		templates: templates,
		cli:       cli,
	}
}

func (s *InitService) InitProject(input InitInput) InitOutput {
	s.cli.PrintHeader("Folio Init")

	if s.fs.FileExists(input.ProjectDir) {
		entries, err := s.fs.ReadDir(input.ProjectDir)
		if err != nil {
			return InitOutput{Error: fmt.Errorf("failed to read directory: %w", err)}
		}
		if len(entries) > 0 {
			return InitOutput{Error: fmt.Errorf("directory '%s' already exists and is not empty", input.ProjectDir)}
		}
	}

	name := input.Template
	if name == "" {
		name = templates.DefaultTemplate
	}
	templateFS, err := s.templates.GetTemplate(name)
	if err != nil {
		if errors.Is(err, templates.ErrInvalidTemplate) {
			return InitOutput{Error: fmt.Errorf("invalid template '%s'", name)}
		}
		return InitOutput{Error: err}
	}

	if err := s.fs.MkdirAll(input.ProjectDir, 0755); err != nil {
		return InitOutput{Error: fmt.Errorf("failed to create project directory: %w", err)}
	}

	now := input.Now
	if now.IsZero() {
		now = time.Now()
	}
	data := core.NewScaffoldData(input.ProjectDir, input.Name, now)

	files := make([]string, 0)
	err = iofs.WalkDir(templateFS, ".", func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		content, err := iofs.ReadFile(templateFS, path)
		if err != nil {
			return fmt.Errorf("failed to read template file %s: %w", path, err)
		}

		rel, isTemplate := core.ProcessFilename(path)
		target := filepath.Join(input.ProjectDir, filepath.FromSlash(rel))
		if err := s.fs.WriteFile(target, core.ProcessContent(content, isTemplate, data), 0644); err != nil {
			return fmt.Errorf("failed to write file %s: %w", target, err)
		}

		if isTemplate {
			s.cli.PrintFile(target + " (generated)")
		} else {
			s.cli.PrintFile(target)
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return InitOutput{Files: files, Error: err}
	}

	s.cli.PrintDone("Created %d files using '%s' template", len(files), name)
	s.cli.PrintStep("Next: add artwork under %s and run folio-serve %s",
		filepath.Join(input.ProjectDir, "public", "art"), input.ProjectDir)

	return InitOutput{Success: true, Files: files}
}
