package usecase

import (
	"context"
	"fmt"
	iofs "io/fs"
	"path"
	"path/filepath"

	"github.com/3-lines-studio/folio/internal/core"
	"github.com/3-lines-studio/folio/internal/render"
)

const (
	IndexFile    = "index.html"
	ManifestFile = "manifest.json"
)

type ExportInput struct {
	Portfolio core.Portfolio
	PublicFS  iofs.FS
	OutDir    string
}

type ExportOutput struct {
	Files    []string
	Gallery  core.Gallery
	Manifest *core.Manifest
	Error    error
}

type ExportService struct {
	pages    *PageService
	fs       FileSystem
	reporter ExportReporter
}

func NewExportService(pages *PageService, fs FileSystem, reporter ExportReporter) *ExportService {
	return &ExportService{
		pages:    pages,
		fs:       fs,
		reporter: reporter,
	}
}

func (s *ExportService) ExportSite(ctx context.Context, input ExportInput) ExportOutput {
	if input.OutDir == "" {
		return ExportOutput{Error: fmt.Errorf("output directory is required")}
	}

	out := ExportOutput{Files: make([]string, 0)}

	step := s.startStep("Render page")
	page := s.pages.ServePage(ctx, ServePageInput{Portfolio: input.Portfolio})
	s.endStep(step, page.Error)
	if page.Error != nil {
		out.Error = fmt.Errorf("failed to render page: %w", page.Error)
		return out
	}
	out.Gallery = page.Gallery
	manifest := core.NewManifest(page.Gallery)
	out.Manifest = manifest

	if s.reporter != nil {
		s.reporter.SetWorkCount(page.Gallery.Len())
		for _, tile := range page.Gallery.Tiles {
			if tile.Fallback() {
				s.reporter.AddWarning(string(tile.Ref), fmt.Sprintf("tile #%d falls back to its placeholder", tile.Index), []string{tile.Placeholder()})
			}
		}
	}

	write := func(rel string, data []byte) error {
		target := filepath.Join(input.OutDir, filepath.FromSlash(rel))
		if err := s.fs.WriteFile(target, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", rel, err)
		}
		manifest.AddFile(rel, data)
		out.Files = append(out.Files, rel)
		return nil
	}

	step = s.startStep("Write page")
	err := write(IndexFile, []byte(page.HTML))
	s.endStep(step, err)
	if err != nil {
		out.Error = err
		return out
	}

	step = s.startStep("Write assets")
	err = s.writeAssets(write)
	s.endStep(step, err)
	if err != nil {
		out.Error = err
		return out
	}

	if input.PublicFS != nil {
		step = s.startStep("Copy public files")
		err = s.copyPublic(ctx, input.PublicFS, write)
		s.endStep(step, err)
		if err != nil {
			out.Error = err
			return out
		}
	}

	step = s.startStep("Write manifest")
	data, err := manifest.Marshal()
	if err == nil {
		target := filepath.Join(input.OutDir, ManifestFile)
		if werr := s.fs.WriteFile(target, data, 0644); werr != nil {
			err = fmt.Errorf("failed to write %s: %w", ManifestFile, werr)
		} else {
			out.Files = append(out.Files, ManifestFile)
		}
	}
	s.endStep(step, err)
	if err != nil {
		out.Error = err
	}

	return out
}

func (s *ExportService) writeAssets(write func(string, []byte) error) error {
	for _, name := range []string{render.StylesheetName, render.ScriptName} {
		data, err := render.Asset(name)
		if err != nil {
			return fmt.Errorf("missing embedded asset %s: %w", name, err)
		}
		rel := path.Join(core.AssetPrefix[1:], name)
		if err := write(rel, data); err != nil {
			return err
		}
	}
	return nil
}

func (s *ExportService) copyPublic(ctx context.Context, public iofs.FS, write func(string, []byte) error) error {
	return iofs.WalkDir(public, ".", func(p string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if core.DecidePublicFile(p) == core.ExportSkip {
			return nil
		}

		data, err := iofs.ReadFile(public, p)
		if err != nil {
			return fmt.Errorf("failed to read public file %s: %w", p, err)
		}
		return write(p, data)
	})
}

func (s *ExportService) startStep(name string) int {
	if s.reporter == nil {
		return -1
	}
	return s.reporter.StartStep(name)
}

func (s *ExportService) endStep(id int, err error) {
	if s.reporter == nil || id < 0 {
		return
	}
	s.reporter.EndStep(id, err)
}
