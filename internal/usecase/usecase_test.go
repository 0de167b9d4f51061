package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/3-lines-studio/folio/internal/adapters"
	"github.com/3-lines-studio/folio/internal/adapters/fs"
	"github.com/3-lines-studio/folio/internal/core"
	"github.com/3-lines-studio/folio/internal/render"
)

var fixedNow = time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)

type stubResolver struct {
	mu     sync.Mutex
	broken map[core.ImageRef]bool
	err    error
	calls  int
}

func (r *stubResolver) Resolve(ctx context.Context, refs []core.ImageRef) ([]core.TileState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	states := make([]core.TileState, len(refs))
	for i, ref := range refs {
		states[i] = core.Displaying{}
		if r.broken[ref] {
			states[i] = core.FailLoad(states[i], ref)
		}
	}
	return states, nil
}

type recordingCLI struct {
	lines []string
}

func (c *recordingCLI) add(kind, msg string, args ...any) {
	c.lines = append(c.lines, kind+" "+fmt.Sprintf(msg, args...))
}

func (c *recordingCLI) PrintHeader(msg string) { c.add("header", "%s", msg) }
func (c *recordingCLI) PrintStep(msg string, args ...any) { c.add("step", msg, args...) }
func (c *recordingCLI) PrintSuccess(msg string, args ...any) { c.add("ok", msg, args...) }
func (c *recordingCLI) PrintWarning(msg string, args ...any) { c.add("warn", msg, args...) }
func (c *recordingCLI) PrintError(msg string, args ...any) { c.add("error", msg, args...) }
func (c *recordingCLI) PrintFile(path string) { c.add("file", "%s", path) }
func (c *recordingCLI) PrintDone(msg string, args ...any) { c.add("done", msg, args...) }
func (c *recordingCLI) output() string { return strings.Join(c.lines, "\n") }

type recordingReporter struct {
	count    int
	steps    []string
	failed   []string
	warnings []string
}

func (r *recordingReporter) SetWorkCount(count int) { r.count = count }

func (r *recordingReporter) StartStep(name string) int {
	r.steps = append(r.steps, name)
	return len(r.steps) - 1
}

func (r *recordingReporter) EndStep(id int, err error) {
	if err != nil {
		r.failed = append(r.failed, r.steps[id])
	}
}

func (r *recordingReporter) AddWarning(subject string, message string, details []string) {
	r.warnings = append(r.warnings, subject)
}

type failingRenderer struct{}

func (failingRenderer) RenderPage(render.PageData) (string, error) {
	return "", errors.New("template exploded")
}

func testPortfolio(images ...core.ImageRef) core.Portfolio {
	return core.NewPortfolio(core.PortfolioInput{
		Profile: core.ProfileInput{
			Name:      "KHRYSANTHALUNE 🌴",
			Handle:    "@khrysanthalune",
			Instagram: "https://instagram.com/khrysanthalune",
			Email:     "contact@khrysanthalune.com",
		},
		Images: images,
	})
}

func newPages(resolver Resolver) *PageService {
	return NewPageService(render.New(), resolver, func() time.Time { return fixedNow }, nil)
}

func TestServePage(t *testing.T) {
	resolver := &stubResolver{broken: map[core.ImageRef]bool{"/art/img2.jpg": true}}
	out := newPages(resolver).ServePage(context.Background(), ServePageInput{
		Portfolio: testPortfolio("/art/img1.jpg", "/art/img2.jpg"),
	})
	if out.Error != nil {
		t.Fatalf("ServePage() error = %v", out.Error)
	}

	if out.Gallery.Len() != 2 {
		t.Fatalf("gallery len = %d, want 2", out.Gallery.Len())
	}
	if out.Gallery.Tiles[0].Fallback() || !out.Gallery.Tiles[1].Fallback() {
		t.Errorf("unexpected tile states: %v, %v", out.Gallery.Tiles[0].State, out.Gallery.Tiles[1].State)
	}
	if !strings.Contains(out.HTML, "/public/art/img2.jpg not found") {
		t.Error("page missing placeholder for img2")
	}
	if !strings.Contains(out.HTML, "© 2026 KHRYSANTHALUNE") {
		t.Error("caption should use the clock year and derived signature")
	}
}

func TestServePageWithoutResolver(t *testing.T) {
	out := newPages(nil).ServePage(context.Background(), ServePageInput{
		Portfolio: testPortfolio("/art/img1.jpg"),
	})
	if out.Error != nil {
		t.Fatalf("ServePage() error = %v", out.Error)
	}
	if out.Gallery.FallbackCount() != 0 {
		t.Error("without a resolver every tile should be displaying")
	}
}

func TestServePageErrors(t *testing.T) {
	tests := []struct {
		name    string
		service *PageService
		want    string
	}{
		{
			name:    "resolver failure",
			service: newPages(&stubResolver{err: context.Canceled}),
			want:    "failed to resolve gallery images",
		},
		{
			name:    "render failure",
			service: NewPageService(failingRenderer{}, nil, nil, nil),
			want:    "template exploded",
		},
		{
			name:    "no renderer",
			service: NewPageService(nil, nil, nil, nil),
			want:    "renderer not available",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.service.ServePage(context.Background(), ServePageInput{Portfolio: testPortfolio("/a.jpg")})
			if out.Error == nil || !strings.Contains(out.Error.Error(), tt.want) {
				t.Errorf("error = %v, want containing %q", out.Error, tt.want)
			}
		})
	}
}

func TestExportSite(t *testing.T) {
	dir := t.TempDir()
	resolver := &stubResolver{broken: map[core.ImageRef]bool{"/art/img2.jpg": true}}
	reporter := &recordingReporter{}
	svc := NewExportService(newPages(resolver), fs.NewOSFileSystem(), reporter)

	public := fstest.MapFS{
		"art/img1.jpg":  {Data: []byte("jpeg")},
		"art/.DS_Store": {Data: []byte("junk")},
		"index.html":    {Data: []byte("stale")},
		"favicon.ico":   {Data: []byte("ico")},
	}

	out := svc.ExportSite(context.Background(), ExportInput{
		Portfolio: testPortfolio("/art/img1.jpg", "/art/img2.jpg"),
		PublicFS:  public,
		OutDir:    dir,
	})
	if out.Error != nil {
		t.Fatalf("ExportSite() error = %v", out.Error)
	}

	for _, rel := range []string{"index.html", "_folio/site.css", "_folio/folio.js", "art/img1.jpg", "favicon.ico", "manifest.json"} {
		if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(rel))); err != nil {
			t.Errorf("expected %s to be written: %v", rel, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "art", ".DS_Store")); !os.IsNotExist(err) {
		t.Error("dotfiles should not be exported")
	}

	index, _ := os.ReadFile(filepath.Join(dir, "index.html"))
	if string(index) == "stale" || !strings.Contains(string(index), "Showing 2 works") {
		t.Error("index.html should be the rendered page, not the public copy")
	}

	data, err := os.ReadFile(filepath.Join(dir, "manifest.json"))
	if err != nil {
		t.Fatal(err)
	}
	var manifest core.Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		t.Fatalf("manifest is not JSON: %v", err)
	}
	if len(manifest.Tiles) != 2 {
		t.Errorf("manifest tiles = %d, want 2", len(manifest.Tiles))
	}

	if reporter.count != 2 {
		t.Errorf("work count = %d, want 2", reporter.count)
	}
	if len(reporter.warnings) != 1 || reporter.warnings[0] != "/art/img2.jpg" {
		t.Errorf("warnings = %v, want one for img2", reporter.warnings)
	}
	if len(reporter.failed) != 0 {
		t.Errorf("failed steps = %v", reporter.failed)
	}
}

func TestExportSiteRequiresOutDir(t *testing.T) {
	svc := NewExportService(newPages(nil), fs.NewOSFileSystem(), nil)
	out := svc.ExportSite(context.Background(), ExportInput{Portfolio: testPortfolio()})
	if out.Error == nil {
		t.Error("expected error without output directory")
	}
}

func TestExportSiteRenderFailure(t *testing.T) {
	reporter := &recordingReporter{}
	svc := NewExportService(NewPageService(failingRenderer{}, nil, nil, nil), fs.NewOSFileSystem(), reporter)
	out := svc.ExportSite(context.Background(), ExportInput{Portfolio: testPortfolio(), OutDir: t.TempDir()})
	if out.Error == nil {
		t.Fatal("expected render error")
	}
	if len(reporter.failed) != 1 || reporter.failed[0] != "Render page" {
		t.Errorf("failed steps = %v", reporter.failed)
	}
}

func TestInitProject(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "studio")
	cli := &recordingCLI{}
	out := NewInitService(fs.NewOSFileSystem(), adapters.NewTemplateSource(), cli).InitProject(InitInput{
		ProjectDir: dir,
		Name:       "Mara Vélez",
		Now:        time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	if out.Error != nil {
		t.Fatalf("InitProject() error = %v", out.Error)
	}
	if !out.Success {
		t.Error("expected success")
	}

	cfg, err := os.ReadFile(filepath.Join(dir, "portfolio.yaml"))
	if err != nil {
		t.Fatalf("portfolio.yaml not written: %v", err)
	}
	for _, want := range []string{
		"# Mara Vélez, portfolio started 2026.",
		`name: "Mara Vélez"`,
		`handle: "@maravlez"`,
		"https://instagram.com/maravlez",
	} {
		if !strings.Contains(string(cfg), want) {
			t.Errorf("portfolio.yaml missing %q:\n%s", want, cfg)
		}
	}
	if strings.Contains(string(cfg), "{{") {
		t.Errorf("unreplaced placeholder:\n%s", cfg)
	}
	for _, rel := range []string{"about.md", "public/art/.gitkeep"} {
		if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(rel))); err != nil {
			t.Errorf("missing %s: %v", rel, err)
		}
	}
	if !strings.Contains(cli.output(), "(generated)") {
		t.Error("generated files should be marked in the output")
	}
}

func TestInitProjectRefusesNonEmptyDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "keep.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	out := NewInitService(fs.NewOSFileSystem(), adapters.NewTemplateSource(), &recordingCLI{}).InitProject(InitInput{ProjectDir: dir})
	if out.Error == nil || !strings.Contains(out.Error.Error(), "not empty") {
		t.Errorf("error = %v, want not empty", out.Error)
	}
}

func TestInitProjectInvalidTemplate(t *testing.T) {
	out := NewInitService(fs.NewOSFileSystem(), adapters.NewTemplateSource(), &recordingCLI{}).InitProject(InitInput{
		ProjectDir: filepath.Join(t.TempDir(), "x"),
		Template:   "gallery-wall",
	})
	if out.Error == nil || !strings.Contains(out.Error.Error(), "invalid template") {
		t.Errorf("error = %v, want invalid template", out.Error)
	}
}

func TestDoctorReportsTileStates(t *testing.T) {
	resolver := &stubResolver{broken: map[core.ImageRef]bool{"/art/img2.jpg": true}}
	cli := &recordingCLI{}
	out := NewDoctorService(newPages(resolver), cli).Check(context.Background(), DoctorInput{
		Portfolio: testPortfolio("/art/img1.jpg", "/art/img2.jpg"),
	})
	if out.Error != nil {
		t.Fatalf("Check() error = %v", out.Error)
	}
	if out.Healthy {
		t.Error("gallery with a broken image should not be healthy")
	}

	got := cli.output()
	for _, want := range []string{
		"ok #1 /art/img1.jpg",
		"warn #2 /art/img2.jpg: /public/art/img2.jpg not found",
		"error 1 of 2 works fall back to a placeholder",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestDoctorHealthy(t *testing.T) {
	cli := &recordingCLI{}
	out := NewDoctorService(newPages(&stubResolver{}), cli).Check(context.Background(), DoctorInput{
		Portfolio: testPortfolio("/art/img1.jpg"),
	})
	if !out.Healthy {
		t.Error("expected healthy gallery")
	}
	if !strings.Contains(cli.output(), "done Showing 1 works") {
		t.Errorf("missing count label:\n%s", cli.output())
	}
}
