package folio

import (
	"context"

	"github.com/3-lines-studio/folio/internal/adapters/fs"
	"github.com/3-lines-studio/folio/internal/usecase"
)

type ExportReporter = usecase.ExportReporter

type ExportResult = usecase.ExportOutput

// Export renders the page once and writes a static copy of the site to dir.
// reporter may be nil.
func (a *App) Export(ctx context.Context, dir string, reporter ExportReporter) ExportResult {
	p, err := a.Portfolio()
	if err != nil {
		return ExportResult{Error: err}
	}

	svc := usecase.NewExportService(a.pages, fs.NewOSFileSystem(), reporter)
	return svc.ExportSite(ctx, usecase.ExportInput{
		Portfolio: p,
		PublicFS:  a.currentPublic(),
		OutDir:    dir,
	})
}

// Doctor probes every gallery image and prints a report to out.
func (a *App) Doctor(ctx context.Context, out usecase.CLIOutput) usecase.DoctorOutput {
	p, err := a.Portfolio()
	if err != nil {
		return usecase.DoctorOutput{Error: err}
	}
	return usecase.NewDoctorService(a.pages, out).Check(ctx, usecase.DoctorInput{Portfolio: p})
}
