package usecase

import (
	"context"
	iofs "io/fs"

	"github.com/3-lines-studio/folio/internal/adapters/fs"
	"github.com/3-lines-studio/folio/internal/core"
	"github.com/3-lines-studio/folio/internal/render"
)

type PageRenderer interface {
	RenderPage(data render.PageData) (string, error)
}

type Resolver interface {
	Resolve(ctx context.Context, refs []core.ImageRef) ([]core.TileState, error)
}

type CLIOutput interface {
	PrintHeader(msg string)
	PrintStep(msg string, args ...any)
	PrintSuccess(msg string, args ...any)
	PrintWarning(msg string, args ...any)
	PrintError(msg string, args ...any)
	PrintFile(path string)
	PrintDone(msg string, args ...any)
}

type ExportReporter interface {
	SetWorkCount(count int)
	StartStep(name string) int
	EndStep(id int, err error)
	AddWarning(subject string, message string, details []string)
}

type FileSystem = fs.FileSystem

type TemplateSource interface {
	GetTemplate(name string) (iofs.FS, error)
}
