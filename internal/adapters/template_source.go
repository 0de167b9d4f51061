package adapters

import (
	"io/fs"

	"github.com/3-lines-studio/folio/internal/templates"
)

// TemplateSource serves the embedded project scaffolds.
type TemplateSource struct{}

func NewTemplateSource() *TemplateSource {
	return &TemplateSource{}
}

func (t *TemplateSource) GetTemplate(name string) (fs.FS, error) {
	if name == "" {
		name = templates.DefaultTemplate
	}
	return templates.GetTemplate(name)
}
