package templates

import (
	"embed"
	"errors"
	"io/fs"
)

//go:embed all:portfolio
var portfolioFS embed.FS

//go:embed all:sequence
var sequenceFS embed.FS

var validTemplates = []string{"portfolio", "sequence"}

var ErrInvalidTemplate = errors.New("invalid template name")

const DefaultTemplate = "portfolio"

func GetTemplate(name string) (fs.FS, error) {
	switch name {
	case "portfolio":
		return fs.Sub(portfolioFS, "portfolio")
	case "sequence":
		return fs.Sub(sequenceFS, "sequence")
	default:
		return nil, ErrInvalidTemplate
	}
}

func Names() []string {
	out := make([]string, len(validTemplates))
	copy(out, validTemplates)
	return out
}
