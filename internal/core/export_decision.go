package core

import (
	"path"
	"strings"
)

type ExportAction int

const (
	ExportCopy ExportAction = iota
	ExportSkip
)

// DecidePublicFile classifies a file found under the public dir during
// export. Dotfiles (.gitkeep, .DS_Store) and files that would shadow the
// generated outputs are skipped.
func DecidePublicFile(rel string) ExportAction {
	base := path.Base(rel)
	if strings.HasPrefix(base, ".") {
		return ExportSkip
	}
	switch rel {
	case "index.html", "manifest.json":
		return ExportSkip
	}
	if strings.HasPrefix(rel, strings.TrimPrefix(AssetPrefix, "/")) {
		return ExportSkip
	}
	return ExportCopy
}
