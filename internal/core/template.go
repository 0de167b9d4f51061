package core

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// ScaffoldData fills the placeholders of a project scaffold.
type ScaffoldData struct {
	Name   string // artist display name
	Handle string // social handle without the leading @
	Year   int    // copyright year for the footer caption
}

// NewScaffoldData derives the scaffold values for a new project. An empty
// name falls back to the project directory's base name.
func NewScaffoldData(projectDir, name string, now time.Time) ScaffoldData {
	if strings.TrimSpace(name) == "" {
		name = DeriveProjectName(projectDir)
	}
	return ScaffoldData{
		Name:   name,
		Handle: HandleFor(name),
		Year:   now.Year(),
	}
}

// HandleFor lowercases name and keeps the characters social handles accept.
func HandleFor(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
		case r == '.' || r == '_':
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "portfolio"
	}
	return b.String()
}

func ProcessFilename(filename string) (string, bool) {
	if before, ok := strings.CutSuffix(filename, ".tmpl"); ok {
		return before, true
	}
	return filename, false
}

func ProcessContent(content []byte, isTemplate bool, data ScaffoldData) []byte {
	if !isTemplate {
		return content
	}

	r := strings.NewReplacer(
		"{{.Name}}", data.Name,
		"{{.Handle}}", data.Handle,
		"{{.Year}}", strconv.Itoa(data.Year),
	)
	return []byte(r.Replace(string(content)))
}

func DeriveProjectName(projectDir string) string {
	base := filepath.Base(projectDir)
	if base == "." || base == "/" || base == "" {
		return "portfolio"
	}
	return base
}
