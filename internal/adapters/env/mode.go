package env

import (
	"os"
	"strings"

	"github.com/3-lines-studio/folio/internal/core"
)

const (
	DevVar    = "FOLIO_DEV"
	AddrVar   = "FOLIO_ADDR"
	ConfigVar = "FOLIO_CONFIG"
)

func DetectMode() core.Mode {
	switch strings.ToLower(os.Getenv(DevVar)) {
	case "1", "true", "yes":
		return core.ModeDev
	}
	return core.ModeProd
}

// Lookup returns the env value for key, or def when unset or empty.
func Lookup(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
