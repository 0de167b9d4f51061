package core

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
)

var ErrInvalidImageRef = errors.New("invalid image reference")

func NormalizePath(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if path != "/" && strings.HasSuffix(path, "/") {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}

// PublicPath maps a local ref such as "/art/img1.jpg" to the fs.FS path
// "art/img1.jpg". Remote refs and refs escaping the public root report false.
func PublicPath(ref ImageRef) (string, bool) {
	if ref.IsRemote() {
		return "", false
	}
	raw := string(ref)
	if i := strings.IndexAny(raw, "?#"); i >= 0 {
		raw = raw[:i]
	}
	if strings.Contains(raw, "..") || strings.Contains(raw, "\\") {
		return "", false
	}
	clean := strings.TrimPrefix(path.Clean("/"+raw), "/")
	if clean == "" || clean == "." {
		return "", false
	}
	return clean, true
}

func ValidateImageRef(ref ImageRef) error {
	s := string(ref)
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidImageRef)
	}

	if ref.IsRemote() {
		u, err := url.Parse(s)
		if err != nil {
			return fmt.Errorf("%w: %q: %v", ErrInvalidImageRef, s, err)
		}
		if u.Host == "" {
			return fmt.Errorf("%w: %q has no host", ErrInvalidImageRef, s)
		}
		return nil
	}

	if strings.Contains(s, "://") {
		return fmt.Errorf("%w: %q uses an unsupported scheme", ErrInvalidImageRef, s)
	}

	if !strings.HasPrefix(s, "/") {
		return fmt.Errorf("%w: %q must start with /", ErrInvalidImageRef, s)
	}

	if strings.Contains(s, "..") {
		return fmt.Errorf("%w: %q cannot contain parent directory references", ErrInvalidImageRef, s)
	}

	return nil
}
