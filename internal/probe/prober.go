package probe

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // GIF decoder registration
	_ "image/jpeg" // JPEG decoder registration
	_ "image/png"  // PNG decoder registration
	"io"
	"io/fs"
	"mime"
	"net/http"
	"strings"
	"time"

	_ "golang.org/x/image/bmp"  // BMP decoder registration
	_ "golang.org/x/image/tiff" // TIFF decoder registration
	_ "golang.org/x/image/webp" // WebP decoder registration

	"github.com/3-lines-studio/folio/internal/core"
)

var (
	ErrNotFound    = errors.New("image not found")
	ErrNotAnImage  = errors.New("resource is not a decodable image")
	ErrRemoteOff   = errors.New("remote probing disabled")
	ErrUnsupported = errors.New("unsupported image reference")
)

// maxHeaderBytes bounds how much of a resource is read to decode its header.
const maxHeaderBytes = 1 << 20

// Prober reports whether ref resolves to a displayable image. A nil error
// means the tile can display it.
type Prober interface {
	Probe(ctx context.Context, ref core.ImageRef) error
}

type LocalProber struct {
	public fs.FS
}

func NewLocalProber(public fs.FS) *LocalProber {
	return &LocalProber{public: public}
}

func (p *LocalProber) Probe(ctx context.Context, ref core.ImageRef) error {
	if p.public == nil {
		return fmt.Errorf("%w: no public dir", ErrNotFound)
	}

	rel, ok := core.PublicPath(ref)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnsupported, ref)
	}

	f, err := p.public.Open(rel)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrNotFound, rel)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", rel, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrNotFound, rel)
	}

	return decodeHeader(f, rel, core.GetContentType(rel))
}

type RemoteProber struct {
	client    *http.Client
	userAgent string
}

func NewRemoteProber(timeout time.Duration) *RemoteProber {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RemoteProber{
		client: &http.Client{
			Timeout: timeout,
		},
		userAgent: "folio-probe",
	}
}

func (p *RemoteProber) Probe(ctx context.Context, ref core.ImageRef) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, string(ref), nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnsupported, err)
	}
	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept", "image/*")

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: HTTP %d", ErrNotFound, resp.StatusCode)
	}

	return decodeHeader(resp.Body, string(ref), remoteContentType(resp))
}

func remoteContentType(resp *http.Response) string {
	ct := resp.Header.Get("Content-Type")
	if ct == "" || strings.HasPrefix(ct, "application/octet-stream") {
		return core.GetContentType(resp.Request.URL.Path)
	}
	return ct
}

// decodableTypes are the media types with a registered decoder.
var decodableTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	"image/bmp":  true,
	"image/tiff": true,
}

// decodeHeader accepts anything image.DecodeConfig understands. An image
// type without a registered decoder (SVG, AVIF, HEIC) is accepted unread and
// left to the browser.
func decodeHeader(r io.Reader, name, contentType string) error {
	if mediaType, ok := imageMediaType(contentType); ok && !decodableTypes[mediaType] {
		return nil
	}

	_, _, err := image.DecodeConfig(io.LimitReader(r, maxHeaderBytes))
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNotAnImage, name, err)
	}
	return nil
}

func imageMediaType(contentType string) (string, bool) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", false
	}
	return mediaType, strings.HasPrefix(mediaType, "image/")
}

// Router sends local refs to Local and remote refs to Remote.
type Router struct {
	Local  Prober
	Remote Prober
}

func (r Router) Probe(ctx context.Context, ref core.ImageRef) error {
	if ref.IsRemote() {
		if r.Remote == nil {
			return ErrRemoteOff
		}
		return r.Remote.Probe(ctx, ref)
	}
	if r.Local == nil {
		return fmt.Errorf("%w: no local prober", ErrNotFound)
	}
	return r.Local.Probe(ctx, ref)
}

func (p *RemoteProber) CloseIdleConnections() {
	p.client.CloseIdleConnections()
}
