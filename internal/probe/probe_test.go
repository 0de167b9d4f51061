package probe

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"testing/fstest"
	"time"

	"github.com/3-lines-studio/folio/internal/core"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	img.Set(1, 1, color.RGBA{R: 0x0e, G: 0xa5, B: 0xe9, A: 0xff})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLocalProber(t *testing.T) {
	public := fstest.MapFS{
		"art/img1.jpg":   {Data: pngBytes(t)},
		"art/notes.txt":  {Data: []byte("not an image")},
		"art/dir/a.png":  {Data: pngBytes(t)},
		"art/logo.svg":   {Data: []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="4" height="4"><rect width="4" height="4"/></svg>`)},
		"art/piece.avif": {Data: []byte("\x00\x00\x00\x1cftypavif")},
		"art/fake.png":   {Data: []byte("not a png")},
	}
	p := NewLocalProber(public)

	tests := []struct {
		name    string
		ref     core.ImageRef
		wantErr error
	}{
		{name: "existing image", ref: "/art/img1.jpg"},
		{name: "missing image", ref: "/art/img2.jpg", wantErr: ErrNotFound},
		{name: "not an image", ref: "/art/notes.txt", wantErr: ErrNotAnImage},
		{name: "svg left to the browser", ref: "/art/logo.svg"},
		{name: "avif left to the browser", ref: "/art/piece.avif"},
		{name: "corrupt decodable format", ref: "/art/fake.png", wantErr: ErrNotAnImage},
		{name: "directory", ref: "/art/dir", wantErr: ErrNotFound},
		{name: "traversal", ref: "/../art/img1.jpg", wantErr: ErrUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := p.Probe(context.Background(), tt.ref)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Probe(%q) error = %v", tt.ref, err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Probe(%q) error = %v, want %v", tt.ref, err, tt.wantErr)
			}
		})
	}
}

func TestRemoteProber(t *testing.T) {
	img := pngBytes(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.png":
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(img)
		case "/mark.svg":
			w.Header().Set("Content-Type", "image/svg+xml")
			_, _ = w.Write([]byte(`<svg xmlns="http://www.w3.org/2000/svg"/>`))
		case "/post/":
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<!doctype html><html></html>"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	p := NewRemoteProber(2 * time.Second)

	if err := p.Probe(context.Background(), core.ImageRef(srv.URL+"/ok.png")); err != nil {
		t.Errorf("Probe(ok.png) error = %v", err)
	}
	if err := p.Probe(context.Background(), core.ImageRef(srv.URL+"/missing.png")); !errors.Is(err, ErrNotFound) {
		t.Errorf("Probe(missing.png) error = %v, want ErrNotFound", err)
	}
	if err := p.Probe(context.Background(), core.ImageRef(srv.URL+"/mark.svg")); err != nil {
		t.Errorf("Probe(mark.svg) error = %v", err)
	}
	if err := p.Probe(context.Background(), core.ImageRef(srv.URL+"/post/")); !errors.Is(err, ErrNotAnImage) {
		t.Errorf("Probe(post page) error = %v, want ErrNotAnImage", err)
	}
}

type countingProber struct {
	calls  atomic.Int32
	broken map[core.ImageRef]bool
}

func (p *countingProber) Probe(ctx context.Context, ref core.ImageRef) error {
	p.calls.Add(1)
	if p.broken[ref] {
		return ErrNotFound
	}
	return nil
}

func TestResolverScenario(t *testing.T) {
	public := fstest.MapFS{
		"art/img1.jpg": {Data: pngBytes(t)},
	}
	r := NewResolver(Router{Local: NewLocalProber(public)}, WithLogger(quietLogger()))

	refs := []core.ImageRef{"/art/img1.jpg", "/art/img2.jpg"}
	states, err := r.Resolve(context.Background(), refs)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if len(states) != 2 {
		t.Fatalf("len(states) = %d, want 2", len(states))
	}
	if core.IsFallback(states[0]) {
		t.Error("img1 should display")
	}
	fb, ok := states[1].(core.Fallback)
	if !ok {
		t.Fatalf("img2 state = %v, want fallback", states[1])
	}
	if fb.Ref != "/art/img2.jpg" {
		t.Errorf("fallback ref = %q", fb.Ref)
	}
}

func TestResolverKeepsOrderUnderConcurrency(t *testing.T) {
	broken := map[core.ImageRef]bool{}
	refs := make([]core.ImageRef, 40)
	for i := range refs {
		refs[i] = core.ImageRef("/art/img" + string(rune('a'+i%26)) + string(rune('0'+i/26)) + ".jpg")
		if i%3 == 0 {
			broken[refs[i]] = true
		}
	}
	p := &countingProber{broken: broken}
	r := NewResolver(p, WithConcurrency(4), WithLogger(quietLogger()))

	states, err := r.Resolve(context.Background(), refs)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	for i, s := range states {
		if core.IsFallback(s) != broken[refs[i]] {
			t.Errorf("state %d = %v, broken = %v", i, s, broken[refs[i]])
		}
	}
}

func TestResolverNeverRetriesFallback(t *testing.T) {
	ref := core.ImageRef("/art/img2.jpg")
	p := &countingProber{broken: map[core.ImageRef]bool{ref: true}}

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	r := NewResolver(p, WithTTL(time.Minute), WithClock(clock), WithLogger(quietLogger()))

	for i := 0; i < 3; i++ {
		states, err := r.Resolve(context.Background(), []core.ImageRef{ref})
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if !core.IsFallback(states[0]) {
			t.Fatalf("render %d reverted to displaying", i)
		}
		now = now.Add(time.Hour)
		// Even if the asset appears later, the tile stays fallen back.
		p.broken[ref] = false
	}

	if got := p.calls.Load(); got != 1 {
		t.Errorf("probe calls = %d, want 1", got)
	}
}

func TestResolverReprobesDisplayingAfterTTL(t *testing.T) {
	ref := core.ImageRef("/art/img1.jpg")
	p := &countingProber{broken: map[core.ImageRef]bool{}}

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	r := NewResolver(p, WithTTL(time.Minute), WithClock(func() time.Time { return now }), WithLogger(quietLogger()))

	_, _ = r.Resolve(context.Background(), []core.ImageRef{ref})
	_, _ = r.Resolve(context.Background(), []core.ImageRef{ref})
	if got := p.calls.Load(); got != 1 {
		t.Fatalf("probe calls within ttl = %d, want 1", got)
	}

	now = now.Add(2 * time.Minute)
	p.broken[ref] = true
	states, _ := r.Resolve(context.Background(), []core.ImageRef{ref})
	if !core.IsFallback(states[0]) {
		t.Error("expired displaying entry should be re-probed and fall back")
	}
	if got := p.calls.Load(); got != 2 {
		t.Errorf("probe calls = %d, want 2", got)
	}
}

func TestResolverRemoteDisabledLeavesDisplaying(t *testing.T) {
	r := NewResolver(Router{Local: NewLocalProber(fstest.MapFS{})}, WithLogger(quietLogger()))

	states, err := r.Resolve(context.Background(), []core.ImageRef{"https://example.com/a.jpg"})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if core.IsFallback(states[0]) {
		t.Error("remote ref without a remote prober should be left to the browser")
	}
}

func TestResolverEmpty(t *testing.T) {
	r := NewResolver(nil, WithLogger(quietLogger()))
	states, err := r.Resolve(context.Background(), nil)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(states) != 0 {
		t.Errorf("len(states) = %d, want 0", len(states))
	}
}

func TestResolverCancelledContext(t *testing.T) {
	p := &countingProber{broken: map[core.ImageRef]bool{}}
	r := NewResolver(p, WithLogger(quietLogger()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.Resolve(ctx, []core.ImageRef{"/art/img1.jpg"}); !errors.Is(err, context.Canceled) {
		t.Errorf("Resolve() error = %v, want context.Canceled", err)
	}
	if _, ok := r.Known("/art/img1.jpg"); ok {
		t.Error("a cancelled probe must not be cached")
	}
}

func TestResolverDisplaysSVG(t *testing.T) {
	public := fstest.MapFS{
		"art/logo.svg": {Data: []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="4" height="4"/>`)},
	}
	r := NewResolver(Router{Local: NewLocalProber(public)}, WithLogger(quietLogger()))

	states, err := r.Resolve(context.Background(), []core.ImageRef{"/art/logo.svg"})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if core.IsFallback(states[0]) {
		t.Error("an existing svg should be displayed")
	}
}
