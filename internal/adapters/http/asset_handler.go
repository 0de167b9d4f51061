package http

import (
	"bytes"
	"io"
	iofs "io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/3-lines-studio/folio/internal/core"
)

// AssetLookup returns the bytes of a named asset.
type AssetLookup func(name string) ([]byte, error)

// AssetHandler serves the embedded stylesheet and script under /_folio/.
type AssetHandler struct {
	assets AssetLookup
	isDev  bool
}

func NewAssetHandler(assets AssetLookup, isDev bool) *AssetHandler {
	return &AssetHandler{
		assets: assets,
		isDev:  isDev,
	}
}

func (h *AssetHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	name := strings.TrimPrefix(req.URL.Path, core.AssetPrefix)
	if name == "" || strings.Contains(name, "/") {
		http.NotFound(w, req)
		return
	}
	h.ServeAsset(w, req, name)
}

func (h *AssetHandler) ServeAsset(w http.ResponseWriter, req *http.Request, name string) {
	if h.assets == nil {
		http.NotFound(w, req)
		return
	}

	data, err := h.assets(name)
	if err != nil {
		http.NotFound(w, req)
		return
	}

	w.Header().Set("Content-Type", core.GetContentType(name))
	w.Header().Set("ETag", core.ETag(data))
	if h.isDev {
		w.Header().Set("Cache-Control", "no-cache")
	} else {
		w.Header().Set("Cache-Control", "public, max-age=3600")
	}
	http.ServeContent(w, req, name, time.Time{}, bytes.NewReader(data))
}

// PublicHandler serves files from the artist's public directory.
type PublicHandler struct {
	public iofs.FS
}

func NewPublicHandler(public iofs.FS) *PublicHandler {
	return &PublicHandler{public: public}
}

func (h *PublicHandler) Exists(rel string) bool {
	if h == nil || h.public == nil {
		return false
	}
	info, err := iofs.Stat(h.public, rel)
	return err == nil && !info.IsDir()
}

func (h *PublicHandler) ServeFile(w http.ResponseWriter, req *http.Request, rel string) {
	if h == nil || h.public == nil {
		http.NotFound(w, req)
		return
	}

	file, err := h.public.Open(rel)
	if err != nil {
		http.NotFound(w, req)
		return
	}
	defer func() { _ = file.Close() }()

	info, err := file.Stat()
	if err != nil || info.IsDir() {
		http.NotFound(w, req)
		return
	}

	w.Header().Set("Content-Type", core.GetContentType(rel))

	if rs, ok := file.(io.ReadSeeker); ok {
		http.ServeContent(w, req, info.Name(), info.ModTime(), rs)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	http.ServeContent(w, req, info.Name(), info.ModTime(), bytes.NewReader(data))
}
