package core

import "strings"

type RequestAction int

const (
	ActionRenderPage RequestAction = iota
	ActionServeAsset
	ActionServePublic
	ActionNotFound
)

const AssetPrefix = "/_folio/"

type RequestInput struct {
	Path string
	// PublicExists reports whether a file for Path exists under the public dir.
	PublicExists func(rel string) bool
}

type RequestDecision struct {
	Action     RequestAction
	AssetName  string
	PublicPath string
}

func DecideRequest(in RequestInput) RequestDecision {
	path := NormalizePath(in.Path)

	if path == "/" || path == "/index.html" {
		return RequestDecision{Action: ActionRenderPage}
	}

	if strings.HasPrefix(path, AssetPrefix) {
		name := strings.TrimPrefix(path, AssetPrefix)
		if name == "" || strings.Contains(name, "/") {
			return RequestDecision{Action: ActionNotFound}
		}
		return RequestDecision{Action: ActionServeAsset, AssetName: name}
	}

	rel, ok := PublicPath(ImageRef(path))
	if !ok {
		return RequestDecision{Action: ActionNotFound}
	}
	if in.PublicExists != nil && in.PublicExists(rel) {
		return RequestDecision{Action: ActionServePublic, PublicPath: rel}
	}

	return RequestDecision{Action: ActionNotFound}
}
