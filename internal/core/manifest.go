package core

import (
	"encoding/json"
	"sort"
)

type ManifestFile struct {
	Path        string `json:"path"`
	Hash        string `json:"hash"`
	Size        int    `json:"size"`
	ContentType string `json:"contentType"`
}

type ManifestTile struct {
	Index int    `json:"index"`
	Ref   string `json:"ref"`
	State string `json:"state"`
}

type Manifest struct {
	Version int            `json:"version"`
	Files   []ManifestFile `json:"files"`
	Tiles   []ManifestTile `json:"tiles"`
}

func NewManifest(g Gallery) *Manifest {
	tiles := make([]ManifestTile, len(g.Tiles))
	for i, t := range g.Tiles {
		tiles[i] = ManifestTile{Index: t.Index, Ref: string(t.Ref), State: t.State.String()}
	}
	return &Manifest{Version: 1, Files: []ManifestFile{}, Tiles: tiles}
}

func (m *Manifest) AddFile(path string, data []byte) {
	m.Files = append(m.Files, ManifestFile{
		Path:        path,
		Hash:        HashContent(data),
		Size:        len(data),
		ContentType: GetContentType(path),
	})
}

func (m *Manifest) Marshal() ([]byte, error) {
	sort.Slice(m.Files, func(i, j int) bool { return m.Files[i].Path < m.Files[j].Path })
	return json.MarshalIndent(m, "", "  ")
}

func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
