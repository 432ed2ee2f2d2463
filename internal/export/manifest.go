package export

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

const (
	manifestFileName    = ".article-manifest.json"
	manifestFileVersion = 1
)

// buildManifest records metadata about the last export so callers can diff
// builds or drive incremental deploys.
type buildManifest struct {
	Version     int                        `json:"version"`
	GeneratedAt time.Time                  `json:"generated_at"`
	Articles    map[string]manifestArticle `json:"articles"`
}

type manifestArticle struct {
	ArticleID    string    `json:"article_id"`
	Slug         string    `json:"slug"`
	Route        string    `json:"route"`
	Output       string    `json:"output"`
	Checksum     string    `json:"checksum"`
	LastModified time.Time `json:"last_modified"`
	RenderedAt   time.Time `json:"rendered_at"`
}

func newBuildManifest() *buildManifest {
	return &buildManifest{
		Version:  manifestFileVersion,
		Articles: map[string]manifestArticle{},
	}
}

func parseManifest(data []byte) (*buildManifest, error) {
	if len(data) == 0 {
		return newBuildManifest(), nil
	}
	var manifest buildManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("export: parse manifest: %w", err)
	}
	if manifest.Articles == nil {
		manifest.Articles = map[string]manifestArticle{}
	}
	if manifest.Version == 0 {
		manifest.Version = manifestFileVersion
	}
	return &manifest, nil
}

func (m *buildManifest) marshal() ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	// Stable ordering for deterministic output.
	type orderedManifest struct {
		Version     int               `json:"version"`
		GeneratedAt time.Time         `json:"generated_at"`
		Articles    []manifestArticle `json:"articles"`
	}
	ordered := orderedManifest{
		Version:     m.Version,
		GeneratedAt: m.GeneratedAt,
	}
	if ordered.Version == 0 {
		ordered.Version = manifestFileVersion
	}
	if len(m.Articles) > 0 {
		ordered.Articles = make([]manifestArticle, 0, len(m.Articles))
		for _, entry := range m.Articles {
			ordered.Articles = append(ordered.Articles, entry)
		}
		sort.Slice(ordered.Articles, func(i, j int) bool {
			return ordered.Articles[i].Slug < ordered.Articles[j].Slug
		})
	}
	return json.MarshalIndent(ordered, "", "  ")
}
