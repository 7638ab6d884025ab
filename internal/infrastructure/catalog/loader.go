package catalog

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/johnquangdev/oncovoice/internal/domain/entities"
)

// fileFormat is the on-disk layout of the catalog file
type fileFormat struct {
	DocumentsBaseURL string                     `yaml:"documents_base_url"`
	Sessions         []entities.BreakoutSession `yaml:"sessions"`
	Teams            []entities.Team            `yaml:"teams"`
}

// Load reads and validates a catalog file
func Load(path string) (*entities.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes catalog YAML, resolving relative document paths against documents_base_url
func Parse(data []byte) (*entities.Catalog, error) {
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrInvalidCatalog, err)
	}

	for i := range f.Teams {
		resolved, err := resolveDocument(f.DocumentsBaseURL, f.Teams[i].DocumentURL)
		if err != nil {
			return nil, fmt.Errorf("%w: team %d: %v", entities.ErrInvalidCatalog, f.Teams[i].ID, err)
		}
		f.Teams[i].DocumentURL = resolved
	}

	return entities.NewCatalog(f.Sessions, f.Teams)
}

func resolveDocument(base, doc string) (string, error) {
	doc = strings.TrimSpace(doc)
	if doc == "" {
		return "", nil
	}
	if strings.HasPrefix(doc, "http://") || strings.HasPrefix(doc, "https://") {
		return doc, nil
	}
	if base == "" {
		return "", fmt.Errorf("relative document %q requires documents_base_url", doc)
	}
	return url.JoinPath(base, doc)
}
