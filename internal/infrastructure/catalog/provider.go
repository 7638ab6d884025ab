package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/johnquangdev/oncovoice/internal/domain/entities"
)

// FileProvider serves the catalog loaded from a YAML file and reloads it on change.
// A file that fails to parse leaves the previous catalog in place.
type FileProvider struct {
	path    string
	current atomic.Pointer[entities.Catalog]
	logger  *zap.Logger
}

// NewFileProvider loads the catalog at path
func NewFileProvider(path string, logger *zap.Logger) (*FileProvider, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve catalog path: %w", err)
	}

	p := &FileProvider{path: abs, logger: logger}
	if err := p.Reload(); err != nil {
		return nil, err
	}
	return p, nil
}

// Current returns the most recently loaded catalog
func (p *FileProvider) Current() *entities.Catalog {
	return p.current.Load()
}

// Reload re-reads the catalog file
func (p *FileProvider) Reload() error {
	c, err := Load(p.path)
	if err != nil {
		return err
	}
	p.current.Store(c)

	if p.logger != nil {
		p.logger.Info("📚 Catalog loaded",
			zap.String("path", p.path),
			zap.Int("teams", len(c.TeamIDs())),
			zap.Int("sessions", len(c.Sessions())),
		)
	}
	return nil
}

// Watch reloads the catalog whenever the file changes until ctx is done.
// The parent directory is watched so editors that replace the file are handled.
func (p *FileProvider) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create catalog watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(p.path)); err != nil {
		return fmt.Errorf("failed to watch catalog directory: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != p.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if err := p.Reload(); err != nil && p.logger != nil {
				p.logger.Warn("⚠️ Catalog reload failed, keeping previous catalog",
					zap.String("path", p.path),
					zap.Error(err),
				)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if p.logger != nil {
				p.logger.Warn("catalog watcher error", zap.Error(err))
			}
		}
	}
}

// StaticProvider serves a fixed catalog
type StaticProvider struct {
	catalog *entities.Catalog
}

// NewStaticProvider wraps an already built catalog
func NewStaticProvider(c *entities.Catalog) *StaticProvider {
	return &StaticProvider{catalog: c}
}

// Current returns the wrapped catalog
func (s *StaticProvider) Current() *entities.Catalog {
	return s.catalog
}
