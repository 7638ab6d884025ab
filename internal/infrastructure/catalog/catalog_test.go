package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/johnquangdev/oncovoice/internal/domain/entities"
)

const sampleYAML = `
documents_base_url: "https://files.example.com/oncovoice/documents/"
sessions:
  - id: 1
    name: Breakout Session 1
    teams: [1, 2]
teams:
  - id: 1
    name: Team 1
    topic: ILD and cancer therapy
    session: 1
    document: "1-ILD and cancer therapy combined.pdf"
  - id: 2
    name: Team 2
    topic: Managing a patient with very early HER2+ disease
    session: 1
    document: "https://cdn.example.com/2.pdf"
  - id: 3
    name: Team 3
    session: 1
`

func TestParse_ResolvesDocuments(t *testing.T) {
	c, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	doc, ok := c.DocumentURL(1)
	require.True(t, ok)
	assert.Equal(t, "https://files.example.com/oncovoice/documents/1-ILD%20and%20cancer%20therapy%20combined.pdf", doc)

	doc, ok = c.DocumentURL(2)
	require.True(t, ok)
	assert.Equal(t, "https://cdn.example.com/2.pdf", doc)

	_, ok = c.DocumentURL(3)
	assert.False(t, ok)

	team, _ := c.Team(1)
	assert.Equal(t, "ILD and cancer therapy", team.Topic)
	assert.Equal(t, 1, team.SessionID)
}

func TestParse_RelativeDocumentWithoutBase(t *testing.T) {
	_, err := Parse([]byte("teams:\n  - id: 1\n    document: a.pdf\n"))
	assert.ErrorIs(t, err, entities.ErrInvalidCatalog)
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("teams: [:"))
	assert.ErrorIs(t, err, entities.ErrInvalidCatalog)
}

func TestLoad_ShippedCatalog(t *testing.T) {
	c, err := Load(filepath.Join("..", "..", "..", "config", "teams.yaml"))
	require.NoError(t, err)

	assert.Len(t, c.TeamIDs(), 15)
	assert.Len(t, c.Sessions(), 3)
	for _, s := range c.Sessions() {
		assert.Len(t, s.TeamIDs, 5)
	}

	_, ok := c.DocumentURL(1)
	assert.True(t, ok)
	_, ok = c.DocumentURL(15)
	assert.False(t, ok, "placeholder teams have no reference document")
}

func TestFileProvider_ReloadKeepsPreviousOnError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "teams.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))

	p, err := NewFileProvider(path, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, p.Current().TeamIDs(), 3)

	require.NoError(t, os.WriteFile(path, []byte("teams: [:"), 0o644))
	assert.Error(t, p.Reload())
	assert.Len(t, p.Current().TeamIDs(), 3)
}

func TestFileProvider_WatchPicksUpChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "teams.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))

	p, err := NewFileProvider(path, zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- p.Watch(ctx) }()

	// Give the watcher time to register before writing
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("teams:\n  - id: 9\n    name: Team 9\n"), 0o644))

	assert.Eventually(t, func() bool {
		_, ok := p.Current().Team(9)
		return ok
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}
