package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNeedsUpload(t *testing.T) {
	existing := map[string]int64{"documents/1-ILD.pdf": 2048}

	tests := []struct {
		name  string
		obj   string
		size  int64
		force bool
		want  bool
	}{
		{"same size is skipped", "documents/1-ILD.pdf", 2048, false, false},
		{"changed size is uploaded", "documents/1-ILD.pdf", 4096, false, true},
		{"missing object is uploaded", "documents/2-HER2.pdf", 10, false, true},
		{"force uploads anyway", "documents/1-ILD.pdf", 2048, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, needsUpload(existing, tt.obj, tt.size, tt.force))
		})
	}
}

func TestObjectName(t *testing.T) {
	assert.Equal(t, "documents/1-ILD.pdf", objectName("documents", "/srv/pdfs/1-ILD.pdf"))
	assert.Equal(t, "docs/2025/a.pdf", objectName("docs/2025/", "a.pdf"))
}
