// Package testutil holds in-memory collaborators shared by package tests.
package testutil

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/johnquangdev/oncovoice/internal/domain/entities"
	"github.com/johnquangdev/oncovoice/internal/infrastructure/catalog"
)

// Catalog returns a three-team catalog. Team 3 has no reference document.
func Catalog(documentBase string) *catalog.StaticProvider {
	c, err := entities.NewCatalog(
		[]entities.BreakoutSession{{ID: 1, Name: "Breakout Session 1", TeamIDs: []int{1, 2, 3}}},
		[]entities.Team{
			{ID: 1, Name: "Team 1", Topic: "ILD and cancer therapy", SessionID: 1, DocumentURL: documentBase + "/1.pdf"},
			{ID: 2, Name: "Team 2", Topic: "Cardio-oncology", SessionID: 1, DocumentURL: documentBase + "/2.pdf"},
			{ID: 3, Name: "Team 3", Topic: "Fertility preservation", SessionID: 1},
		},
	)
	if err != nil {
		panic(err)
	}
	return catalog.NewStaticProvider(c)
}

// Object is a stored blob
type Object struct {
	Data        []byte
	ContentType string
}

// Storage is an in-memory ObjectStorage
type Storage struct {
	BaseURL string
	PutErr  error

	mu      sync.Mutex
	objects map[string]Object
}

// NewStorage creates an empty store whose URLs start with baseURL
func NewStorage(baseURL string) *Storage {
	return &Storage{BaseURL: baseURL, objects: make(map[string]Object)}
}

func (s *Storage) Put(ctx context.Context, name string, reader io.Reader, size int64, contentType string) (*entities.StoredObject, error) {
	if s.PutErr != nil {
		return nil, s.PutErr
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.objects[name] = Object{Data: data, ContentType: contentType}
	s.mu.Unlock()
	return &entities.StoredObject{
		Name:         name,
		URL:          s.ObjectURL(name),
		ContentType:  contentType,
		Size:         int64(len(data)),
		LastModified: time.Now(),
	}, nil
}

func (s *Storage) Stat(ctx context.Context, name string) (*entities.StoredObject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[name]
	if !ok {
		return nil, entities.ErrObjectNotFound
	}
	return &entities.StoredObject{
		Name:        name,
		URL:         s.ObjectURL(name),
		ContentType: obj.ContentType,
		Size:        int64(len(obj.Data)),
	}, nil
}

func (s *Storage) PresignPut(ctx context.Context, name string, expiry time.Duration) (string, error) {
	return fmt.Sprintf("%s/%s?X-Amz-Expires=%d", s.BaseURL, name, int(expiry.Seconds())), nil
}

func (s *Storage) ObjectURL(name string) string {
	return s.BaseURL + "/" + name
}

func (s *Storage) Ping(ctx context.Context) error {
	return nil
}

// Object returns a stored blob by name
func (s *Storage) Object(name string) (Object, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[name]
	return obj, ok
}

// Names lists stored object names
func (s *Storage) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.objects))
	for n := range s.objects {
		names = append(names, n)
	}
	return names
}
