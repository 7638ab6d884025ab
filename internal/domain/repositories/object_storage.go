package repositories

import (
	"context"
	"io"
	"time"

	"github.com/johnquangdev/oncovoice/internal/domain/entities"
)

// ObjectStorage stores write-once artifacts addressed by URL
type ObjectStorage interface {
	Put(ctx context.Context, name string, reader io.Reader, size int64, contentType string) (*entities.StoredObject, error)
	// Stat returns entities.ErrObjectNotFound when the object does not exist
	Stat(ctx context.Context, name string) (*entities.StoredObject, error)
	PresignPut(ctx context.Context, name string, expiry time.Duration) (string, error)
	ObjectURL(name string) string
	Ping(ctx context.Context) error
}
