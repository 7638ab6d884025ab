package repositories

import "github.com/johnquangdev/oncovoice/internal/domain/entities"

// CatalogProvider exposes the currently loaded team catalog
type CatalogProvider interface {
	Current() *entities.Catalog
}
