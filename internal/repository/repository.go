package repository

import (
	"context"

	"github.com/sakif/coffee-journal/internal/model"
)

// EntryRepository is the storage contract for coffee entries.
// List returns records in insertion order; callers that want newest-first
// (the service layer) reverse it themselves.
type EntryRepository interface {
	Create(ctx context.Context, entry *model.CoffeeEntry) error
	GetByID(ctx context.Context, id string) (*model.CoffeeEntry, error)
	List(ctx context.Context) ([]model.CoffeeEntry, error)
	Delete(ctx context.Context, id string) error
}
