// Package repository defines the record store interface and its drivers.
package repository

import (
	"context"

	"github.com/okian/wanderlist/internal/domain/destination"
)

// Store provides read/write access to persisted destinations.
//
// Store identifiers and createdAt/updatedAt are assigned by the store. Methods
// that address a single record return ErrNotFound when the id is unknown.
type Store interface {
	// FindAll returns every destination ordered by createdAt, newest first.
	FindAll(ctx context.Context) ([]destination.Destination, error)

	// FindByID returns the destination with the given id.
	FindByID(ctx context.Context, id string) (destination.Destination, error)

	// Insert persists a new destination and returns it with id and timestamps set.
	Insert(ctx context.Context, f destination.Fields) (destination.Destination, error)

	// Update replaces the writable fields of an existing destination.
	// id and createdAt are preserved; updatedAt is refreshed.
	Update(ctx context.Context, id string, f destination.Fields) (destination.Destination, error)

	// Delete removes the destination with the given id.
	Delete(ctx context.Context, id string) error

	// Close releases the underlying connection.
	Close() error
}

// Clearer is implemented by stores that can drop every record at once.
type Clearer interface {
	DeleteAll(ctx context.Context) (int64, error)
}

// Pinger is implemented by stores backed by a remote connection.
type Pinger interface {
	Ping(ctx context.Context) error
}
