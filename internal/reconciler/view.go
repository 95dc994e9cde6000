package reconciler

import (
	"github.com/okian/wanderlist/internal/domain/destination"
	"github.com/okian/wanderlist/internal/domain/ident"
)

// Entry is one card of the merged list.
type Entry struct {
	destination.Destination
	ID    ident.ID
	Local bool
}

// View is the input of the presentation layer.
type View struct {
	// Entries holds store records (store order) followed by pending records (local order).
	Entries []Entry

	// Unavailable asks the presentation layer to show the warning banner.
	Unavailable bool

	// Err is the list failure behind Unavailable, if any.
	Err error
}
