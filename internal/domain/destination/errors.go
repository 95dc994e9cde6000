package destination

import "errors"

// Outcome kinds shared by the service, the HTTP layer and the client.
var (
	// ErrUnavailable means the record store cannot be reached. Clients fall back to local storage.
	ErrUnavailable = errors.New("store unavailable")
	// ErrNotFound means the identifier does not exist in the store.
	ErrNotFound = errors.New("destination not found")
	// ErrInvalid means required fields are missing or malformed.
	ErrInvalid = errors.New("invalid destination")
	// ErrFault is any unexpected store failure.
	ErrFault = errors.New("store fault")
)
