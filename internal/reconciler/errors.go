package reconciler

import "errors"

// Sentinel kinds for reconciler errors.
var (
	ErrMissingDependency = errors.New("reconciler needs an api and a pending store")
	ErrPersist           = errors.New("saving pending records failed")
)
