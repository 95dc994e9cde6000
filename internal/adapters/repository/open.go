package repository

import (
	"context"
	"fmt"
	"time"
)

// Driver names accepted by Open.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Options selects and configures the store opened by Open.
type Options struct {
	Driver         string
	DSN            string
	ConnectTimeout time.Duration
}

// Open connects to the configured store within the connect timeout.
// The single attempt is not retried.
func Open(ctx context.Context, o Options, opts ...Option) (Store, error) {
	if o.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.ConnectTimeout)
		defer cancel()
	}

	switch o.Driver {
	case DriverMemory:
		return NewMemoryStore(opts...), nil
	case DriverSQLite:
		return NewSQLiteStore(ctx, o.DSN, opts...)
	case DriverPostgres:
		return NewPostgresStore(ctx, o.DSN, opts...)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, o.Driver)
	}
}
