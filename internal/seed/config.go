package seed

import (
	"time"

	"github.com/okian/wanderlist/internal/adapters/repository"
	"github.com/okian/wanderlist/internal/domain/destination"
)

// Config holds configuration for a seeding run.
type Config struct {
	Store   repository.Options // which store to reset
	Samples []destination.Fields
	Verbose bool // log every inserted record
}

// Stats holds run statistics.
type Stats struct {
	Cleared   int64
	Inserted  int
	Listed    int
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}
