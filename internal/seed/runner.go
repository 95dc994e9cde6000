// Package seed resets a record store to a known set of sample destinations.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okian/wanderlist/internal/adapters/repository"
	"github.com/okian/wanderlist/pkg/logger"
)

// ErrNotClearable is returned when the store cannot delete all records.
var ErrNotClearable = errors.New("store does not support clearing")

// Opener opens the store to seed.
type Opener func(ctx context.Context, o repository.Options, opts ...repository.Option) (repository.Store, error)

// Run opens the configured store, clears it and inserts the samples.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	return RunWith(ctx, cfg, repository.Open)
}

// RunWith is Run with a custom opener.
func RunWith(ctx context.Context, cfg *Config, open Opener) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get()

	samples := cfg.Samples
	if samples == nil {
		samples = Samples()
	}

	log.Info(ctx, "starting seed",
		logger.String("driver", cfg.Store.Driver),
		logger.Int("samples", len(samples)),
	)

	store, err := open(ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn(ctx, "closing store failed", logger.Error(err))
		}
	}()

	clearer, ok := store.(repository.Clearer)
	if !ok {
		return nil, ErrNotClearable
	}
	stats.Cleared, err = clearer.DeleteAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("clear store: %w", err)
	}
	log.Info(ctx, "cleared existing destinations", logger.Int64("count", stats.Cleared))

	for _, f := range samples {
		f = f.Normalize()
		if err := f.Validate(); err != nil {
			return nil, fmt.Errorf("sample %q: %w", f.Name, err)
		}
		d, err := store.Insert(ctx, f)
		if err != nil {
			return nil, fmt.Errorf("insert %q: %w", f.Name, err)
		}
		stats.Inserted++
		if cfg.Verbose {
			log.Info(ctx, "inserted destination",
				logger.String("id", d.ID),
				logger.String("name", d.Name),
				logger.String("date", d.DisplayDate()),
			)
		}
	}

	all, err := store.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list store: %w", err)
	}
	stats.Listed = len(all)

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	log.Info(ctx, "seed completed",
		logger.Int("inserted", stats.Inserted),
		logger.Int("listed", stats.Listed),
		logger.Duration("duration", stats.Duration),
	)
	return stats, nil
}
