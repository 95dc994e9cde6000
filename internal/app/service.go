// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/okian/wanderlist/internal/adapters/repository"
	"github.com/okian/wanderlist/internal/domain/destination"
	"github.com/okian/wanderlist/pkg/logger"
	"github.com/okian/wanderlist/pkg/metrics"
)

// Opener opens the record store. repository.Open is the default.
type Opener func(ctx context.Context, o repository.Options, opts ...repository.Option) (repository.Store, error)

// Service implements the destination operations behind the HTTP API.
type Service struct {
	mu sync.RWMutex

	// Record store
	store          repository.Store
	storeOpts      repository.Options
	storeOptions   []repository.Option
	opener         Opener
	storeConnected bool

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStoreOptions selects the store driver, DSN and connect timeout.
func WithStoreOptions(o repository.Options) Option {
	return func(s *Service) {
		s.storeOpts = o
	}
}

// WithRepositoryOptions passes options (clock, id generator) to the opened store.
func WithRepositoryOptions(opts ...repository.Option) Option {
	return func(s *Service) {
		s.storeOptions = append(s.storeOptions, opts...)
	}
}

// WithOpener replaces the function used to open the store.
func WithOpener(open Opener) Option {
	return func(s *Service) {
		if open != nil {
			s.opener = open
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		storeOpts: repository.Options{
			Driver:         repository.DriverMemory,
			ConnectTimeout: 5 * time.Second,
		},
		opener: repository.Open,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start opens the record store once. A failed open is logged and leaves the
// service unavailable for its whole lifetime; Start itself does not fail.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting destination service...",
		logger.String("driver", s.storeOpts.Driver),
	)

	store, err := s.opener(ctx, s.storeOpts, s.storeOptions...)
	if err != nil {
		s.logger.Warn(ctx, "record store unavailable, destination routes will answer 503",
			logger.String("driver", s.storeOpts.Driver),
			logger.Error(err),
		)
		s.storeConnected = false
	} else {
		s.store = store
		s.storeConnected = true
		s.logger.Info(ctx, "record store connected", logger.String("driver", s.storeOpts.Driver))
	}
	metrics.SetStoreAvailable(s.storeConnected)

	s.started = true
	s.logger.Info(ctx, "destination service started", logger.Bool("storeConnected", s.storeConnected))
	return nil
}

// Stop closes the record store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping destination service...")

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Warn(context.Background(), "closing record store", logger.Error(err))
		}
		s.store = nil
	}
	s.storeConnected = false
	s.started = false
	s.logger.Info(context.Background(), "destination service stopped")
}

// StoreConnected reports whether the startup connection attempt succeeded.
func (s *Service) StoreConnected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.storeConnected
}

// List returns every destination, newest first.
func (s *Service) List(ctx context.Context) ([]destination.Destination, error) {
	var out []destination.Destination
	err := s.guard(ctx, "list", func(st repository.Store) error {
		all, err := st.FindAll(ctx)
		if err != nil {
			return err
		}
		out = all
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.UpdateStoreRecords(len(out))
	return out, nil
}

// Get returns a single destination.
func (s *Service) Get(ctx context.Context, id string) (destination.Destination, error) {
	var out destination.Destination
	err := s.guard(ctx, "get", func(st repository.Store) error {
		d, err := st.FindByID(ctx, id)
		out = d
		return err
	})
	return out, err
}

// Create validates f and stores a new destination.
func (s *Service) Create(ctx context.Context, f destination.Fields) (destination.Destination, error) {
	var out destination.Destination
	err := s.guard(ctx, "create", func(st repository.Store) error {
		f = f.Normalize()
		if err := f.Validate(); err != nil {
			return err
		}
		d, err := st.Insert(ctx, f)
		out = d
		return err
	})
	return out, err
}

// Update validates f and replaces the writable fields of destination id.
func (s *Service) Update(ctx context.Context, id string, f destination.Fields) (destination.Destination, error) {
	var out destination.Destination
	err := s.guard(ctx, "update", func(st repository.Store) error {
		f = f.Normalize()
		if err := f.Validate(); err != nil {
			return err
		}
		d, err := st.Update(ctx, id, f)
		out = d
		return err
	})
	return out, err
}

// Delete removes destination id.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.guard(ctx, "delete", func(st repository.Store) error {
		return st.Delete(ctx, id)
	})
}

// guard runs fn against the store when it is reachable and maps the outcome
// onto the destination error kinds. Panics inside fn become ErrFault.
func (s *Service) guard(ctx context.Context, op string, fn func(repository.Store) error) (err error) {
	s.mu.RLock()
	st, connected := s.store, s.storeConnected
	s.mu.RUnlock()

	if !connected || st == nil {
		metrics.RecordStoreOperation(op, "unavailable", 0)
		return destination.ErrUnavailable
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			s.log().Error(ctx, "store operation panicked",
				logger.String("operation", op),
				logger.Any("panic", r),
			)
			err = fmt.Errorf("%w: %s: panic: %v", destination.ErrFault, op, r)
		}
		metrics.RecordStoreOperation(op, outcome(err), float64(time.Since(start).Microseconds())/1000)
	}()

	err = fn(st)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, destination.ErrNotFound):
		return destination.ErrNotFound
	case errors.Is(err, destination.ErrInvalid):
		return err
	default:
		s.log().Error(ctx, "store operation failed",
			logger.String("operation", op),
			logger.Error(err),
		)
		return fmt.Errorf("%w: %s: %w", destination.ErrFault, op, err)
	}
}

func (s *Service) log() logger.Logger {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.logger == nil {
		return logger.Discard()
	}
	return s.logger
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, destination.ErrNotFound):
		return "not_found"
	case errors.Is(err, destination.ErrInvalid):
		return "invalid"
	case errors.Is(err, destination.ErrUnavailable):
		return "unavailable"
	default:
		return "fault"
	}
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"started":        s.started,
		"storeDriver":    s.storeOpts.Driver,
		"storeConnected": s.storeConnected,
	}
}
