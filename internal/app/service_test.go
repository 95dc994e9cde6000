package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/okian/wanderlist/internal/adapters/repository"
	service "github.com/okian/wanderlist/internal/app"
	"github.com/okian/wanderlist/internal/domain/destination"
	"github.com/okian/wanderlist/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

// faultyStore fails or panics on every call.
type faultyStore struct {
	repository.MemoryStore
	panics bool
}

func (f *faultyStore) FindAll(context.Context) ([]destination.Destination, error) {
	if f.panics {
		panic("driver bug")
	}
	return nil, errors.New("connection reset by peer")
}

func (f *faultyStore) Insert(context.Context, destination.Fields) (destination.Destination, error) {
	return destination.Destination{}, errors.New("disk full")
}

func openerFor(st repository.Store, err error) service.Opener {
	return func(context.Context, repository.Options, ...repository.Option) (repository.Store, error) {
		return st, err
	}
}

func paris() destination.Fields {
	d := destination.NewDate(2024, time.June, 15)
	return destination.Fields{Name: " Paris ", Location: "France", Description: "City of Light and love", Date: &d}
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should not be started", func() {
			So(svc, ShouldNotBeNil)
			stats := svc.GetStats()
			So(stats["started"], ShouldBeFalse)
			So(stats["storeDriver"], ShouldEqual, repository.DriverMemory)
			So(stats["storeConnected"], ShouldBeFalse)
		})

		Convey("Then every operation should be unavailable before Start", func() {
			_, err := svc.List(context.Background())
			So(errors.Is(err, destination.ErrUnavailable), ShouldBeTrue)
		})
	})
}

func TestService_StartWithoutStore(t *testing.T) {
	Convey("Given a service whose store cannot be opened", t, func() {
		ctx := context.Background()
		svc := service.New(
			service.WithLogger(logger.Discard()),
			service.WithStoreOptions(repository.Options{Driver: repository.DriverPostgres}),
			service.WithOpener(openerFor(nil, errors.New("connection refused"))),
		)
		defer svc.Stop()

		Convey("When starting the service", func() {
			err := svc.Start(ctx)

			Convey("Then it should start anyway and report the store as disconnected", func() {
				So(err, ShouldBeNil)
				stats := svc.GetStats()
				So(stats["started"], ShouldBeTrue)
				So(stats["storeDriver"], ShouldEqual, repository.DriverPostgres)
				So(stats["storeConnected"], ShouldBeFalse)
				So(svc.StoreConnected(), ShouldBeFalse)
			})

			Convey("Then every operation should be unavailable", func() {
				_, err := svc.List(ctx)
				So(errors.Is(err, destination.ErrUnavailable), ShouldBeTrue)
				_, err = svc.Get(ctx, "x")
				So(errors.Is(err, destination.ErrUnavailable), ShouldBeTrue)
				_, err = svc.Update(ctx, "x", paris())
				So(errors.Is(err, destination.ErrUnavailable), ShouldBeTrue)
				So(errors.Is(svc.Delete(ctx, "x"), destination.ErrUnavailable), ShouldBeTrue)
			})

			Convey("Then availability is checked before validation", func() {
				_, err := svc.Create(ctx, destination.Fields{})
				So(errors.Is(err, destination.ErrUnavailable), ShouldBeTrue)
			})
		})
	})
}

func TestService_CRUD(t *testing.T) {
	Convey("Given a started service over a memory store", t, func() {
		ctx := context.Background()
		svc := service.New(service.WithLogger(logger.Discard()))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("Starting twice is a no-op", func() {
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.StoreConnected(), ShouldBeTrue)
		})

		Convey("When creating a destination", func() {
			d, err := svc.Create(ctx, paris())
			So(err, ShouldBeNil)

			Convey("Then it is trimmed, assigned an id and listed once", func() {
				So(d.Name, ShouldEqual, "Paris")
				So(d.ID, ShouldNotBeEmpty)
				So(d.CreatedAt.IsZero(), ShouldBeFalse)

				all, err := svc.List(ctx)
				So(err, ShouldBeNil)
				So(len(all), ShouldEqual, 1)
				So(all[0].ID, ShouldEqual, d.ID)
			})

			Convey("Then it can be fetched by id", func() {
				got, err := svc.Get(ctx, d.ID)
				So(err, ShouldBeNil)
				So(got.Location, ShouldEqual, "France")
			})

			Convey("Then updating it twice yields the same fields", func() {
				f := destination.Fields{Name: "Paris", Location: "France", Description: "Again"}
				first, err := svc.Update(ctx, d.ID, f)
				So(err, ShouldBeNil)
				second, err := svc.Update(ctx, d.ID, f)
				So(err, ShouldBeNil)
				So(second.Fields(), ShouldResemble, first.Fields())
				So(second.ID, ShouldEqual, d.ID)
				So(second.CreatedAt.Equal(d.CreatedAt), ShouldBeTrue)
			})

			Convey("Then an invalid update is rejected", func() {
				_, err := svc.Update(ctx, d.ID, destination.Fields{Name: "Paris"})
				So(errors.Is(err, destination.ErrInvalid), ShouldBeTrue)
			})

			Convey("Then deleting it makes it unknown", func() {
				So(svc.Delete(ctx, d.ID), ShouldBeNil)
				_, err := svc.Get(ctx, d.ID)
				So(errors.Is(err, destination.ErrNotFound), ShouldBeTrue)
				So(errors.Is(svc.Delete(ctx, d.ID), destination.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When creating without required fields", func() {
			_, err := svc.Create(ctx, destination.Fields{Name: "  ", Description: "x"})

			Convey("Then every missing field is reported", func() {
				So(errors.Is(err, destination.ErrInvalid), ShouldBeTrue)
				var verr *destination.ValidationError
				So(errors.As(err, &verr), ShouldBeTrue)
				So(verr.Missing, ShouldResemble, []string{"name", "location"})
			})
		})

		Convey("When updating an unknown id", func() {
			_, err := svc.Update(ctx, "nope", paris())
			So(errors.Is(err, destination.ErrNotFound), ShouldBeTrue)
		})
	})
}

func TestService_Faults(t *testing.T) {
	Convey("Given a store that fails", t, func() {
		ctx := context.Background()

		Convey("When the store returns an unexpected error", func() {
			svc := service.New(
				service.WithLogger(logger.Discard()),
				service.WithOpener(openerFor(&faultyStore{}, nil)),
			)
			So(svc.Start(ctx), ShouldBeNil)

			_, listErr := svc.List(ctx)
			_, createErr := svc.Create(ctx, paris())

			Convey("Then it is reported as a fault with the cause attached", func() {
				So(errors.Is(listErr, destination.ErrFault), ShouldBeTrue)
				So(listErr.Error(), ShouldContainSubstring, "connection reset by peer")
				So(errors.Is(createErr, destination.ErrFault), ShouldBeTrue)
				So(errors.Is(createErr, destination.ErrUnavailable), ShouldBeFalse)
			})
		})

		Convey("When the store panics", func() {
			svc := service.New(
				service.WithLogger(logger.Discard()),
				service.WithOpener(openerFor(&faultyStore{panics: true}, nil)),
			)
			So(svc.Start(ctx), ShouldBeNil)

			Convey("Then the panic becomes a fault", func() {
				var err error
				So(func() { _, err = svc.List(ctx) }, ShouldNotPanic)
				So(errors.Is(err, destination.ErrFault), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "driver bug")
			})
		})
	})
}

func TestService_SQLite(t *testing.T) {
	Convey("Given a service backed by a sqlite file", t, func() {
		ctx := context.Background()
		svc := service.New(
			service.WithLogger(logger.Discard()),
			service.WithStoreOptions(repository.Options{
				Driver:         repository.DriverSQLite,
				DSN:            t.TempDir() + "/wanderlist.db",
				ConnectTimeout: time.Second,
			}),
		)
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("Then records round-trip through the real store", func() {
			So(svc.StoreConnected(), ShouldBeTrue)
			d, err := svc.Create(ctx, paris())
			So(err, ShouldBeNil)
			got, err := svc.Get(ctx, d.ID)
			So(err, ShouldBeNil)
			So(got.Date.String(), ShouldEqual, "2024-06-15")
			So(got.DisplayDescription(), ShouldEqual, "City of Light and love")
		})
	})
}

func TestService_RepositoryOptions(t *testing.T) {
	Convey("Given a service with a fixed clock and id generator", t, func() {
		ctx := context.Background()
		fixed := time.Date(2026, time.January, 2, 3, 4, 5, 0, time.UTC)
		n := 0
		svc := service.New(
			service.WithLogger(logger.Discard()),
			service.WithRepositoryOptions(
				repository.WithClock(func() time.Time { return fixed }),
				repository.WithIDGenerator(func() string {
					n++
					return fmt.Sprintf("dest-%d", n)
				}),
			),
		)
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When two destinations are created", func() {
			first, err := svc.Create(ctx, paris())
			So(err, ShouldBeNil)
			second, err := svc.Create(ctx, destination.Fields{Name: "Tokyo", Location: "Japan"})
			So(err, ShouldBeNil)

			Convey("Then the store uses the injected ids and timestamps", func() {
				So(first.ID, ShouldEqual, "dest-1")
				So(second.ID, ShouldEqual, "dest-2")
				So(first.CreatedAt, ShouldEqual, fixed)

				got, err := svc.Get(ctx, "dest-2")
				So(err, ShouldBeNil)
				So(got.Name, ShouldEqual, "Tokyo")
			})
		})
	})
}
