package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/wanderlist/internal/domain/destination"
)

// stepClock returns a clock advancing one second per call.
func stepClock() func() time.Time {
	t := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func date(y int, m time.Month, d int) *destination.Date {
	v := destination.NewDate(y, m, d)
	return &v
}

type storeFactory struct {
	name string
	open func(t *testing.T) Store
}

func factories() []storeFactory {
	fs := []storeFactory{
		{name: "memory", open: func(_ *testing.T) Store {
			return NewMemoryStore(WithClock(stepClock()))
		}},
		{name: "sqlite", open: func(t *testing.T) Store {
			path := filepath.Join(t.TempDir(), "nested", "wanderlist.db")
			s, err := NewSQLiteStore(context.Background(), path, WithClock(stepClock()))
			if err != nil {
				t.Fatalf("open sqlite: %v", err)
			}
			return s
		}},
	}
	if dsn := os.Getenv("WANDERLIST_TEST_POSTGRES_DSN"); dsn != "" {
		fs = append(fs, storeFactory{name: "postgres", open: func(t *testing.T) Store {
			s, err := NewPostgresStore(context.Background(), dsn, WithClock(stepClock()))
			if err != nil {
				t.Fatalf("open postgres: %v", err)
			}
			if _, err := s.DeleteAll(context.Background()); err != nil {
				t.Fatalf("reset postgres: %v", err)
			}
			return s
		}})
	}
	return fs
}

func TestStoreContract(t *testing.T) {
	for _, f := range factories() {
		f := f
		t.Run(f.name, func(t *testing.T) {
			Convey("Given an empty "+f.name+" store", t, func() {
				ctx := context.Background()
				s := f.open(t)
				Reset(func() { _ = s.Close() })

				Convey("FindAll should return an empty, non-nil list", func() {
					all, err := s.FindAll(ctx)
					So(err, ShouldBeNil)
					So(all, ShouldNotBeNil)
					So(all, ShouldBeEmpty)
				})

				Convey("When inserting a destination", func() {
					d, err := s.Insert(ctx, destination.Fields{
						Name: "Paris", Location: "France", Description: "City of Light and love", Date: date(2024, 6, 15),
					})
					So(err, ShouldBeNil)

					Convey("Then it gets an id and timestamps", func() {
						So(d.ID, ShouldNotBeEmpty)
						So(d.CreatedAt.IsZero(), ShouldBeFalse)
						So(d.UpdatedAt.Equal(d.CreatedAt), ShouldBeTrue)
					})

					Convey("Then FindByID returns the same record", func() {
						got, err := s.FindByID(ctx, d.ID)
						So(err, ShouldBeNil)
						So(got.Name, ShouldEqual, "Paris")
						So(got.Description, ShouldEqual, "City of Light and love")
						So(got.Date, ShouldNotBeNil)
						So(got.Date.String(), ShouldEqual, "2024-06-15")
						So(got.CreatedAt.Equal(d.CreatedAt), ShouldBeTrue)
					})

					Convey("Then updating keeps id and createdAt", func() {
						up, err := s.Update(ctx, d.ID, destination.Fields{Name: "Paris", Location: "Île-de-France"})
						So(err, ShouldBeNil)
						So(up.ID, ShouldEqual, d.ID)
						So(up.Location, ShouldEqual, "Île-de-France")
						So(up.Date, ShouldBeNil)
						So(up.Description, ShouldBeEmpty)
						So(up.CreatedAt.Equal(d.CreatedAt), ShouldBeTrue)
						So(up.UpdatedAt.After(d.UpdatedAt), ShouldBeTrue)

						Convey("And the same update twice leaves the same fields", func() {
							again, err := s.Update(ctx, d.ID, destination.Fields{Name: "Paris", Location: "Île-de-France"})
							So(err, ShouldBeNil)
							So(again.Fields(), ShouldResemble, up.Fields())
							So(again.CreatedAt.Equal(up.CreatedAt), ShouldBeTrue)
						})
					})

					Convey("Then deleting removes it", func() {
						So(s.Delete(ctx, d.ID), ShouldBeNil)
						_, err := s.FindByID(ctx, d.ID)
						So(errors.Is(err, ErrNotFound), ShouldBeTrue)
						So(errors.Is(s.Delete(ctx, d.ID), ErrNotFound), ShouldBeTrue)
					})
				})

				Convey("When inserting several destinations", func() {
					for _, name := range []string{"Paris", "Tokyo", "Sydney"} {
						_, err := s.Insert(ctx, destination.Fields{Name: name, Location: "x"})
						So(err, ShouldBeNil)
					}

					Convey("Then FindAll lists them newest first", func() {
						all, err := s.FindAll(ctx)
						So(err, ShouldBeNil)
						So(len(all), ShouldEqual, 3)
						So(all[0].Name, ShouldEqual, "Sydney")
						So(all[1].Name, ShouldEqual, "Tokyo")
						So(all[2].Name, ShouldEqual, "Paris")
					})

					Convey("Then DeleteAll empties the store", func() {
						c, ok := s.(Clearer)
						So(ok, ShouldBeTrue)
						n, err := c.DeleteAll(ctx)
						So(err, ShouldBeNil)
						So(n, ShouldEqual, 3)
						all, _ := s.FindAll(ctx)
						So(all, ShouldBeEmpty)
					})
				})

				Convey("Unknown ids are reported as not found", func() {
					_, err := s.FindByID(ctx, "missing")
					So(errors.Is(err, ErrNotFound), ShouldBeTrue)
					_, err = s.Update(ctx, "missing", destination.Fields{Name: "a", Location: "b"})
					So(errors.Is(err, ErrNotFound), ShouldBeTrue)
				})
			})
		})
	}
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	Convey("Given a sqlite file with one destination", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "wanderlist.db")
		s, err := NewSQLiteStore(ctx, path)
		So(err, ShouldBeNil)
		d, err := s.Insert(ctx, destination.Fields{Name: "Tokyo", Location: "Japan", Date: date(2024, 7, 20)})
		So(err, ShouldBeNil)
		So(s.Close(), ShouldBeNil)

		Convey("When the store is reopened", func() {
			s2, err := NewSQLiteStore(ctx, path)
			So(err, ShouldBeNil)
			defer func() { _ = s2.Close() }()

			Convey("Then the destination is still there", func() {
				got, err := s2.FindByID(ctx, d.ID)
				So(err, ShouldBeNil)
				So(got.Name, ShouldEqual, "Tokyo")
				So(got.Date.String(), ShouldEqual, "2024-07-20")
				So(got.CreatedAt.Equal(d.CreatedAt), ShouldBeTrue)
			})
		})
	})
}

func TestOpen(t *testing.T) {
	Convey("Given the store opener", t, func() {
		ctx := context.Background()

		Convey("The memory driver always opens", func() {
			s, err := Open(ctx, Options{Driver: DriverMemory})
			So(err, ShouldBeNil)
			So(s, ShouldHaveSameTypeAs, &MemoryStore{})
		})

		Convey("The sqlite driver opens a file", func() {
			s, err := Open(ctx, Options{Driver: DriverSQLite, DSN: filepath.Join(t.TempDir(), "db.sqlite"), ConnectTimeout: time.Second})
			So(err, ShouldBeNil)
			So(s.Close(), ShouldBeNil)
		})

		Convey("An unknown driver is rejected", func() {
			_, err := Open(ctx, Options{Driver: "mongodb"})
			So(errors.Is(err, ErrUnknownDriver), ShouldBeTrue)
		})

		Convey("A malformed postgres dsn fails fast", func() {
			_, err := Open(ctx, Options{Driver: DriverPostgres, DSN: "://nope", ConnectTimeout: 100 * time.Millisecond})
			So(err, ShouldNotBeNil)
		})

		Convey("An unreachable postgres server fails within the timeout", func() {
			start := time.Now()
			_, err := Open(ctx, Options{
				Driver:         DriverPostgres,
				DSN:            "postgres://wanderlist@127.0.0.1:1/wanderlist?sslmode=disable&connect_timeout=1",
				ConnectTimeout: 500 * time.Millisecond,
			})
			So(err, ShouldNotBeNil)
			So(time.Since(start), ShouldBeLessThan, 5*time.Second)
		})

		Convey("A sqlite driver failure is reported", func() {
			prev := sqlOpen
			sqlOpen = func(string, string) (*sql.DB, error) { return nil, fmt.Errorf("driver exploded") }
			defer func() { sqlOpen = prev }()

			_, err := Open(ctx, Options{Driver: DriverSQLite, DSN: filepath.Join(t.TempDir(), "x.db")})
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "driver exploded")
		})
	})
}
