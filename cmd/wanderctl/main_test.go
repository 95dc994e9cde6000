package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/wanderlist/internal/adapters/cli/present"
	"github.com/okian/wanderlist/internal/adapters/http/api"
	service "github.com/okian/wanderlist/internal/app"
	"github.com/okian/wanderlist/internal/reconciler"
	"github.com/okian/wanderlist/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

type result struct {
	code   int
	stdout string
	stderr string
}

func wanderctl(url, data, stdin string, args ...string) result {
	var out, errOut bytes.Buffer
	full := append([]string{"--server", url, "--data", data, "--timeout", "2s"}, args...)
	code := run(context.Background(), full, strings.NewReader(stdin), &out, &errOut)
	return result{code: code, stdout: out.String(), stderr: errOut.String()}
}

func liveServer() *httptest.Server {
	ctx := context.Background()
	svc := service.New(service.WithLogger(logger.Discard()))
	_ = svc.Start(ctx)
	mux := http.NewServeMux()
	srv := api.NewServer(svc, svc, logger.Discard())
	srv.Register(ctx, mux)
	return httptest.NewServer(srv.Handler(mux, api.MiddlewareOptions{CORSOrigin: "*", MaxBodyBytes: 1 << 20}))
}

func TestWanderctlOnline(t *testing.T) {
	Convey("Given a running server", t, func() {
		ts := liveServer()
		defer ts.Close()
		data := filepath.Join(t.TempDir(), "pending.db")

		Convey("When a destination is added and listed", func() {
			add := wanderctl(ts.URL, data, "", "add", "--name", "Paris", "--location", "France", "--date", "2026-06-01")
			So(add.code, ShouldEqual, 0)
			So(add.stdout, ShouldContainSubstring, "Paris")
			So(add.stdout, ShouldNotContainSubstring, present.LocalMark)

			list := wanderctl(ts.URL, data, "", "list")

			Convey("Then it is shown without a banner", func() {
				So(list.code, ShouldEqual, 0)
				So(list.stdout, ShouldContainSubstring, "Planned visit: Jun 1, 2026")
				So(list.stdout, ShouldNotContainSubstring, present.BannerText)
			})
		})

		Convey("When the list is empty", func() {
			list := wanderctl(ts.URL, data, "", "list")
			So(list.stdout, ShouldContainSubstring, present.EmptyText)
		})

		Convey("When required fields are missing", func() {
			add := wanderctl(ts.URL, data, "", "add", "--name", "Paris")
			So(add.code, ShouldEqual, 1)
			So(add.stderr, ShouldContainSubstring, "location")
		})

		Convey("When removing an unknown id", func() {
			rm := wanderctl(ts.URL, data, "", "rm", "--yes", "nope")
			So(rm.code, ShouldEqual, 1)
			So(rm.stderr, ShouldContainSubstring, "Destination not found")
		})
	})
}

func TestWanderctlOffline(t *testing.T) {
	Convey("Given no server at all", t, func() {
		ts := httptest.NewServer(http.NotFoundHandler())
		url := ts.URL
		ts.Close()
		data := filepath.Join(t.TempDir(), "pending.db")

		add := wanderctl(url, data, "", "add", "--name", "Tokyo", "--location", "Japan")
		So(add.code, ShouldEqual, 0)

		Convey("Then the destination is kept locally", func() {
			So(add.stdout, ShouldContainSubstring, reconciler.MsgSavedLocally)
			So(add.stdout, ShouldContainSubstring, "temp-1")
			So(add.stdout, ShouldContainSubstring, present.LocalMark)

			list := wanderctl(url, data, "", "list")
			So(list.code, ShouldEqual, 0)
			So(strings.Count(list.stdout, "Database Unavailable"), ShouldEqual, 1)
			So(list.stdout, ShouldContainSubstring, "Tokyo")
		})

		Convey("Then it can be edited and shown", func() {
			edit := wanderctl(url, data, "", "edit", "temp-1", "--description", "Cherry blossoms")
			So(edit.code, ShouldEqual, 0)

			show := wanderctl(url, data, "", "show", "temp-1")
			So(show.stdout, ShouldContainSubstring, "Cherry blossoms")
			So(show.stdout, ShouldContainSubstring, "Tokyo")
		})

		Convey("Then removal asks first", func() {
			declined := wanderctl(url, data, "n\n", "rm", "temp-1")
			So(declined.code, ShouldEqual, 0)
			So(declined.stderr, ShouldContainSubstring, reconciler.DeletePrompt)
			So(declined.stdout, ShouldContainSubstring, "Cancelled")

			removed := wanderctl(url, data, "y\n", "rm", "temp-1")
			So(removed.stdout, ShouldContainSubstring, "Destination removed")

			list := wanderctl(url, data, "", "list")
			So(list.stdout, ShouldContainSubstring, present.EmptyText)
		})

		Convey("Then malformed ids are rejected", func() {
			show := wanderctl(url, data, "", "show", "temp-x")
			So(show.code, ShouldEqual, 1)
			So(show.stderr, ShouldContainSubstring, "Error:")
		})
	})
}
