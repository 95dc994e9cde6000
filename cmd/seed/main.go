package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/wanderlist/internal/adapters/repository"
	"github.com/okian/wanderlist/internal/config"
	"github.com/okian/wanderlist/internal/seed"
	"github.com/okian/wanderlist/pkg/logger"
)

const defaultSeedTimeout = time.Minute

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), defaultSeedTimeout)
	defer cancel()

	// Defaults come from the server configuration so seeding targets the same store.
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	var (
		driver  = flag.String("driver", cfg.StoreDriver, "store driver: memory, sqlite or postgres")
		dsn     = flag.String("dsn", cfg.StoreDSN, "store DSN (sqlite path or postgres URL)")
		verbose = flag.Bool("verbose", false, "log every inserted destination")
	)
	flag.Parse()

	if err := logger.SetFormat(cfg.LogFormat); err != nil {
		os.Stderr.WriteString("invalid log_format: " + err.Error() + "\n")
		os.Exit(1)
	}
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	_ = logger.SetLevelString(cfg.LogLevel)

	if _, err := seed.Run(ctx, &seed.Config{
		Store: repository.Options{
			Driver:         *driver,
			DSN:            *dsn,
			ConnectTimeout: cfg.StoreConnectTimeout(),
		},
		Verbose: *verbose,
	}); err != nil {
		logger.Get().Error(ctx, "seed failed", logger.Error(err))
		os.Exit(1)
	}
}
