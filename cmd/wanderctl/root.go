package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/wanderlist/internal/adapters/cli/present"
	"github.com/okian/wanderlist/internal/adapters/pendingstore"
	"github.com/okian/wanderlist/internal/client"
	"github.com/okian/wanderlist/internal/config"
	"github.com/okian/wanderlist/internal/reconciler"
	"github.com/okian/wanderlist/pkg/logger"
)

// session holds what every subcommand needs. It is filled by the root
// command's PersistentPreRunE and released when run returns.
type session struct {
	in     *bufio.Reader
	stderr io.Writer
	out    *present.Renderer

	server  string
	data    string
	timeout time.Duration
	yes     bool

	pending *pendingstore.Store
	rec     *reconciler.Reconciler
}

// run executes wanderctl with args and returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	s := &session{
		in:     bufio.NewReader(stdin),
		stderr: stderr,
		out:    present.New(stdout),
	}
	defer func() { _ = s.close() }()

	root := newRootCmd(s, stdout, stderr)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		_ = present.New(stderr).Error(err)
		return 1
	}
	return 0
}

func newRootCmd(s *session, stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "wanderctl",
		Short: "Manage your travel destinations",
		Long: `wanderctl talks to a wanderlist server.

When the server reports its database as unavailable, or cannot be reached at
all, new destinations are stored on this machine and shown as "(Local Only)".

Configuration is read from WANDERCTL_CONFIG (YAML) and WANDERCTL_* environment
variables; flags override both.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: s.open,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&s.server, "server", "", "server base URL (default from config)")
	root.PersistentFlags().StringVar(&s.data, "data", "", "pending storage file (default from config)")
	root.PersistentFlags().DurationVar(&s.timeout, "timeout", 0, "request timeout (default from config)")

	root.AddCommand(
		newListCmd(s),
		newAddCmd(s),
		newEditCmd(s),
		newShowCmd(s),
		newRmCmd(s),
	)
	return root
}

func (s *session) open(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg, err := config.LoadClient(ctx)
	if err != nil {
		return err
	}
	if s.server != "" {
		cfg.ServerURL = s.server
	}
	if s.data != "" {
		cfg.DataPath = s.data
	}
	if s.timeout > 0 {
		cfg.TimeoutMS = int(s.timeout / time.Millisecond)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := logger.InitWriter(s.stderr); err != nil {
		return err
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		_ = logger.SetLevelString("warn")
	}
	log := logger.Named("wanderctl")

	api, err := client.New(cfg.ServerURL, client.WithTimeout(cfg.Timeout()), client.WithLogger(log))
	if err != nil {
		return err
	}
	s.pending, err = pendingstore.Open(cfg.DataPath)
	if err != nil {
		return err
	}
	s.rec, err = reconciler.New(ctx, api, s.pending,
		reconciler.WithLogger(log),
		reconciler.WithConfirmer(reconciler.ConfirmFunc(s.confirm)),
		reconciler.WithNotifier(reconciler.NotifyFunc(func(_ context.Context, msg string) {
			_ = s.out.Notice(msg)
		})),
	)
	if err != nil {
		_ = s.pending.Close()
		s.pending = nil
		return err
	}
	log.Debug(ctx, "session ready",
		logger.String("server", cfg.ServerURL),
		logger.String("data", cfg.DataPath),
	)
	return nil
}

func (s *session) close() error {
	if s.pending == nil {
		return nil
	}
	err := s.pending.Close()
	s.pending = nil
	return err
}

// confirm asks on stdin unless --yes was given. Anything but y/yes declines.
func (s *session) confirm(_ context.Context, prompt string) (bool, error) {
	if s.yes {
		return true, nil
	}
	if _, err := fmt.Fprintf(s.stderr, "%s [y/N] ", prompt); err != nil {
		return false, err
	}
	line, err := s.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
