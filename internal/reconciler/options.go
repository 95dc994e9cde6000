package reconciler

import (
	"context"
	"time"

	"github.com/okian/wanderlist/pkg/logger"
)

// Confirmer asks the user to approve a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) { return f(ctx, prompt) }

// Decline refuses every confirmation. It is the default.
var Decline Confirmer = ConfirmFunc(func(context.Context, string) (bool, error) { return false, nil })

// Approve accepts every confirmation.
var Approve Confirmer = ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })

// Notifier shows a one-time, non-blocking notice to the user.
type Notifier interface {
	Notify(ctx context.Context, msg string)
}

// NotifyFunc adapts a function to Notifier.
type NotifyFunc func(ctx context.Context, msg string)

// Notify implements Notifier.
func (f NotifyFunc) Notify(ctx context.Context, msg string) { f(ctx, msg) }

type logNotifier struct{ l logger.Logger }

func (n logNotifier) Notify(ctx context.Context, msg string) { n.l.Info(ctx, msg) }

// Option applies a configuration option to the Reconciler.
type Option func(*Reconciler)

// WithConfirmer sets how Remove asks for approval.
func WithConfirmer(c Confirmer) Option {
	return func(r *Reconciler) {
		if c != nil {
			r.confirm = c
		}
	}
}

// WithNotifier sets where the saved-locally notice goes.
func WithNotifier(n Notifier) Option {
	return func(r *Reconciler) {
		if n != nil {
			r.notify = n
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(r *Reconciler) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithClock sets the clock stamping pending records.
func WithClock(now func() time.Time) Option {
	return func(r *Reconciler) {
		if now != nil {
			r.now = now
		}
	}
}
