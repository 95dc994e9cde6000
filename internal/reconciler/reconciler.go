// Package reconciler owns the client side fallback: writes that cannot reach
// the record store are kept as pending records in local durable storage and
// merged with store records for display.
package reconciler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/okian/wanderlist/internal/adapters/pendingstore"
	"github.com/okian/wanderlist/internal/domain/destination"
	"github.com/okian/wanderlist/internal/domain/ident"
	"github.com/okian/wanderlist/pkg/logger"
)

// User facing messages.
const (
	MsgSavedLocally = "Destination saved locally. It will be synced when database is available."
	DeletePrompt    = "Are you sure you want to delete this destination?"
)

// API is the subset of the HTTP client the reconciler drives.
type API interface {
	List(ctx context.Context) ([]destination.Destination, error)
	Get(ctx context.Context, id string) (destination.Destination, error)
	Create(ctx context.Context, f destination.Fields) (destination.Destination, error)
	Update(ctx context.Context, id string, f destination.Fields) (destination.Destination, error)
	Delete(ctx context.Context, id string) error
}

// PendingStore loads and saves the full pending state.
type PendingStore interface {
	Load(ctx context.Context) (pendingstore.State, error)
	Save(ctx context.Context, st pendingstore.State) error
}

// Reconciler serializes every operation; one operation's fallback decision
// is never interleaved with another's.
type Reconciler struct {
	mu sync.Mutex

	api     API
	store   PendingStore
	confirm Confirmer
	notify  Notifier
	logger  logger.Logger
	now     func() time.Time

	pending []destination.Destination
	lastSeq uint64
}

// New loads the pending state and returns a ready Reconciler.
func New(ctx context.Context, api API, store PendingStore, opts ...Option) (*Reconciler, error) {
	if api == nil || store == nil {
		return nil, ErrMissingDependency
	}
	r := &Reconciler{
		api:     api,
		store:   store,
		confirm: Decline,
		logger:  logger.Discard(),
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.notify == nil {
		r.notify = logNotifier{r.logger}
	}

	st, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load pending records: %w", err)
	}
	r.pending = st.Records
	r.lastSeq = st.LastSeq
	for _, d := range st.Records {
		id, err := ident.Parse(d.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", pendingstore.ErrCorrupt, err)
		}
		if seq, ok := id.Seq(); ok && seq > r.lastSeq {
			r.lastSeq = seq
		}
	}
	r.logger.Debug(ctx, "pending records loaded",
		logger.Int("count", len(r.pending)),
		logger.Any("lastSeq", r.lastSeq),
	)
	return r, nil
}

// SubmitResult describes where a submitted record ended up.
type SubmitResult struct {
	Record destination.Destination
	Local  bool
}

// Submit creates or updates a record. A zero id creates; a store id updates
// on the server; a pending id updates the local entry in place. Only a create
// that finds the store unavailable falls back to pending storage.
func (r *Reconciler) Submit(ctx context.Context, f destination.Fields, existing ident.ID) (SubmitResult, error) {
	f = f.Normalize()
	if err := f.Validate(); err != nil {
		return SubmitResult{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	switch existing.Kind() {
	case ident.Store:
		id, _ := existing.StoreID()
		d, err := r.api.Update(ctx, id, f)
		if err != nil {
			return SubmitResult{}, err
		}
		return SubmitResult{Record: d}, nil

	case ident.Pending:
		d, err := r.updatePending(ctx, existing, f)
		if err != nil {
			return SubmitResult{}, err
		}
		return SubmitResult{Record: d, Local: true}, nil

	default:
		d, err := r.api.Create(ctx, f)
		if err == nil {
			return SubmitResult{Record: d}, nil
		}
		if !errors.Is(err, destination.ErrUnavailable) {
			return SubmitResult{}, err
		}
		r.logger.Info(ctx, "store unavailable, keeping destination locally", logger.Error(err))
		local, err := r.addPending(ctx, f)
		if err != nil {
			return SubmitResult{}, err
		}
		r.notify.Notify(ctx, MsgSavedLocally)
		return SubmitResult{Record: local, Local: true}, nil
	}
}

// Remove deletes a record after the Confirmer agrees. removed is false when
// the user declined. Pending records never cause a network call.
func (r *Reconciler) Remove(ctx context.Context, id ident.ID) (removed bool, err error) {
	if id.IsZero() {
		return false, fmt.Errorf("%w: empty id", destination.ErrInvalid)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	ok, err := r.confirm.Confirm(ctx, DeletePrompt)
	if err != nil {
		return false, fmt.Errorf("confirm delete: %w", err)
	}
	if !ok {
		return false, nil
	}

	if id.IsPending() {
		idx := r.indexOf(id)
		if idx < 0 {
			return false, destination.ErrNotFound
		}
		next := make([]destination.Destination, 0, len(r.pending)-1)
		next = append(next, r.pending[:idx]...)
		next = append(next, r.pending[idx+1:]...)
		if err := r.persist(ctx, next, r.lastSeq); err != nil {
			return false, err
		}
		return true, nil
	}

	storeID, _ := id.StoreID()
	if err := r.api.Delete(ctx, storeID); err != nil {
		return false, err
	}
	return true, nil
}

// FetchForEdit returns the current values of a record.
func (r *Reconciler) FetchForEdit(ctx context.Context, id ident.ID) (destination.Destination, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch id.Kind() {
	case ident.Pending:
		idx := r.indexOf(id)
		if idx < 0 {
			return destination.Destination{}, destination.ErrNotFound
		}
		return r.pending[idx], nil
	case ident.Store:
		storeID, _ := id.StoreID()
		return r.api.Get(ctx, storeID)
	default:
		return destination.Destination{}, fmt.Errorf("%w: empty id", destination.ErrInvalid)
	}
}

// RenderList merges store records with pending ones. When the store cannot
// be listed the view holds only pending records and Unavailable is set.
func (r *Reconciler) RenderList(ctx context.Context) View {
	r.mu.Lock()
	defer r.mu.Unlock()

	pending := r.pendingEntries()
	stored, err := r.api.List(ctx)
	if err != nil {
		if !errors.Is(err, destination.ErrUnavailable) {
			r.logger.Warn(ctx, "listing destinations failed, showing local records only", logger.Error(err))
		}
		return View{Entries: pending, Unavailable: true, Err: err}
	}

	entries := make([]Entry, 0, len(stored)+len(pending))
	for _, d := range stored {
		entries = append(entries, Entry{Destination: d, ID: ident.FromStore(d.ID)})
	}
	entries = append(entries, pending...)
	return View{Entries: entries}
}

// Pending returns a copy of the pending records in local order.
func (r *Reconciler) Pending() []destination.Destination {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]destination.Destination, len(r.pending))
	copy(out, r.pending)
	return out
}

func (r *Reconciler) addPending(ctx context.Context, f destination.Fields) (destination.Destination, error) {
	seq := r.lastSeq + 1
	now := r.now()
	d := destination.Destination{
		ID:        ident.FromSeq(seq).String(),
		CreatedAt: now,
		UpdatedAt: now,
	}.Apply(f)

	next := make([]destination.Destination, 0, len(r.pending)+1)
	next = append(next, r.pending...)
	next = append(next, d)
	if err := r.persist(ctx, next, seq); err != nil {
		return destination.Destination{}, err
	}
	return d, nil
}

func (r *Reconciler) updatePending(ctx context.Context, id ident.ID, f destination.Fields) (destination.Destination, error) {
	idx := r.indexOf(id)
	if idx < 0 {
		return destination.Destination{}, destination.ErrNotFound
	}
	d := r.pending[idx].Apply(f)
	d.UpdatedAt = r.now()

	next := make([]destination.Destination, len(r.pending))
	copy(next, r.pending)
	next[idx] = d
	if err := r.persist(ctx, next, r.lastSeq); err != nil {
		return destination.Destination{}, err
	}
	return d, nil
}

// persist writes the full state and adopts it only when the write succeeded.
func (r *Reconciler) persist(ctx context.Context, next []destination.Destination, lastSeq uint64) error {
	if err := r.store.Save(ctx, pendingstore.State{Records: next, LastSeq: lastSeq}); err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	r.pending = next
	r.lastSeq = lastSeq
	return nil
}

func (r *Reconciler) indexOf(id ident.ID) int {
	want := id.String()
	for i, d := range r.pending {
		if d.ID == want {
			return i
		}
	}
	return -1
}

func (r *Reconciler) pendingEntries() []Entry {
	out := make([]Entry, 0, len(r.pending))
	for _, d := range r.pending {
		id, _ := ident.Parse(d.ID)
		out = append(out, Entry{Destination: d, ID: id, Local: true})
	}
	return out
}
