// Package pendingstore keeps destinations that could not reach the server in
// a local bbolt file.
package pendingstore

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/okian/wanderlist/internal/domain/destination"
	"github.com/okian/wanderlist/internal/domain/ident"
)

const (
	bucketPending = "pending"      // key: keyRecords -> JSON array, keyLastSeq -> uint64
	keyRecords    = "destinations" // full pending list, rewritten on every save
	keyLastSeq    = "last_seq"     // highest sequence ever minted
)

// Sentinel errors.
var (
	ErrCorrupt = errors.New("pending storage corrupt")
	ErrClosed  = errors.New("pending storage closed")
)

// State is everything the reconciler persists.
type State struct {
	Records []destination.Destination
	LastSeq uint64
}

// Store is a bbolt-backed pending store.
type Store struct {
	db *bbolt.DB
}

// Open opens or creates the bbolt file at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open pending storage: %w", err)
	}
	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketPending))
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create bucket: %w", err)
	}
	return &Store{db: db}, nil
}

// Load reads the persisted state. A fresh file yields an empty state.
func (s *Store) Load(_ context.Context) (State, error) {
	var st State
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketPending))
		if b == nil {
			return nil
		}
		if raw := b.Get([]byte(keyRecords)); raw != nil {
			if err := json.Unmarshal(raw, &st.Records); err != nil {
				return fmt.Errorf("%w: %w", ErrCorrupt, err)
			}
		}
		if raw := b.Get([]byte(keyLastSeq)); raw != nil {
			if len(raw) != 8 {
				return fmt.Errorf("%w: last_seq has %d bytes", ErrCorrupt, len(raw))
			}
			st.LastSeq = binary.BigEndian.Uint64(raw)
		}
		return nil
	})
	if errors.Is(err, bbolt.ErrDatabaseNotOpen) {
		return State{}, ErrClosed
	}
	if err != nil {
		return State{}, err
	}
	for _, r := range st.Records {
		if !ident.IsPendingString(r.ID) {
			return State{}, fmt.Errorf("%w: record id %q is not a pending id", ErrCorrupt, r.ID)
		}
	}
	if st.Records == nil {
		st.Records = []destination.Destination{}
	}
	return st, nil
}

// Save replaces the persisted state in a single transaction.
func (s *Store) Save(_ context.Context, st State) error {
	records := st.Records
	if records == nil {
		records = []destination.Destination{}
	}
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode pending records: %w", err)
	}
	seq := make([]byte, 8)
	binary.BigEndian.PutUint64(seq, st.LastSeq)

	err = s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(bucketPending))
		if err != nil {
			return err
		}
		if err := b.Put([]byte(keyRecords), raw); err != nil {
			return err
		}
		return b.Put([]byte(keyLastSeq), seq)
	})
	if errors.Is(err, bbolt.ErrDatabaseNotOpen) {
		return ErrClosed
	}
	return err
}

// Close closes the bbolt file.
func (s *Store) Close() error {
	return s.db.Close()
}
