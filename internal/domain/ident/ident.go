// Package ident distinguishes store identifiers from locally minted pending identifiers.
package ident

import (
	"fmt"
	"strconv"
	"strings"
)

// PendingPrefix marks identifiers minted on the client. Store identifiers never carry it.
const PendingPrefix = "temp-"

// Kind says which side owns a record.
type Kind int

const (
	// None is the zero ID, used for "new record".
	None Kind = iota
	// Store records live in the authoritative record store.
	Store
	// Pending records live only in client-local durable storage.
	Pending
)

// ID is either Store(id) or Pending(seq). The zero value is None.
type ID struct {
	kind  Kind
	store string
	seq   uint64
}

// FromStore wraps a store-assigned identifier.
func FromStore(id string) ID { return ID{kind: Store, store: id} }

// FromSeq wraps a pending sequence number.
func FromSeq(seq uint64) ID { return ID{kind: Pending, seq: seq} }

// Parse classifies s by inspection alone. Empty input yields the zero ID.
func Parse(s string) (ID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ID{}, nil
	}
	if !strings.HasPrefix(s, PendingPrefix) {
		return FromStore(s), nil
	}
	seq, err := strconv.ParseUint(strings.TrimPrefix(s, PendingPrefix), 10, 64)
	if err != nil || seq == 0 {
		return ID{}, fmt.Errorf("malformed pending id %q", s)
	}
	return FromSeq(seq), nil
}

// MustParse is Parse for literals in tests and fixtures.
func MustParse(s string) ID {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}

// Kind returns the owning side.
func (id ID) Kind() Kind { return id.kind }

// IsZero reports whether id is unset.
func (id ID) IsZero() bool { return id.kind == None }

// IsPending reports whether id was minted locally.
func (id ID) IsPending() bool { return id.kind == Pending }

// StoreID returns the raw store identifier; ok is false for other kinds.
func (id ID) StoreID() (string, bool) { return id.store, id.kind == Store }

// Seq returns the pending sequence; ok is false for other kinds.
func (id ID) Seq() (uint64, bool) { return id.seq, id.kind == Pending }

func (id ID) String() string {
	switch id.kind {
	case Store:
		return id.store
	case Pending:
		return PendingPrefix + strconv.FormatUint(id.seq, 10)
	default:
		return ""
	}
}

// IsPendingString is a shortcut for presentation code that only holds strings.
func IsPendingString(s string) bool {
	id, err := Parse(s)
	return err == nil && id.IsPending()
}
