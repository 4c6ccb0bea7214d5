// Package cache provides content-addressed caching of compiled clause sets.
// Not named by spec.md; it is the one ambient addition SPEC_FULL.md adds
// because a compiler exposed as a service (see package server) will
// routinely receive the same AST twice and should not re-run the Tseytin
// pass each time. The cache key is a blake2b hash of the AST's canonical
// string form plus the driver options that affect compilation (mode,
// check-only).
package cache

import (
	"encoding/hex"
	"sync"

	"golang.org/x/crypto/blake2b"

	"github.com/touist-lang/touist/internal/ast"
	"github.com/touist-lang/touist/internal/evalctx"
)

// Entry is one cached compilation result: the emitted DIMACS/QDIMACS text
// plus the name table, keyed by Key.
type Entry struct {
	Output string
	Table  string
}

// Store is an in-memory content-addressed cache. The zero value is ready to
// use; it is safe for concurrent use by multiple goroutines (spec.md §5's
// concurrency model: one Context per compile, but a Store may be shared
// across them by a long-lived service process).
type Store struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// Key computes the content-address for a given AST under a given mode/
// check-only configuration. Two requests with an identical AST and
// identical driver options always hash to the same key, regardless of
// process restarts, because ast.Node.String() renders fields in a fixed
// order.
func Key(n ast.Node, mode evalctx.Mode, checkOnly bool) (string, error) {
	encoded := []byte(n.String())

	var flags byte
	if mode == evalctx.ModeSMT {
		flags |= 1
	}
	if checkOnly {
		flags |= 2
	}
	encoded = append(encoded, flags)

	sum := blake2b.Sum256(encoded)
	return hex.EncodeToString(sum[:]), nil
}

// Get returns the cached entry for key, if present.
func (s *Store) Get(key string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	return e, ok
}

// Put stores an entry under key, overwriting any prior entry.
func (s *Store) Put(key string, e Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entries == nil {
		s.entries = make(map[string]Entry)
	}
	s.entries[key] = e
}

// Len reports the number of cached entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
