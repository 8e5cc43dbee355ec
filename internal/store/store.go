// Package store holds generated calendar documents in memory for a short
// window so subscribe/download links stay valid without persisting
// anything about the student.
package store

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
)

// DefaultMaxAge matches the advertised link lifetime (and the download
// response's Cache-Control max-age).
const DefaultMaxAge = 15 * time.Minute

type entry struct {
	createdAt time.Time
	document  string
}

// Store is a keyed, time-limited document store. All access is serialized
// under one mutex; a sweep only holds it for the duration of the scan.
type Store struct {
	mu      sync.Mutex
	maxAge  time.Duration
	entries map[string]entry

	// now is a test seam.
	now func() time.Time
}

// New builds a store. maxAge <= 0 selects DefaultMaxAge.
func New(maxAge time.Duration) *Store {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return &Store{
		maxAge:  maxAge,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Key derives the opaque download key for one generated calendar. It is
// content-derived (session + semester + name), so regenerating the same
// calendar within the window reuses the same link.
func Key(session string, semesterID int, name string) string {
	return strconv.FormatUint(xxhash.Sum64String(fmt.Sprintf("%s%d%s", session, semesterID, name)), 10)
}

// Put stores a document under key, resetting its age.
func (s *Store) Put(key, document string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{createdAt: s.now(), document: document}
}

// Get returns the document for key. Entries past the age limit are
// treated as absent even if a sweep has not removed them yet.
func (s *Store) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return "", false
	}
	if s.now().Sub(e.createdAt) >= s.maxAge {
		delete(s.entries, key)
		return "", false
	}
	return e.document, true
}

// Sweep removes every entry past the age limit and reports how many were
// evicted.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	evicted := 0
	for key, e := range s.entries {
		if now.Sub(e.createdAt) >= s.maxAge {
			delete(s.entries, key)
			evicted++
		}
	}
	return evicted
}

// Len reports the number of live entries, expired ones included until
// the next sweep.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
