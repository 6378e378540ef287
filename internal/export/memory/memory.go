// Package memory is an in-process ledger used by tests and local runs where
// no spreadsheet is configured.
package memory

import (
	"context"
	"fmt"
	"sync"

	"kharcha/internal/core"
)

type Store struct {
	mu    sync.Mutex
	items []core.Transaction

	// FailNext makes the next Append return an error, for exercising the
	// sync-error path in worker tests.
	FailNext bool
}

func New() *Store {
	return &Store{}
}

// Append stores the transaction and returns a synthetic row reference.
func (s *Store) Append(_ context.Context, t core.Transaction) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailNext {
		s.FailNext = false
		return "", fmt.Errorf("append rejected")
	}
	if err := t.Validate(); err != nil {
		return "", err
	}
	s.items = append(s.items, t)
	return fmt.Sprintf("mem:%d", len(s.items)), nil
}

// Delete removes any stored transactions with the given id.
func (s *Store) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.items[:0]
	for _, t := range s.items {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	s.items = kept
	return nil
}

// Items returns a copy of the stored transactions.
func (s *Store) Items() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.items...)
}
