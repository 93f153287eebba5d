// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tabulate

import (
	"context"
	"sync"
)

// BallotStore supplies every ballot cast in an election. Implementations must
// fail rather than coerce malformed data.
type BallotStore interface {
	Ballots(ctx context.Context, electionID string) ([]Ballot, error)
}

// MemoryStore is a BallotStore backed by a map of election id to ballots.
// It is safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	ballots map[string][]Ballot
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{ballots: make(map[string][]Ballot)}
}

// Add appends ballots to an election
func (s *MemoryStore) Add(electionID string, ballots ...Ballot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range ballots {
		s.ballots[electionID] = append(s.ballots[electionID], b.clone())
	}
}

// Ballots returns a copy of the election's ballots. An unknown election has
// no ballots.
func (s *MemoryStore) Ballots(ctx context.Context, electionID string) ([]Ballot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneBallots(s.ballots[electionID]), nil
}
