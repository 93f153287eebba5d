// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tabulate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
)

// Strategy names a ranked-choice tabulation method
type Strategy string

const (
	InstantRunoff          Strategy = "IRV"
	SingleTransferableVote Strategy = "STV"
)

// Engine tabulates one election. It holds no state between calls, so
// GetResults can be called repeatedly or from several goroutines.
type Engine struct {
	strategy   Strategy
	electionID string
	store      BallotStore
}

// New creates an engine for an election. Unsupported strategies fail here,
// before the store is ever read.
func New(strategy Strategy, electionID string, store BallotStore) (*Engine, error) {
	if strategy != InstantRunoff {
		return nil, &UnsupportedStrategyError{Strategy: strategy}
	}
	if electionID == "" {
		return nil, errors.New("election id is required")
	}
	if store == nil {
		return nil, errors.New("ballot store is required")
	}

	return &Engine{strategy: strategy, electionID: electionID, store: store}, nil
}

// Compute builds an engine and runs it to completion
func Compute(ctx context.Context, store BallotStore, strategy Strategy, electionID string) (ElectionResult, error) {
	engine, err := New(strategy, electionID, store)
	if err != nil {
		return ElectionResult{}, err
	}
	return engine.GetResults(ctx)
}

// GetVotes fetches and validates every ballot of the election. The returned
// ballots are a private copy.
func (e *Engine) GetVotes(ctx context.Context) ([]Ballot, error) {
	ballots, err := e.store.Ballots(ctx, e.electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get ballots for election %s: %w", e.electionID, err)
	}

	if err := ValidateBallots(ballots); err != nil {
		return nil, err
	}

	return cloneBallots(ballots), nil
}

// GetResults fetches the ballots once and runs rounds until a winner or a tie
func (e *Engine) GetResults(ctx context.Context) (ElectionResult, error) {
	ballots, err := e.GetVotes(ctx)
	if err != nil {
		return ElectionResult{}, err
	}

	return runRounds(e.electionID, ballots), nil
}

func runRounds(electionID string, ballots []Ballot) ElectionResult {
	result := ElectionResult{ballots: len(ballots)}

	for number := 1; ; number++ {
		round, eliminated := tallyRound(ballots)
		result.append(round)

		slog.Debug("irv round tallied",
			"election_id", electionID,
			"round", number,
			"counts", len(round.FirstRankCounts()),
			"eliminated", eliminated,
		)

		if len(eliminated) == 0 {
			return result
		}

		gone := make(map[int64]struct{}, len(eliminated))
		for _, id := range eliminated {
			gone[id] = struct{}{}
		}
		next := make([]Ballot, len(ballots))
		for i, b := range ballots {
			next[i] = b.without(gone)
		}
		ballots = next
	}
}

// tallyRound computes one round. It returns the candidates to eliminate, which
// is empty exactly when the round is terminal.
func tallyRound(ballots []Ballot) (RoundResult, []int64) {
	counts := make(Counts)
	active := 0
	for _, b := range ballots {
		if b.Exhausted() {
			continue
		}
		first, _ := b.FirstChoice()
		counts[first]++
		active++
	}

	if active == 0 {
		return TieRound{Counts: counts, Tied: []int64{}}, nil
	}

	leaders := candidatesAt(counts, maxCount(counts))
	if len(leaders) > 1 {
		return TieRound{Counts: counts, Tied: leaders}, nil
	}

	threshold := active/2 + 1
	if counts[leaders[0]] >= threshold {
		winner := leaders[0]
		return WinnerRound{Counts: counts, Winner: &winner}, nil
	}

	return WinnerRound{Counts: counts}, candidatesAt(counts, minCount(counts))
}

func maxCount(counts Counts) int {
	highest := -1
	for _, c := range counts {
		if c > highest {
			highest = c
		}
	}
	return highest
}

func minCount(counts Counts) int {
	lowest := -1
	for _, c := range counts {
		if lowest == -1 || c < lowest {
			lowest = c
		}
	}
	return lowest
}

// candidatesAt returns the candidates holding exactly count votes, ascending
func candidatesAt(counts Counts, count int) []int64 {
	ids := make([]int64, 0)
	for id, c := range counts {
		if c == count {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
