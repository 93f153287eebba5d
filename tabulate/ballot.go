// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tabulate

import "fmt"

// Ranking places one candidate on a ballot. Lower rank means stronger
// preference. Ranks are only compared within the same ballot.
type Ranking struct {
	CandidateID int64 `json:"candidate_id"`
	Rank        int   `json:"rank"`
}

// Ballot is one voter's ranking of candidates for one election
type Ballot struct {
	ID       int64     `json:"id"`
	Rankings []Ranking `json:"rankings"`
}

// Validate checks that every rank is non-negative and no candidate is ranked
// twice. An empty ballot is valid; it is exhausted from the first round.
func (b Ballot) Validate() error {
	seen := make(map[int64]struct{}, len(b.Rankings))
	for _, r := range b.Rankings {
		if r.Rank < 0 {
			return &BallotValidationError{
				BallotID: b.ID,
				Reason:   fmt.Sprintf("negative rank %d for candidate %d", r.Rank, r.CandidateID),
			}
		}
		if _, dup := seen[r.CandidateID]; dup {
			return &BallotValidationError{
				BallotID: b.ID,
				Reason:   fmt.Sprintf("candidate %d ranked more than once", r.CandidateID),
			}
		}
		seen[r.CandidateID] = struct{}{}
	}
	return nil
}

// ValidateBallots validates every ballot and stops at the first failure
func ValidateBallots(ballots []Ballot) error {
	for _, b := range ballots {
		if err := b.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Exhausted reports whether the ballot has no rankings left
func (b Ballot) Exhausted() bool {
	return len(b.Rankings) == 0
}

// FirstChoice returns the candidate with the lowest rank. Equal ranks are
// resolved by the lowest candidate id so the outcome never depends on the
// order rankings were stored in.
func (b Ballot) FirstChoice() (int64, bool) {
	if b.Exhausted() {
		return 0, false
	}

	first := b.Rankings[0]
	for _, r := range b.Rankings[1:] {
		if r.Rank < first.Rank || (r.Rank == first.Rank && r.CandidateID < first.CandidateID) {
			first = r
		}
	}
	return first.CandidateID, true
}

// without returns a copy of the ballot minus rankings for the eliminated
// candidates. Surviving rankings keep their order.
func (b Ballot) without(eliminated map[int64]struct{}) Ballot {
	kept := make([]Ranking, 0, len(b.Rankings))
	for _, r := range b.Rankings {
		if _, gone := eliminated[r.CandidateID]; !gone {
			kept = append(kept, r)
		}
	}
	return Ballot{ID: b.ID, Rankings: kept}
}

func (b Ballot) clone() Ballot {
	rankings := make([]Ranking, len(b.Rankings))
	copy(rankings, b.Rankings)
	return Ballot{ID: b.ID, Rankings: rankings}
}

func cloneBallots(ballots []Ballot) []Ballot {
	out := make([]Ballot, len(ballots))
	for i, b := range ballots {
		out[i] = b.clone()
	}
	return out
}
