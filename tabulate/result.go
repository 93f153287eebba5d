// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tabulate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Counts maps candidate id to the number of ballots whose current first
// choice is that candidate
type Counts map[int64]int

// RoundResult is the outcome of one elimination round: either a WinnerRound
// or a TieRound.
type RoundResult interface {
	FirstRankCounts() Counts
	isRoundResult()
}

// WinnerRound is a round without a tie at the top. Winner is nil when no
// candidate reached the majority threshold and elimination continues.
type WinnerRound struct {
	Counts Counts `json:"first_rank_counts"`
	Winner *int64 `json:"winner"`
}

func (r WinnerRound) FirstRankCounts() Counts { return r.Counts }
func (WinnerRound) isRoundResult()            {}

// TieRound is a round where two or more candidates share the highest count.
// It always ends the tabulation.
type TieRound struct {
	Counts Counts  `json:"first_rank_counts"`
	Tied   []int64 `json:"candidates_with_max_count"`
}

func (r TieRound) FirstRankCounts() Counts { return r.Counts }
func (TieRound) isRoundResult()            {}

// Tie is always true; it mirrors the "tie" flag in the JSON form
func (TieRound) Tie() bool { return true }

func (r TieRound) MarshalJSON() ([]byte, error) {
	type plain TieRound
	return json.Marshal(struct {
		plain
		Tie bool `json:"tie"`
	}{plain(r), true})
}

// ElectionResult is the ordered history of rounds, numbered from 1
type ElectionResult struct {
	rounds  []RoundResult
	ballots int
}

func (r *ElectionResult) append(round RoundResult) {
	r.rounds = append(r.rounds, round)
}

// BallotCount returns how many ballots the tabulation read, exhausted and
// empty ballots included. It is not part of the JSON form, so a decoded
// result reports 0.
func (r ElectionResult) BallotCount() int {
	return r.ballots
}

// Len returns the number of rounds
func (r ElectionResult) Len() int {
	return len(r.rounds)
}

// Round returns round n, counting from 1
func (r ElectionResult) Round(n int) (RoundResult, bool) {
	if n < 1 || n > len(r.rounds) {
		return nil, false
	}
	return r.rounds[n-1], true
}

// Rounds returns a copy of all rounds in order
func (r ElectionResult) Rounds() []RoundResult {
	out := make([]RoundResult, len(r.rounds))
	copy(out, r.rounds)
	return out
}

// Final returns the terminal round, or nil for an empty result
func (r ElectionResult) Final() RoundResult {
	if len(r.rounds) == 0 {
		return nil
	}
	return r.rounds[len(r.rounds)-1]
}

// Winner returns the elected candidate, if the final round has one
func (r ElectionResult) Winner() (int64, bool) {
	if w, ok := r.Final().(WinnerRound); ok && w.Winner != nil {
		return *w.Winner, true
	}
	return 0, false
}

// Tied returns the candidates sharing the lead when the result ended in a tie
func (r ElectionResult) Tied() ([]int64, bool) {
	if t, ok := r.Final().(TieRound); ok {
		return t.Tied, true
	}
	return nil, false
}

// MarshalJSON encodes the rounds as an object keyed by round number, in
// round order.
func (r ElectionResult) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, round := range r.rounds {
		if i > 0 {
			buf.WriteByte(',')
		}
		data, err := json.Marshal(round)
		if err != nil {
			return nil, fmt.Errorf("failed to encode round %d: %w", i+1, err)
		}
		buf.WriteString(strconv.Quote(strconv.Itoa(i + 1)))
		buf.WriteByte(':')
		buf.Write(data)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes the form written by MarshalJSON, so clients of the
// result endpoint can read rounds back into RoundResult values. Round numbers
// must run from 1 without gaps.
func (r *ElectionResult) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	numbers := make([]int, 0, len(raw))
	byNumber := make(map[int]json.RawMessage, len(raw))
	for key, msg := range raw {
		n, err := strconv.Atoi(key)
		if err != nil {
			return fmt.Errorf("invalid round number %q", key)
		}
		numbers = append(numbers, n)
		byNumber[n] = msg
	}
	sort.Ints(numbers)

	rounds := make([]RoundResult, 0, len(numbers))
	for i, n := range numbers {
		if n != i+1 {
			return fmt.Errorf("missing round %d", i+1)
		}

		var wire struct {
			Counts Counts  `json:"first_rank_counts"`
			Winner *int64  `json:"winner"`
			Tie    bool    `json:"tie"`
			Tied   []int64 `json:"candidates_with_max_count"`
		}
		if err := json.Unmarshal(byNumber[n], &wire); err != nil {
			return fmt.Errorf("failed to decode round %d: %w", n, err)
		}

		if wire.Tie {
			rounds = append(rounds, TieRound{Counts: wire.Counts, Tied: wire.Tied})
		} else {
			rounds = append(rounds, WinnerRound{Counts: wire.Counts, Winner: wire.Winner})
		}
	}

	r.rounds = rounds
	return nil
}
