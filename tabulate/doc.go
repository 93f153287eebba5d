// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package tabulate computes ranked-choice election results with Instant-Runoff
Voting (IRV).

# Computing a Result

Compute fetches every ballot of an election from a BallotStore and runs
elimination rounds until a winner emerges or a tie is declared:

	result, err := tabulate.Compute(ctx, store, tabulate.InstantRunoff, electionID)

The same can be done in two steps:

	engine, err := tabulate.New(tabulate.InstantRunoff, electionID, store)
	result, err := engine.GetResults(ctx)

Only InstantRunoff is supported. SingleTransferableVote (and any other tag)
fails at construction with ErrUnsupportedStrategy, before the store is read.

# Rounds

Each round:

  - takes every ballot's current first choice (lowest rank among remaining
    rankings; equal ranks fall back to the lowest candidate id)
  - tallies first choices; a candidate nobody ranks first is left out of
    the counts and so is never eliminated in that round
  - requires floor(active/2)+1 votes to win, where active counts ballots
    that still cast a vote
  - declares a tie when two or more candidates share the maximum
  - otherwise eliminates every candidate at the minimum count at once

Exhausted ballots (no remaining rankings) drop out of both the tally and the
majority denominator. An election with no active ballots ends in a single
tie round with no candidates.

# Results

ElectionResult is the ordered list of rounds, numbered from 1. Each round is
either a WinnerRound (Winner is nil while nobody has a majority) or a
TieRound:

	switch r := result.Final().(type) {
	case tabulate.WinnerRound:
		fmt.Println("winner", *r.Winner)
	case tabulate.TieRound:
		fmt.Println("tied", r.Tied)
	}

ElectionResult encodes to JSON as an object keyed by round number, and
decodes back from that form, which lets API clients rebuild the rounds:

	var rounds tabulate.ElectionResult
	err := json.Unmarshal(body, &rounds)

BallotCount reports how many ballots were read, including exhausted and empty
ones. It only lives on computed results.

# Ballot Stores

BallotStore is the only boundary of the engine. MemoryStore keeps ballots in
memory; the db package provides the SQL implementation.

# Errors

  - ErrUnsupportedStrategy (*UnsupportedStrategyError): strategy is not IRV
  - ErrInvalidBallot (*BallotValidationError): negative rank or a candidate
    ranked twice on one ballot

Store failures are returned wrapped and are never retried.
*/
package tabulate
