// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the ranked-pick API.

Each handler is a struct holding the database and config:

  - ElectionHandler: call, list, inspect, activate, and delete elections
  - VotingHandler: username claims, vote submission, vote status and count
  - ResultsHandler: IRV results via tabulate.Compute

# Election Lifecycle

Status is derived from the dates on every request: inactive before the start
date, active until the end date, ended afterwards. Activating an election
moves its start date to now.

Admin operations require the X-Admin-Key header returned by CallElection.

# Voting Flow

	POST /elections/{hash}/claim-username → ClaimUsername (returns voter_token)
	GET  /elections/{hash}/ballot         → GetBallot (active only)
	POST /elections/{hash}/votes          → SubmitVote (create or replace)

Voter operations require the X-Voter-Token header.

# Results

GetResult tabulates the stored ballots on every call. A stored ballot that
fails validation yields 422 rather than a partial result.
*/
package handlers
