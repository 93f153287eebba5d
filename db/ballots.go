// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/danielhkuo/ranked-pick/tabulate"
)

// BallotStore reads ballots for tabulation. It implements tabulate.BallotStore.
type BallotStore struct {
	db *sql.DB
}

func NewBallotStore(db *sql.DB) *BallotStore {
	return &BallotStore{db: db}
}

// Ballots returns every vote of an election with its rankings, ordered by
// vote id. A vote without rankings comes back as an empty ballot.
func (s *BallotStore) Ballots(ctx context.Context, electionID string) ([]tabulate.Ballot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT v.id, r.candidate_id, r.rank
		FROM vote v
		LEFT JOIN ranking r ON r.vote_id = v.id
		WHERE v.election_id = $1
		ORDER BY v.id, r.rank, r.candidate_id
	`, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ballots: %w", err)
	}
	defer rows.Close()

	ballots := []tabulate.Ballot{}
	for rows.Next() {
		var voteID int64
		var candidateID sql.NullInt64
		var rank sql.NullInt64
		if err := rows.Scan(&voteID, &candidateID, &rank); err != nil {
			return nil, fmt.Errorf("failed to scan ballot row: %w", err)
		}

		if len(ballots) == 0 || ballots[len(ballots)-1].ID != voteID {
			ballots = append(ballots, tabulate.Ballot{ID: voteID, Rankings: []tabulate.Ranking{}})
		}
		if !candidateID.Valid {
			continue
		}

		current := &ballots[len(ballots)-1]
		current.Rankings = append(current.Rankings, tabulate.Ranking{
			CandidateID: candidateID.Int64,
			Rank:        int(rank.Int64),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ballots: %w", err)
	}

	// Never hand malformed rows to the engine
	if err := tabulate.ValidateBallots(ballots); err != nil {
		return nil, err
	}

	return ballots, nil
}
