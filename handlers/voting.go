// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/danielhkuo/ranked-pick/auth"
	"github.com/danielhkuo/ranked-pick/cliparse"
	"github.com/danielhkuo/ranked-pick/db"
	"github.com/danielhkuo/ranked-pick/middleware"
	"github.com/danielhkuo/ranked-pick/models"
	"github.com/danielhkuo/ranked-pick/tabulate"
)

// Username length bounds for a claim
const (
	UsernameMinLength = 2
	UsernameMaxLength = 50
)

type VotingHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewVotingHandler(db *sql.DB, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{db: db, cfg: cfg}
}

// ClaimUsername handles POST /elections/:hash/claim-username
func (h *VotingHandler) ClaimUsername(w http.ResponseWriter, r *http.Request) {
	election, ok := lookupElection(w, r, h.db)
	if !ok {
		return
	}

	var req models.ClaimUsernameRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "username is required")
		return
	}
	if n := utf8.RuneCountInString(req.Username); n < UsernameMinLength || n > UsernameMaxLength {
		middleware.ErrorResponse(w, http.StatusBadRequest,
			fmt.Sprintf("username must be %d-%d characters", UsernameMinLength, UsernameMaxLength))
		return
	}

	if election.Status == models.StatusEnded {
		middleware.ErrorResponse(w, http.StatusConflict, "Election has ended")
		return
	}

	voterToken, err := auth.GenerateVoterToken()
	if err != nil {
		slog.Error("failed to generate voter token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to claim username")
		return
	}

	_, err = h.db.ExecContext(r.Context(), `
		INSERT INTO username_claim (election_id, username, voter_token, created_at)
		VALUES ($1, $2, $3, $4)
	`, election.ID, req.Username, voterToken, time.Now().UTC())
	if db.IsUniqueViolation(err) {
		middleware.ErrorResponse(w, http.StatusConflict, "Username already taken")
		return
	}
	if err != nil {
		slog.Error("failed to insert username claim", "error", err, "election_id", election.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to claim username")
		return
	}

	slog.Info("username claimed", "election_id", election.ID, "username", req.Username)

	middleware.JSONResponse(w, http.StatusCreated, models.ClaimUsernameResponse{
		VoterToken: voterToken,
	})
}

// SubmitVote handles POST /elections/:hash/votes
// A second submission by the same voter replaces the first.
func (h *VotingHandler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	election, ok := lookupElection(w, r, h.db)
	if !ok {
		return
	}

	voterToken, ok := h.requireVoter(w, r, election.ID)
	if !ok {
		return
	}

	var req models.SubmitVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if len(req.Rankings) == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "rankings cannot be empty")
		return
	}

	if election.Status != models.StatusActive {
		middleware.ErrorResponse(w, http.StatusConflict, "Election is not active")
		return
	}

	ballot := tabulate.Ballot{Rankings: make([]tabulate.Ranking, 0, len(req.Rankings))}
	for _, rk := range req.Rankings {
		ballot.Rankings = append(ballot.Rankings, tabulate.Ranking{CandidateID: rk.CandidateID, Rank: rk.Rank})
	}
	if err := ballot.Validate(); err != nil {
		var verr *tabulate.BallotValidationError
		if errors.As(err, &verr) {
			middleware.ErrorResponse(w, http.StatusBadRequest, verr.Reason)
			return
		}
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	candidates, err := listCandidates(r.Context(), h.db, election.ID)
	if err != nil {
		slog.Error("failed to query candidates", "error", err, "election_id", election.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	valid := make(map[int64]bool, len(candidates))
	for _, c := range candidates {
		valid[c.ID] = true
	}
	for _, rk := range ballot.Rankings {
		if !valid[rk.CandidateID] {
			middleware.ErrorResponse(w, http.StatusBadRequest, fmt.Sprintf("Invalid candidate_id: %d", rk.CandidateID))
			return
		}
	}

	ipHash := auth.HashIP(middleware.GetClientIP(r), h.cfg.AdminKeySalt)
	voteID, isUpdate, err := h.saveVote(r.Context(), election.ID, voterToken, ipHash, r.UserAgent(), ballot)
	if err != nil {
		slog.Error("failed to save vote", "error", err, "election_id", election.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit vote")
		return
	}

	message := "Vote submitted successfully"
	if isUpdate {
		message = "Vote updated successfully"
	}

	slog.Info("vote submitted",
		"election_id", election.ID,
		"vote_id", voteID,
		"rankings", len(ballot.Rankings),
		"is_update", isUpdate,
	)

	middleware.JSONResponse(w, http.StatusCreated, models.SubmitVoteResponse{
		VoteID:  voteID,
		Message: message,
	})
}

// saveVote upserts the voter's vote row and replaces its rankings
func (h *VotingHandler) saveVote(ctx context.Context, electionID, voterToken, ipHash, userAgent string, ballot tabulate.Ballot) (int64, bool, error) {
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()

	var voteID int64
	err = tx.QueryRowContext(ctx, `
		SELECT id FROM vote WHERE election_id = $1 AND voter_token = $2
	`, electionID, voterToken).Scan(&voteID)

	isUpdate := true
	switch {
	case errors.Is(err, sql.ErrNoRows):
		isUpdate = false
		err = tx.QueryRowContext(ctx, `
			INSERT INTO vote (election_id, voter_token, submitted_at, ip_hash, user_agent)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, electionID, voterToken, now, ipHash, userAgent).Scan(&voteID)
		if err != nil {
			return 0, false, fmt.Errorf("failed to insert vote: %w", err)
		}
	case err != nil:
		return 0, false, fmt.Errorf("failed to query vote: %w", err)
	default:
		_, err = tx.ExecContext(ctx, `
			UPDATE vote SET submitted_at = $1, ip_hash = $2, user_agent = $3
			WHERE id = $4
		`, now, ipHash, userAgent, voteID)
		if err != nil {
			return 0, false, fmt.Errorf("failed to update vote: %w", err)
		}
		if _, err = tx.ExecContext(ctx, `DELETE FROM ranking WHERE vote_id = $1`, voteID); err != nil {
			return 0, false, fmt.Errorf("failed to delete old rankings: %w", err)
		}
	}

	for _, rk := range ballot.Rankings {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO ranking (vote_id, candidate_id, rank)
			VALUES ($1, $2, $3)
		`, voteID, rk.CandidateID, rk.Rank)
		if err != nil {
			return 0, false, fmt.Errorf("failed to insert ranking: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, false, fmt.Errorf("failed to commit vote: %w", err)
	}
	return voteID, isUpdate, nil
}

// HasVoted handles GET /elections/:hash/voted
func (h *VotingHandler) HasVoted(w http.ResponseWriter, r *http.Request) {
	election, ok := lookupElection(w, r, h.db)
	if !ok {
		return
	}

	voterToken := r.Header.Get("X-Voter-Token")
	if err := auth.ValidateVoterToken(voterToken); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-Voter-Token header required")
		return
	}

	var voted bool
	err := h.db.QueryRowContext(r.Context(), `
		SELECT EXISTS(
			SELECT 1 FROM vote
			WHERE election_id = $1 AND voter_token = $2
		)
	`, election.ID, voterToken).Scan(&voted)
	if err != nil {
		slog.Error("failed to query vote", "error", err, "election_id", election.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.HasVotedResponse{Voted: voted})
}

// VoteCount handles GET /elections/:hash/votes/count
func (h *VotingHandler) VoteCount(w http.ResponseWriter, r *http.Request) {
	election, ok := lookupElection(w, r, h.db)
	if !ok {
		return
	}

	count, err := countVotes(r.Context(), h.db, election.ID)
	if err != nil {
		slog.Error("failed to count votes", "error", err, "election_id", election.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.VoteCountResponse{VoteCount: count})
}

// requireVoter checks X-Voter-Token against the election's username claims
func (h *VotingHandler) requireVoter(w http.ResponseWriter, r *http.Request, electionID string) (string, bool) {
	voterToken := r.Header.Get("X-Voter-Token")
	if voterToken == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-Voter-Token header required")
		return "", false
	}
	if err := auth.ValidateVoterToken(voterToken); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid voter token")
		return "", false
	}

	var exists bool
	err := h.db.QueryRowContext(r.Context(), `
		SELECT EXISTS(
			SELECT 1 FROM username_claim
			WHERE election_id = $1 AND voter_token = $2
		)
	`, electionID, voterToken).Scan(&exists)
	if err != nil {
		slog.Error("failed to verify voter token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return "", false
	}
	if !exists {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid voter token for this election")
		return "", false
	}

	return voterToken, true
}

func countVotes(ctx context.Context, conn *sql.DB, electionID string) (int, error) {
	var count int
	err := conn.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM vote WHERE election_id = $1
	`, electionID).Scan(&count)
	return count, err
}
