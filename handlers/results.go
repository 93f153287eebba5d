// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/ranked-pick/cliparse"
	"github.com/danielhkuo/ranked-pick/db"
	"github.com/danielhkuo/ranked-pick/middleware"
	"github.com/danielhkuo/ranked-pick/models"
	"github.com/danielhkuo/ranked-pick/tabulate"
)

type ResultsHandler struct {
	db    *sql.DB
	cfg   cliparse.Config
	store tabulate.BallotStore
}

func NewResultsHandler(conn *sql.DB, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{db: conn, cfg: cfg, store: db.NewBallotStore(conn)}
}

// GetResult handles GET /elections/:hash/result
// Results are computed from the stored ballots on every request, whatever the
// election's status.
func (h *ResultsHandler) GetResult(w http.ResponseWriter, r *http.Request) {
	election, ok := lookupElection(w, r, h.db)
	if !ok {
		return
	}

	result, err := tabulate.Compute(r.Context(), h.store, tabulate.InstantRunoff, election.ID)
	if errors.Is(err, tabulate.ErrInvalidBallot) {
		slog.Warn("stored ballot rejected", "error", err, "election_id", election.ID)
		middleware.ErrorResponse(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err != nil {
		slog.Error("failed to compute result", "error", err, "election_id", election.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to compute result")
		return
	}

	// vote_count covers the same ballots the rounds were tallied from
	count := result.BallotCount()

	resp := models.ResultResponse{
		ElectionID: election.ID,
		Method:     models.MethodIRV,
		VoteCount:  count,
		Rounds:     result,
	}
	if winner, ok := result.Winner(); ok {
		resp.Winner = &winner
	}
	if tied, ok := result.Tied(); ok {
		resp.Tied = tied
	}

	slog.Info("result computed",
		"election_id", election.ID,
		"status", election.Status,
		"votes", humanize.Comma(int64(count)),
		"rounds", result.Len(),
		"winner", resp.Winner != nil,
	)

	middleware.JSONResponse(w, http.StatusOK, resp)
}
