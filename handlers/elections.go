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

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/ranked-pick/auth"
	"github.com/danielhkuo/ranked-pick/cliparse"
	"github.com/danielhkuo/ranked-pick/db"
	"github.com/danielhkuo/ranked-pick/middleware"
	"github.com/danielhkuo/ranked-pick/models"
)

// hashAttempts bounds retries when a fresh election hash collides
const hashAttempts = 3

type ElectionHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewElectionHandler(db *sql.DB, cfg cliparse.Config) *ElectionHandler {
	return &ElectionHandler{db: db, cfg: cfg}
}

// ListElections handles GET /elections
func (h *ElectionHandler) ListElections(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.QueryContext(r.Context(), `
		SELECT id, name, description, start_date, end_date, created_at
		FROM election
		ORDER BY created_at DESC, id
	`)
	if err != nil {
		slog.Error("failed to query elections", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	now := time.Now()
	elections := []models.Election{}
	for rows.Next() {
		var e models.Election
		var description sql.NullString
		if err := rows.Scan(&e.ID, &e.Name, &description, &e.StartDate, &e.EndDate, &e.CreatedAt); err != nil {
			slog.Error("failed to scan election", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		if description.Valid {
			e.Description = &description.String
		}
		e.Status = models.ElectionStatus(e.StartDate, e.EndDate, now)
		elections = append(elections, e)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to read elections", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, elections)
}

// CallElection handles POST /elections
func (h *ElectionHandler) CallElection(w http.ResponseWriter, r *http.Request) {
	var req models.CallElectionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := validateCallElection(&req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	var electionID string
	var err error
	for attempt := 0; attempt < hashAttempts; attempt++ {
		electionID = auth.GenerateElectionHash()
		err = h.insertElection(r.Context(), electionID, &req)
		if !db.IsUniqueViolation(err) {
			break
		}
		slog.Warn("election hash collision", "election_id", electionID, "attempt", attempt+1)
	}
	if err != nil {
		slog.Error("failed to insert election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create election")
		return
	}

	adminKey := auth.GenerateAdminKey(electionID, h.cfg.AdminKeySalt)

	slog.Info("election created",
		"election_id", electionID,
		"name", req.Name,
		"candidates", len(req.Candidates),
	)

	middleware.JSONResponse(w, http.StatusCreated, models.CallElectionResponse{
		ElectionID: electionID,
		AdminKey:   adminKey,
	})
}

// insertElection writes the election and its candidates in one transaction
func (h *ElectionHandler) insertElection(ctx context.Context, electionID string, req *models.CallElectionRequest) error {
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO election (id, name, description, start_date, end_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, electionID, req.Name, nullIfEmpty(req.Description), req.StartDate.UTC(), req.EndDate.UTC(), time.Now().UTC())
	if err != nil {
		return err
	}

	for _, c := range req.Candidates {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO candidate (election_id, name, color, description)
			VALUES ($1, $2, $3, $4)
		`, electionID, c.Name, c.Color, nullIfEmpty(c.Description))
		if err != nil {
			return fmt.Errorf("failed to insert candidate: %w", err)
		}
	}

	return tx.Commit()
}

// validateCallElection trims and checks a call-election request in place
func validateCallElection(req *models.CallElectionRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Description = strings.TrimSpace(req.Description)

	nameLen := utf8.RuneCountInString(req.Name)
	if nameLen < models.ElectionNameMinLength || nameLen > models.ElectionNameMaxLength {
		return fmt.Errorf("name must be %d-%d characters", models.ElectionNameMinLength, models.ElectionNameMaxLength)
	}
	if utf8.RuneCountInString(req.Description) > models.ElectionDescriptionMaxLength {
		return fmt.Errorf("description must be at most %d characters", models.ElectionDescriptionMaxLength)
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return errors.New("start_date and end_date are required")
	}
	if !req.EndDate.After(req.StartDate) {
		return errors.New("end_date must be after start_date")
	}
	if len(req.Candidates) < models.CandidatesMinCount || len(req.Candidates) > models.CandidatesMaxCount {
		return fmt.Errorf("an election needs %d-%d candidates", models.CandidatesMinCount, models.CandidatesMaxCount)
	}

	seen := make(map[string]bool, len(req.Candidates))
	for i := range req.Candidates {
		c := &req.Candidates[i]
		c.Name = strings.TrimSpace(c.Name)
		c.Description = strings.TrimSpace(c.Description)

		if c.Name == "" || utf8.RuneCountInString(c.Name) > models.CandidateNameMaxLength {
			return fmt.Errorf("candidate %d: name must be 1-%d characters", i+1, models.CandidateNameMaxLength)
		}
		if len(c.Color) > models.CandidateColorMaxLength {
			return fmt.Errorf("candidate %d: color must be at most %d characters", i+1, models.CandidateColorMaxLength)
		}
		if utf8.RuneCountInString(c.Description) > models.CandidateDescriptionMax {
			return fmt.Errorf("candidate %d: description must be at most %d characters", i+1, models.CandidateDescriptionMax)
		}
		if seen[strings.ToLower(c.Name)] {
			return fmt.Errorf("duplicate candidate name %q", c.Name)
		}
		seen[strings.ToLower(c.Name)] = true
	}

	return nil
}

// GetElectionInfo handles GET /elections/:hash/info
func (h *ElectionHandler) GetElectionInfo(w http.ResponseWriter, r *http.Request) {
	election, ok := h.lookupElection(w, r)
	if !ok {
		return
	}

	candidates, err := listCandidates(r.Context(), h.db, election.ID)
	if err != nil {
		slog.Error("failed to query candidates", "error", err, "election_id", election.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ElectionInfoResponse{
		Name:        election.Name,
		Description: election.Description,
		Status:      election.Status,
		EndDate:     election.EndDate,
		Ends:        humanize.Time(election.EndDate),
		Candidates:  candidates,
	})
}

// GetBallot handles GET /elections/:hash/ballot
func (h *ElectionHandler) GetBallot(w http.ResponseWriter, r *http.Request) {
	election, ok := h.lookupElection(w, r)
	if !ok {
		return
	}

	if election.Status != models.StatusActive {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Election is "+election.Status)
		return
	}

	candidates, err := listCandidates(r.Context(), h.db, election.ID)
	if err != nil {
		slog.Error("failed to query candidates", "error", err, "election_id", election.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.BallotResponse{
		ElectionInfo: models.BallotElectionInfo{
			Name:        election.Name,
			Description: election.Description,
			EndDate:     election.EndDate,
		},
		Candidates: candidates,
	})
}

// ActivateElection handles POST /elections/:hash/activate
func (h *ElectionHandler) ActivateElection(w http.ResponseWriter, r *http.Request) {
	election, ok := h.lookupElection(w, r)
	if !ok {
		return
	}
	if !h.requireAdmin(w, r, election.ID) {
		return
	}

	now := time.Now().UTC()
	_, err := h.db.ExecContext(r.Context(), `
		UPDATE election SET start_date = $1 WHERE id = $2
	`, now, election.ID)
	if err != nil {
		slog.Error("failed to activate election", "error", err, "election_id", election.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to activate election")
		return
	}

	// Moving the start date cannot revive an election whose end date has passed
	active := election.EndDate.After(now)

	slog.Info("election activated", "election_id", election.ID, "active", active)

	middleware.JSONResponse(w, http.StatusOK, models.ActivateElectionResponse{Active: active})
}

// DeleteElection handles DELETE /elections/:hash
func (h *ElectionHandler) DeleteElection(w http.ResponseWriter, r *http.Request) {
	election, ok := h.lookupElection(w, r)
	if !ok {
		return
	}
	if !h.requireAdmin(w, r, election.ID) {
		return
	}

	_, err := h.db.ExecContext(r.Context(), `DELETE FROM election WHERE id = $1`, election.ID)
	if err != nil {
		slog.Error("failed to delete election", "error", err, "election_id", election.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete election")
		return
	}

	slog.Info("election deleted", "election_id", election.ID)

	middleware.JSONResponse(w, http.StatusOK, models.DeleteElectionResponse{IDs: []string{election.ID}})
}

// lookupElection resolves the {hash} path value, writing 400/404/500 itself
func (h *ElectionHandler) lookupElection(w http.ResponseWriter, r *http.Request) (models.Election, bool) {
	return lookupElection(w, r, h.db)
}

func (h *ElectionHandler) requireAdmin(w http.ResponseWriter, r *http.Request, electionID string) bool {
	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(electionID, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return false
	}
	return true
}

func lookupElection(w http.ResponseWriter, r *http.Request, conn *sql.DB) (models.Election, bool) {
	electionID := r.PathValue("hash")
	if !auth.ValidElectionHash(electionID) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid election id")
		return models.Election{}, false
	}

	election, err := findElection(r.Context(), conn, electionID)
	if errors.Is(err, sql.ErrNoRows) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return models.Election{}, false
	}
	if err != nil {
		slog.Error("failed to query election", "error", err, "election_id", electionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return models.Election{}, false
	}

	return election, true
}

// findElection loads one election with its status derived at call time.
// Returns sql.ErrNoRows when the election does not exist.
func findElection(ctx context.Context, conn *sql.DB, electionID string) (models.Election, error) {
	var e models.Election
	var description sql.NullString
	err := conn.QueryRowContext(ctx, `
		SELECT id, name, description, start_date, end_date, created_at
		FROM election WHERE id = $1
	`, electionID).Scan(&e.ID, &e.Name, &description, &e.StartDate, &e.EndDate, &e.CreatedAt)
	if err != nil {
		return models.Election{}, err
	}

	if description.Valid {
		e.Description = &description.String
	}
	e.Status = models.ElectionStatus(e.StartDate, e.EndDate, time.Now())
	return e, nil
}

// listCandidates returns an election's candidates in creation order
func listCandidates(ctx context.Context, conn *sql.DB, electionID string) ([]models.Candidate, error) {
	rows, err := conn.QueryContext(ctx, `
		SELECT id, name, color, description
		FROM candidate WHERE election_id = $1
		ORDER BY id
	`, electionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	candidates := []models.Candidate{}
	for rows.Next() {
		var c models.Candidate
		var description sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &c.Color, &description); err != nil {
			return nil, err
		}
		if description.Valid {
			c.Description = &description.String
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
