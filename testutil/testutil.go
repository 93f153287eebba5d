// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/danielhkuo/ranked-pick/auth"
	"github.com/danielhkuo/ranked-pick/cliparse"
	"github.com/danielhkuo/ranked-pick/db"
)

// TestDBURL opens a private in-memory sqlite database per connection.
// db.Open adds the foreign key pragma.
const TestDBURL = "file::memory:?_time_format=sqlite"

// SetupTestDB creates a fresh in-memory database with the full schema.
// The pool is pinned to one connection so every query sees the same database.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.TypeSQLite, TestDBURL)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	conn.SetConnMaxLifetime(0)

	if err := db.CreateSchema(conn, db.TypeSQLite); err != nil {
		conn.Close()
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseURL:  TestDBURL,
		DatabaseType: db.TypeSQLite,
		AdminKeySalt: "test-admin-salt",
	}
}

// CreateTestElection creates an election and returns its id and admin key.
// status should be "inactive", "active", or "ended"; the dates are chosen
// so the election has that status now.
func CreateTestElection(t *testing.T, conn *sql.DB, cfg cliparse.Config, status string) (electionID, adminKey string) {
	t.Helper()

	now := time.Now().UTC()
	var start, end time.Time
	switch status {
	case "inactive":
		start, end = now.Add(time.Hour), now.Add(48*time.Hour)
	case "active":
		start, end = now.Add(-time.Hour), now.Add(48*time.Hour)
	case "ended":
		start, end = now.Add(-48*time.Hour), now.Add(-time.Hour)
	default:
		t.Fatalf("Unknown election status %q", status)
	}

	electionID = auth.GenerateElectionHash()
	adminKey = auth.GenerateAdminKey(electionID, cfg.AdminKeySalt)

	_, err := conn.Exec(`
		INSERT INTO election (id, name, description, start_date, end_date, created_at)
		VALUES ($1, 'Test Election', 'A test election', $2, $3, $4)
	`, electionID, start, end, now)
	if err != nil {
		t.Fatalf("Failed to create test election: %v", err)
	}

	return electionID, adminKey
}

// AddTestCandidate adds a candidate to an election and returns its id
func AddTestCandidate(t *testing.T, conn *sql.DB, electionID, name string) int64 {
	t.Helper()

	var candidateID int64
	err := conn.QueryRow(`
		INSERT INTO candidate (election_id, name, color)
		VALUES ($1, $2, '#336699')
		RETURNING id
	`, electionID, name).Scan(&candidateID)
	if err != nil {
		t.Fatalf("Failed to create test candidate: %v", err)
	}

	return candidateID
}

// CreateTestVoter claims a username for an election and returns the voter token
func CreateTestVoter(t *testing.T, conn *sql.DB, electionID, username string) string {
	t.Helper()

	voterToken, err := auth.GenerateVoterToken()
	if err != nil {
		t.Fatalf("Failed to generate voter token: %v", err)
	}
	_, err = conn.Exec(`
		INSERT INTO username_claim (election_id, username, voter_token, created_at)
		VALUES ($1, $2, $3, $4)
	`, electionID, username, voterToken, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test voter: %v", err)
	}

	return voterToken
}

// SubmitTestVote stores a vote ranking the given candidates in order,
// starting at rank 1, and returns the vote id
func SubmitTestVote(t *testing.T, conn *sql.DB, electionID, voterToken string, candidateIDs ...int64) int64 {
	t.Helper()

	var voteID int64
	err := conn.QueryRow(`
		INSERT INTO vote (election_id, voter_token, submitted_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`, electionID, voterToken, time.Now().UTC()).Scan(&voteID)
	if err != nil {
		t.Fatalf("Failed to create test vote: %v", err)
	}

	for i, candidateID := range candidateIDs {
		_, err := conn.Exec(`
			INSERT INTO ranking (vote_id, candidate_id, rank)
			VALUES ($1, $2, $3)
		`, voteID, candidateID, i+1)
		if err != nil {
			t.Fatalf("Failed to create test ranking: %v", err)
		}
	}

	return voteID
}

// MakeRequest creates an HTTP test request. The election hash, when set,
// is attached as the {hash} path value.
func MakeRequest(method, path, hash string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	if hash != "" {
		req.SetPathValue("hash", hash)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
