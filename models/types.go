package models

import (
	"time"

	"github.com/danielhkuo/ranked-pick/tabulate"
)

// Election status constants, derived from the start and end dates
const (
	StatusInactive = "inactive"
	StatusActive   = "active"
	StatusEnded    = "ended"
)

// Tabulation method constants
const (
	MethodIRV = "IRV"
)

// Field limits for calling an election
const (
	ElectionNameMinLength        = 3
	ElectionNameMaxLength        = 64
	ElectionDescriptionMaxLength = 1024
	CandidatesMinCount           = 2
	CandidatesMaxCount           = 32
	CandidateNameMaxLength       = 64
	CandidateColorMaxLength      = 7
	CandidateDescriptionMax      = 256
)

// Request types

type CandidateInput struct {
	Name        string `json:"name"`
	Color       string `json:"color"`
	Description string `json:"description,omitempty"`
}

type CallElectionRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	StartDate   time.Time        `json:"start_date"`
	EndDate     time.Time        `json:"end_date"`
	Candidates  []CandidateInput `json:"candidates"`
}

type ClaimUsernameRequest struct {
	Username string `json:"username"`
}

type RankingInput struct {
	CandidateID int64 `json:"candidate_id"`
	Rank        int   `json:"rank"`
}

type SubmitVoteRequest struct {
	Rankings []RankingInput `json:"rankings"`
}

// Response types

type CallElectionResponse struct {
	ElectionID string `json:"election_id"`
	AdminKey   string `json:"admin_key"`
}

type ClaimUsernameResponse struct {
	VoterToken string `json:"voter_token"`
}

type SubmitVoteResponse struct {
	VoteID  int64  `json:"vote_id"`
	Message string `json:"message"`
}

type ActivateElectionResponse struct {
	Active bool `json:"active"`
}

type DeleteElectionResponse struct {
	IDs []string `json:"ids"`
}

type HasVotedResponse struct {
	Voted bool `json:"voted"`
}

type VoteCountResponse struct {
	VoteCount int `json:"vote_count"`
}

type ResultResponse struct {
	ElectionID string                  `json:"election_id"`
	Method     string                  `json:"method"`
	VoteCount  int                     `json:"vote_count"`
	Winner     *int64                  `json:"winner"`
	Tied       []int64                 `json:"tied,omitempty"`
	Rounds     tabulate.ElectionResult `json:"rounds"`
}

type ElectionInfoResponse struct {
	Name        string      `json:"name"`
	Description *string     `json:"description"`
	Status      string      `json:"status"`
	EndDate     time.Time   `json:"end_date"`
	Ends        string      `json:"ends"` // human readable, e.g. "3 days from now"
	Candidates  []Candidate `json:"candidates"`
}

type BallotResponse struct {
	ElectionInfo BallotElectionInfo `json:"election_info"`
	Candidates   []Candidate        `json:"candidates"`
}

type BallotElectionInfo struct {
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	EndDate     time.Time `json:"end_date"`
}

// Domain types

type Election struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

type Candidate struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Color       string  `json:"color"`
	Description *string `json:"description"`
}

// ElectionStatus derives the lifecycle state of an election at the given time
func ElectionStatus(start, end, now time.Time) string {
	if !start.Before(now) {
		return StatusInactive
	}
	if !end.After(now) {
		return StatusEnded
	}
	return StatusActive
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
