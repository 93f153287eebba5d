// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/ranked-pick/cliparse"
	"github.com/danielhkuo/ranked-pick/handlers"
	"github.com/danielhkuo/ranked-pick/middleware"
)

// Banner is the body served at the API root
const Banner = "ranked-pick API v1"

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	electionHandler := handlers.NewElectionHandler(db, cfg)
	votingHandler := handlers.NewVotingHandler(db, cfg)
	resultsHandler := handlers.NewResultsHandler(db, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Elections
	mux.HandleFunc("GET /elections", middleware.WithLogging(electionHandler.ListElections))
	mux.HandleFunc("POST /elections", middleware.WithLogging(electionHandler.CallElection))
	mux.HandleFunc("GET /elections/{hash}/info", middleware.WithLogging(electionHandler.GetElectionInfo))
	mux.HandleFunc("GET /elections/{hash}/ballot", middleware.WithLogging(electionHandler.GetBallot))

	// Election administration (X-Admin-Key)
	mux.HandleFunc("POST /elections/{hash}/activate", middleware.WithLogging(electionHandler.ActivateElection))
	mux.HandleFunc("DELETE /elections/{hash}", middleware.WithLogging(electionHandler.DeleteElection))

	// Voting (X-Voter-Token)
	mux.HandleFunc("POST /elections/{hash}/claim-username", middleware.WithLogging(votingHandler.ClaimUsername))
	mux.HandleFunc("POST /elections/{hash}/votes", middleware.WithLogging(votingHandler.SubmitVote))
	mux.HandleFunc("GET /elections/{hash}/voted", middleware.WithLogging(votingHandler.HasVoted))
	mux.HandleFunc("GET /elections/{hash}/votes/count", middleware.WithLogging(votingHandler.VoteCount))

	// Results
	mux.HandleFunc("GET /elections/{hash}/result", middleware.WithLogging(resultsHandler.GetResult))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(Banner))
	})

	return mux
}
