// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the ranked-pick API.

	mux := router.NewRouter(db, cfg)

# Endpoints

	GET    /health                          - Liveness
	GET    /                                - Banner

	GET    /elections                       - List elections
	POST   /elections                       - Call an election
	GET    /elections/{hash}/info           - Election info and candidates
	GET    /elections/{hash}/ballot         - Ballot (active only)
	POST   /elections/{hash}/activate       - Start now (X-Admin-Key)
	DELETE /elections/{hash}                - Delete (X-Admin-Key)

	POST   /elections/{hash}/claim-username - Claim voter identity
	POST   /elections/{hash}/votes          - Submit/replace vote (X-Voter-Token)
	GET    /elections/{hash}/voted          - Has this voter voted
	GET    /elections/{hash}/votes/count    - Vote count
	GET    /elections/{hash}/result         - IRV result
*/
package router
