// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the ranked-pick API server.

ranked-pick runs ranked-choice elections: an organizer calls an election with
a set of candidates, voters rank them, and the result is tabulated with
Instant-Runoff Voting (see package tabulate).

# Starting the Server

The server reads CLI flags, environment variables, and an optional .env file:

	DATABASE_URL=ranked.db ADMIN_KEY_SALT=secret go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." --admin-salt secret

# Configuration

Required settings:

  - DATABASE_URL (-d): sqlite file/URI or PostgreSQL connection string
  - ADMIN_KEY_SALT (--admin-salt): Secret for admin key HMAC and IP hashing

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - -env: dotenv file to load (default: .env, ignored when missing)

# Architecture

  - tabulate: IRV engine and the BallotStore boundary
  - handlers: HTTP request handlers (elections, voting, results)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response types
  - auth: Election ids, admin keys, and voter tokens
  - db: Schema creation and the SQL ballot store
  - cliparse: Configuration parsing

The server and its shutdown watcher run in an errgroup; SIGINT or SIGTERM
drains in-flight requests before exit.
*/
package main
