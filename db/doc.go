// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation and reads ballots for tabulation.

# Opening

	conn, err := db.Open(db.TypeSQLite, "ranked.db")

Open appends _pragma=foreign_keys(1) to sqlite DSNs so the cascades below
hold on every connection, and limits the sqlite pool to one connection.

# Schema Creation

	if err := db.CreateSchema(conn, db.TypeSQLite); err != nil {
		log.Fatal(err)
	}

The same DDL serves sqlite (modernc.org/sqlite) and PostgreSQL (lib/pq); only
the auto-increment key type differs. Safe to call multiple times.

# Tables

	election 1──* candidate
	election 1──* username_claim
	election 1──* vote
	vote     1──* ranking *──1 candidate

All foreign keys use ON DELETE CASCADE. A voter has at most one vote per
election, and a candidate appears at most once per vote.

# Ballot Store

BallotStore implements tabulate.BallotStore with a single ordered join over
vote and ranking. Votes without rankings come back as empty ballots.

IsUniqueViolation recognizes duplicate-key errors from both drivers.
*/
package db
