// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// sqlite leaves foreign keys off unless every connection asks for them
const sqliteForeignKeys = "_pragma=foreign_keys(1)"

// Open opens a connection pool for a database type. sqlite connections always
// enforce foreign keys, and the pool holds a single connection since sqlite
// allows one writer.
func Open(dbType, url string) (*sql.DB, error) {
	driver, err := DriverName(dbType)
	if err != nil {
		return nil, err
	}

	if dbType == TypeSQLite {
		url = sqliteDSN(url)
	}

	conn, err := sql.Open(driver, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if dbType == TypeSQLite {
		conn.SetMaxOpenConns(1)
	}

	return conn, nil
}

// sqliteDSN appends the foreign key pragma. Pragmas apply in order, so a later
// foreign_keys(1) wins over one the caller disabled.
func sqliteDSN(url string) string {
	if strings.HasSuffix(url, sqliteForeignKeys) {
		return url
	}
	if strings.Contains(url, "?") {
		return url + "&" + sqliteForeignKeys
	}
	return url + "?" + sqliteForeignKeys
}
