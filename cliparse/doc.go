// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

	cfg, err := cliparse.ParseFlags(os.Args[1:])

Settings are resolved in order: CLI flag, environment variable, dotenv file
(loaded with godotenv, never overriding the real environment), default.

	-p            PORT            Server port (default 3318)
	-d            DATABASE_URL    Database URL (required)
	-t            DATABASE_TYPE   sqlite or postgres (default sqlite)
	--admin-salt  ADMIN_KEY_SALT  Admin key salt (required)
	-env                          dotenv file (default .env, "" disables)
*/
package cliparse
