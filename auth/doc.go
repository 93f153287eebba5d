// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides election ids and the credentials used by the API.

# Election IDs

Elections are addressed by a short hash:

	id := auth.GenerateElectionHash() // e.g. "3f9a0c1"

The hash is the first 7 hex characters of SHA-1 over a fresh UUID and the
current time. Collisions are possible; callers retry on a unique violation.

# Admin Keys

Admin keys use HMAC-SHA256 over the election id:

	adminKey := auth.GenerateAdminKey(electionID, salt)
	err := auth.ValidateAdminKey(electionID, adminKey, salt)

Keys are deterministic, so they are never stored.

# Voter Tokens

Voter tokens are random 24-byte secrets, 32 URL-safe base64 characters:

	token, err := auth.GenerateVoterToken()

# IP Hashing

	hash := auth.HashIP(ipAddress, salt)

Returns the first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
