// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

WithLogging logs request start and completion (status, duration_ms) with a
request id taken from or written to X-Request-ID. CORS allows the
X-Admin-Key and X-Voter-Token headers used by the API.

JSONResponse and ErrorResponse write JSON bodies. ParseJSONBody reads one JSON
value of at most MaxBodyBytes. GetClientIP honors X-Forwarded-For and
X-Real-IP before RemoteAddr.
*/
package middleware
