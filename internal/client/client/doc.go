// Package client contains the client-side building blocks for talking to the
// Plant Disease Detector API and for opening the local database.
//
// # Overview
//
//  1. A transport-agnostic API contract (see the Client interface):
//     Login, Logout, Register, Upload, Diseases, History, Ping.
//  2. An HTTP/JSON implementation (see HTTPClient). Every request passes
//     through an explicit, ordered list of RequestStage functions given at
//     construction; BearerToken attaches the session token and RequestID
//     tags the request for log correlation. Nothing is retried or cached.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations): SQLite via
//     modernc.org/sqlite with embedded goose migrations.
//
// # Error Handling
//
// Failures are typed so callers can tell them apart with errors.As:
//
//   - *NetworkError  no response was received (also matches ErrUnavailable)
//   - *RequestError  the server answered with a non-2xx status
//   - *DecodeError   the 2xx body does not match the endpoint schema
//
// A *RequestError with status 401 or 403 matches ErrUnauthorized.
// Message turns any of them into the one-line text shown to the user.
package client
