// Package client contains the client-side building blocks of authctl.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) to talk
//     to the gophauth server: Signup, Login, Refresh, Logout and Me.
//  2. A concrete gRPC implementation (see GRPCClient) that keeps the current
//     token pair, injects the access token via an interceptor, transparently
//     refreshes a rejected access token once, and maps gRPC status codes to
//     sentinel errors.
//  3. Local persistence bootstrap utilities (InitDatabase, RunMigrations),
//     wiring an SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Common conditions are exposed as sentinel errors that callers can match with
// errors.Is: ErrUnavailable, ErrUnauthorized, ErrNotLoggedIn, ErrAlreadyExists,
// ErrNotFound, ErrInvalidArgument.
package client
