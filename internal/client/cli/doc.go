// Package cli provides the authctl command-line client.
//
// Each invocation runs one command against the gophauth server and keeps the
// resulting token pair in a local SQLite session file, so that later
// invocations act on behalf of the same login.
//
// Commands:
//   - signup:  create an account (email or phone) and log in
//   - login:   log in with email or phone and password
//   - refresh: rotate the cached refresh token
//   - logout:  revoke the cached refresh token and forget the session
//   - whoami:  show the account of the cached session
package cli
