// Package cli provides the interactive nexusauth command-line client.
//
// It wires configuration, the local session database, the HTTP API client
// and a REPL. A session cached by an earlier run is picked up on start
// ("Welcome back, ...").
//
// Commands:
//   - register, login, logout
//   - profile (alias whoami), refresh
//   - verify <token>
//   - ping, help, exit | quit
//
// Forms are validated locally before anything is sent; every failing field
// is listed. Passwords are read without echo when stdin is a terminal.
package cli
