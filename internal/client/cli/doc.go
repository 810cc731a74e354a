// Package cli provides the interactive gophauth command-line client.
//
// It wires configuration, the SQLite token store, the HTTP API client and a
// session.Mirror, then runs a small REPL on top of them. On start the stored
// token, if any, is checked against the server so a previous session is
// restored without asking for credentials again.
//
// Commands:
//   - register, login, logout
//   - whoami
//   - help, exit | quit
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
