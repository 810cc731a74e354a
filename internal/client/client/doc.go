// Package client contains the client-side transport to the gophauth backend.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface): Login,
//     Register and Me.
//  2. A JSON-over-HTTP implementation (see HTTPClient) that maps failures to
//     sentinel errors.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) opening the
//     SQLite token store and applying embedded goose migrations.
//
// # Error Handling
//
// Callers match with errors.Is: ErrUnavailable for network or protocol
// failures, ErrUnauthorized for 401 responses and ErrRejected for any other
// non-success status. Rejections carry an *APIError with the server's
// code and message.
package client
