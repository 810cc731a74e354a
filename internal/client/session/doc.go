// Package session mirrors the authentication state of the current user on
// the client.
//
// A Mirror owns the durable token (see TokenStore), the profile last
// returned by the server and the view the user is routed to after each
// operation (see Navigator). The profile is nil whenever there is no token
// or the server did not confirm it; the Mirror never invents one.
//
// Logout is purely local: the token is forgotten but the server is not told.
package session
