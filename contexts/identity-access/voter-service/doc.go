// Package voterservice implements voter and admin account management inside
// the identity-access context.
//
// The module owns registration and login for voters, admin authentication
// with signed session tokens, and the admin dashboard read model. Password
// hashes and token secrets never leave this context.
package voterservice
