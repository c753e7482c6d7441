// Package auth verifies credentials and decides authorization.
//
// Two strategies resolve a Principal: BasicStrategy checks an email and
// password against the credential store with a salted Argon2id hash, and
// TokenStrategy checks an HS256 bearer token and re-reads the referenced
// user. CanMutate is the single ownership/role rule applied to every
// mutation of an owned resource.
//
// Principals never carry a password hash or salt. Failures surface as
// rejected Outcomes; only defects are returned as *InternalAuthError.
package auth
