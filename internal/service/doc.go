// Package service contains the post and user use cases. Services load
// resources through the store interfaces, ask the auth guard whether the
// acting principal may mutate them, and apply changes, using a transaction
// when a use case spans more than one store.
//
// Expected conditions surface as sentinel errors (store.ErrPostNotFound,
// auth.ErrForbidden, domain validation errors) reachable with errors.Is.
// Anything else is wrapped in PostServiceError or UserServiceError.
package service
