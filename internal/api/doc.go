// Package api handles incoming HTTP requests for posts, users and
// authentication. Handlers decode and validate payloads, take the
// authenticated principal from the request context, call the services and
// map their errors to status codes with MapErrorToStatusCode. Clients only
// ever see the safe messages from GetSafeErrorMessage.
package api
