// Package client talks to the nexusauth server.
//
// Client is the transport-agnostic contract; HTTPClient implements it by
// posting {"action": ...} JSON documents to the auth endpoint.
//
// # Error Handling
//
// Anything that prevents a usable answer (network failure, non-2xx status,
// an undecodable body) is reported as ErrUnavailable. A well-formed answer
// with success=false becomes an *APIError carrying the server's message and
// any per-field validation errors.
package client
