// Package httpapi exposes the auth service over HTTP.
//
// All actions share one POST endpoint (default /api/auth) taking a JSON body
// {"action": ..., fields...} and answering {"success", "message", "data"}.
// Domain failures are reported with success=false and HTTP 200; only
// transport problems (wrong method, rate limit) use other status codes.
package httpapi
