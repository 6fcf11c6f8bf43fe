// Package validation checks the registration, login and verification forms.
//
// The same rules run in the CLI (to reject input before any network call)
// and on the server, which has the final say. Every field is checked in one
// pass and reports at most its first failing rule, so callers can show all
// problems at once.
package validation
