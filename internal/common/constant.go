package common

// SessionKey is the client-local metadata key holding the cached profile
// of the currently logged in user.
const SessionKey = "nexusCurrentUser"

// VerificationTokenSize is the number of random bytes behind a verification
// token; the hex form is twice as long.
const VerificationTokenSize = 32
