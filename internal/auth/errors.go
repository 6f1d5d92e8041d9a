package auth

import "errors"

// Failure kinds surfaced by the token codec and the authentication flows.
// Callers branch on these: an expired token can be retried through the
// refresh flow, everything else is rejected outright. Error text must never
// include token or credential material.
var (
	// ErrMalformedHeader means the Authorization header did not have the
	// "<scheme> <token>" shape.
	ErrMalformedHeader = errors.New("malformed authorization header")
	// ErrTokenMalformed means the token string could not be parsed as a
	// compact JWT.
	ErrTokenMalformed = errors.New("token malformed")
	// ErrSignatureInvalid covers tampering, a wrong secret and a wrong
	// signing algorithm.
	ErrSignatureInvalid = errors.New("token signature invalid")
	// ErrTokenExpired means the token's expiry is at or before now.
	ErrTokenExpired = errors.New("token expired")
	// ErrWrongTokenType means an access token was presented where a refresh
	// token was required, or the other way round.
	ErrWrongTokenType = errors.New("wrong token type")
	// ErrMissingSubject means the token carried no subject claim.
	ErrMissingSubject = errors.New("token subject missing")
	// ErrSubjectNotFound means the subject claim resolved to no known user.
	ErrSubjectNotFound = errors.New("subject not found")
	// ErrMissingRefreshToken means the refresh flow was invoked without a
	// token.
	ErrMissingRefreshToken = errors.New("refresh token required")
)
