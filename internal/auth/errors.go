package auth

import "errors"

// Credential resolution error sentinels. ErrAuthRequired and
// ErrInvalidCredential both surface to clients as a plain unauthorized
// response; the distinction only matters for server-side logging.
var (
	ErrAuthRequired        = errors.New("authorization is required to access this resource")
	ErrMalformedCredential = errors.New("token provided in the incorrect format")
	ErrInvalidCredential   = errors.New("credential could not be verified")
)
