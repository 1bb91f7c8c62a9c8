package auth

import "strings"

// SplitBearer parses an Authorization header into its raw token. The
// header must be exactly two space-separated parts with a
// case-insensitive "bearer" prefix.
func SplitBearer(header string) (string, error) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", ErrMalformedCredential
	}
	return strings.TrimSpace(parts[1]), nil
}
