package db

import "errors"

// Domain-level database error sentinels.
var (
	// Link errors
	ErrLinkNotFound = errors.New("link not found")

	// User errors
	ErrUserNotFound = errors.New("user not found")

	// Collection errors
	ErrCollectionNotFound = errors.New("collection not found")
	ErrCollectionQuota    = errors.New("you can only have a maximum of 15 collections")
)
