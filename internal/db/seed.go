package db

import (
	"context"
	"fmt"

	"linkhive/internal/models"
)

// SeedDemoData inserts a demo user with the given API key hash and a
// handful of pre-titled sample links for development. Safe to call on a
// database that already holds data.
func (d *DB) SeedDemoData(ctx context.Context, name, apiKeyHash string) (*models.User, error) {
	seedLinks := []struct {
		url   string
		title string
	}{
		{"https://www.postgresql.org", "PostgreSQL"},
		{"https://go.dev", "The Go Programming Language"},
		{"https://pkg.go.dev", "Go Package Documentation"},
		{"https://docs.gofiber.io", "Fiber Documentation"},
		{"https://developer.mozilla.org/en-US/docs/Learn", "Learn Web Development | MDN"},
		{"https://git-scm.com", "Git"},
	}

	user := &models.User{Name: &name, APIKeyHash: &apiKeyHash}
	if err := d.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to seed user: %w", err)
	}

	for _, seed := range seedLinks {
		title := seed.title
		link := &models.Link{
			UserID: user.ID,
			URL:    seed.url,
			Title:  &title,
		}
		if err := d.CreateLink(ctx, link); err != nil {
			return nil, fmt.Errorf("failed to seed link %s: %w", seed.url, err)
		}
	}

	return user, nil
}
