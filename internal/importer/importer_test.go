package importer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkhive/internal/models"
)

type fakeLinkCreator struct {
	created []*models.Link
	failURL string
}

func (f *fakeLinkCreator) CreateLink(ctx context.Context, link *models.Link) error {
	if link.URL == f.failURL {
		return errors.New("insert failed")
	}
	link.ID = int64(len(f.created) + 1)
	f.created = append(f.created, link)
	return nil
}

func TestJSONImporter_Run(t *testing.T) {
	store := &fakeLinkCreator{}
	imp := NewJSONImporter(store)

	payload := []byte(`[
		{"url": "https://example.com", "title": "Example", "read": true},
		{"url": "  https://other.example.com  ", "description": "  trimmed  "},
		{"url": "not-a-url"},
		{"url": ""}
	]`)

	stats, err := Run(context.Background(), imp, 42, payload)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Imported)
	assert.Equal(t, 2, stats.Errors)

	require.Len(t, store.created, 2)
	for _, link := range store.created {
		assert.EqualValues(t, 42, link.UserID)
	}
	assert.Equal(t, "https://example.com", store.created[0].URL)
	assert.True(t, store.created[0].Read)
	require.NotNil(t, store.created[1].Description)
	assert.Equal(t, "trimmed", *store.created[1].Description)
}

func TestJSONImporter_InvalidPayload(t *testing.T) {
	imp := NewJSONImporter(&fakeLinkCreator{})

	_, err := Run(context.Background(), imp, 1, []byte(`{"not": "an array"}`))
	assert.Error(t, err)
}

func TestJSONImporter_RowFailureDoesNotAbortBatch(t *testing.T) {
	store := &fakeLinkCreator{failURL: "https://broken.example.com"}
	imp := NewJSONImporter(store)

	payload := []byte(`[
		{"url": "https://first.example.com"},
		{"url": "https://broken.example.com"},
		{"url": "https://last.example.com"}
	]`)

	stats, err := Run(context.Background(), imp, 7, payload)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Imported)
	assert.Equal(t, 1, stats.Errors)
	assert.Len(t, store.created, 2)
}
