package enrich

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractMetadata(t *testing.T) {
	html := `<html><head>
		<title>  Example Page  </title>
		<meta name="description" content="plain description">
		<meta property="og:description" content="social description">
	</head><body></body></html>`

	meta := ExtractMetadata(html)
	require.NotNil(t, meta.Title)
	assert.Equal(t, "Example Page", *meta.Title)

	// og:description wins over the plain meta tag.
	require.NotNil(t, meta.Description)
	assert.Equal(t, "social description", *meta.Description)
}

func TestExtractMetadata_MetaDescriptionFallback(t *testing.T) {
	html := `<html><head>
		<title>Fallback</title>
		<meta name="description" content="plain description">
	</head></html>`

	meta := ExtractMetadata(html)
	require.NotNil(t, meta.Description)
	assert.Equal(t, "plain description", *meta.Description)
}

func TestExtractMetadata_AbsentFieldsAreNil(t *testing.T) {
	meta := ExtractMetadata(`<html><body><p>no head</p></body></html>`)
	assert.Nil(t, meta.Title)
	assert.Nil(t, meta.Description)

	// Whitespace-only values collapse to nil, never "".
	meta = ExtractMetadata(`<html><head><title>   </title><meta name="description" content="  "></head></html>`)
	assert.Nil(t, meta.Title)
	assert.Nil(t, meta.Description)
}

func TestMetadataChanges(t *testing.T) {
	title := "Title"
	assert.Empty(t, Metadata{}.Changes())

	changes := Metadata{Title: &title}.Changes()
	assert.Equal(t, map[string]any{"title": "Title"}, changes)
}
