package search_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/brogergvhs/revimg/internal/search"
)

func TestLocatorMergeKeepsOverrides(t *testing.T) {
	def := search.GoogleLocator()

	got := search.Locator{Thumbnail: "img.thumb"}.Merge(def)

	assert.Equal(t, "img.thumb", got.Thumbnail)
	assert.Equal(t, def.Preview, got.Preview)
	assert.Equal(t, def.LandingURL, got.LandingURL)
	assert.Equal(t, def, search.Locator{}.Merge(def))
}
