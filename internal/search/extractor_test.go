package search_test

import (
	"context"
	"testing"

	"github.com/chromedp/cdproto/cdp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brogergvhs/revimg/internal/browser"
	"github.com/brogergvhs/revimg/internal/search"
	"github.com/brogergvhs/revimg/internal/ui"
)

func TestExtractorSourcesFiltersAndDedupes(t *testing.T) {
	page := newFakePage(1)
	page.current = 1
	page.previews[1] = []string{
		"data:image/jpeg;base64,AAAA",
		"https://media.gettyimages.com/watermarked.jpg",
		"https://example.com/full.jpg",
		"https://example.com/full.jpg",
		"https://example.org/other.png",
	}

	e := search.NewExtractor(search.GoogleLocator(), search.NewSourceFilter(true, nil), fastPolicy(), ui.Nop())
	got, err := e.Sources(context.Background(), page)

	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/full.jpg", "https://example.org/other.png"}, got)
}

func TestExtractorSourcesNotFound(t *testing.T) {
	page := newFakePage(1)
	page.current = 1
	page.previews[1] = []string{"data:image/png;base64,AAAA"}

	e := search.NewExtractor(search.GoogleLocator(), search.NewSourceFilter(false, nil), fastPolicy(), ui.Nop())
	_, err := e.Sources(context.Background(), page)

	require.ErrorIs(t, err, search.ErrNoSource)
}

func TestExtractorFallback(t *testing.T) {
	page := newFakePage(3)
	page.thumbSrc[2] = "data:image/jpeg;base64,/9j/"
	page.thumbSrc[3] = "https://encrypted-tbn0.gstatic.com/images?q=tbn:x"

	plain := search.NewExtractor(search.GoogleLocator(), search.NewSourceFilter(false, nil), fastPolicy(), ui.Nop())
	stock := search.NewExtractor(search.GoogleLocator(), search.NewSourceFilter(true, nil), fastPolicy(), ui.Nop())

	src, ok := plain.Fallback(context.Background(), page, browser.Node{ID: 1})
	assert.True(t, ok)
	assert.Equal(t, "https://thumbs.example.com/1.jpg", src)

	_, ok = plain.Fallback(context.Background(), page, browser.Node{ID: cdp.NodeID(2)})
	assert.False(t, ok)

	src, ok = plain.Fallback(context.Background(), page, browser.Node{ID: 3})
	assert.True(t, ok)
	assert.Equal(t, page.thumbSrc[3], src)

	_, ok = stock.Fallback(context.Background(), page, browser.Node{ID: 3})
	assert.False(t, ok)
}
