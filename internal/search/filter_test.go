package search_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/brogergvhs/revimg/internal/search"
)

func TestSourceFilterExcludeStock(t *testing.T) {
	f := search.NewSourceFilter(true, nil)

	for _, host := range search.DefaultStockHosts {
		assert.False(t, f.Accept(host+"photo/123.jpg"), host)
	}

	assert.True(t, f.Accept("https://upload.wikimedia.org/cat.jpg"))
	assert.True(t, f.Accept("http://example.com/dog.png"))
	assert.False(t, f.Accept("data:image/jpeg;base64,/9j/4AAQ"))
	assert.False(t, f.Accept("/relative/path.jpg"))
}

func TestSourceFilterWithoutExclusion(t *testing.T) {
	f := search.NewSourceFilter(false, nil)

	assert.True(t, f.Accept("https://media.gettyimages.com/photo.jpg"))
	assert.True(t, f.Accept("https://encrypted-tbn0.gstatic.com/images?q=tbn:abc"))
	assert.True(t, f.Accept("http://example.com/a.gif"))
	assert.False(t, f.Accept("data:image/png;base64,AAAA"))
	assert.False(t, f.Accept("ftp://example.com/a.jpg"))
	assert.False(t, f.Accept(""))
}

func TestSourceFilterCustomBlockList(t *testing.T) {
	f := search.NewSourceFilter(true, []string{"https://cdn.stock.test/"})

	assert.False(t, f.Accept("https://cdn.stock.test/1.jpg"))
	assert.True(t, f.Accept("https://media.gettyimages.com/photo.jpg"))
}
