package search

import "strings"

// DefaultStockHosts are CDN prefixes of stock photo sites whose images
// usually carry a watermark. The gstatic entry is Google's own thumbnail
// cache, which only ever serves low resolution copies.
var DefaultStockHosts = []string{
	"https://encrypted-tbn0.gstatic.com/",
	"https://c8.alamy.com/",
	"https://media.gettyimages.com/",
	"https://thumbs.dreamstime.com/",
	"https://image.shutterstock.com/",
}

type SourceFilter struct {
	ExcludeStock bool
	Blocked      []string
}

func NewSourceFilter(excludeStock bool, blocked []string) SourceFilter {
	if len(blocked) == 0 {
		blocked = DefaultStockHosts
	}

	return SourceFilter{ExcludeStock: excludeStock, Blocked: blocked}
}

// Accept reports whether src may be downloaded.
func (f SourceFilter) Accept(src string) bool {
	if !strings.HasPrefix(src, "http://") && !strings.HasPrefix(src, "https://") {
		return false
	}
	if !f.ExcludeStock {
		return true
	}

	for _, p := range f.Blocked {
		if strings.HasPrefix(src, p) {
			return false
		}
	}

	return true
}
