package search

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/brogergvhs/revimg/internal/browser"
	"github.com/brogergvhs/revimg/internal/retry"
	"github.com/brogergvhs/revimg/internal/ui"
)

var ErrNoSource = errors.New("no source found")

// Extractor reads full resolution image URLs out of the preview panel that
// opens after a thumbnail is clicked.
type Extractor struct {
	loc    Locator
	filter SourceFilter
	policy retry.Policy
	log    *ui.Logger
}

func NewExtractor(loc Locator, filter SourceFilter, policy retry.Policy, log *ui.Logger) *Extractor {
	e := &Extractor{loc: loc, filter: filter, log: log}
	e.policy = policy.With(func(err error) bool {
		return errors.Is(err, ErrNoSource) || browser.IsTransient(err)
	})
	e.policy.OnRetry = func(err error, wait time.Duration) {
		log.Debugf("preview: %v, retrying in %s", err, wait)
	}

	return e
}

// Sources waits for the preview to expose at least one accepted URL.
func (e *Extractor) Sources(ctx context.Context, page Page) ([]string, error) {
	return retry.Value(ctx, e.policy, func() ([]string, error) {
		html, err := page.HTML(ctx)
		if err != nil {
			return nil, err
		}

		srcs, err := e.parse(html)
		if err != nil {
			return nil, err
		}
		if len(srcs) == 0 {
			return nil, ErrNoSource
		}

		return srcs, nil
	})
}

func (e *Extractor) parse(html string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var out []string
	seen := map[string]bool{}

	doc.Find(e.loc.Preview).Each(func(_ int, img *goquery.Selection) {
		src, ok := img.Attr("src")
		if !ok || !e.filter.Accept(src) || seen[src] {
			return
		}
		seen[src] = true
		out = append(out, src)
	})

	return out, nil
}

// Fallback returns the thumbnail's own URL when the preview never produced
// one. Inline data URLs are useless outside the page and yield nothing.
func (e *Extractor) Fallback(ctx context.Context, page Page, n browser.Node) (string, bool) {
	src, err := page.Attribute(ctx, n, "src")
	if err != nil || src == "" {
		src = n.Src
	}

	switch {
	case src == "":
		e.log.Warnf("No source found for main image, thumbnail has no src")
		return "", false
	case strings.HasPrefix(src, "data"):
		e.log.Warnf("No source found for main image, thumbnail is a data URL")
		return "", false
	case !e.filter.Accept(src):
		e.log.Warnf("No source found for main image, thumbnail %s is filtered out", src)
		return "", false
	}

	e.log.Warnf("No source found for main image, using thumbnail")
	return src, true
}
