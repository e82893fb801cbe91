package search_test

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/cdp"

	"github.com/brogergvhs/revimg/internal/browser"
	"github.com/brogergvhs/revimg/internal/retry"
	"github.com/brogergvhs/revimg/internal/search"
)

func fastPolicy() retry.Policy {
	return retry.Policy{Attempts: 6, Delay: time.Millisecond, Multiplier: 2}
}

// fakePage is a scripted results page. Thumbnail queries walk through
// counts (the last value repeats) and clicking node i shows previews[i].
type fakePage struct {
	loc search.Locator

	counts   []int
	previews map[cdp.NodeID][]string
	thumbSrc map[cdp.NodeID]string

	clickErr   map[cdp.NodeID]error
	similarErr error

	queries  int
	clicked  []cdp.NodeID
	current  cdp.NodeID
	opened   []string
	submits  []string
	loadMore int
}

func newFakePage(counts ...int) *fakePage {
	return &fakePage{
		loc:      search.GoogleLocator(),
		counts:   counts,
		previews: map[cdp.NodeID][]string{},
		thumbSrc: map[cdp.NodeID]string{},
		clickErr: map[cdp.NodeID]error{},
	}
}

func (p *fakePage) Open(_ context.Context, url string) error {
	p.opened = append(p.opened, url)
	return nil
}

func (p *fakePage) Click(_ context.Context, selector string) error {
	if selector == p.loc.SimilarImages && p.similarErr != nil {
		return p.similarErr
	}
	return nil
}

func (p *fakePage) Submit(_ context.Context, selector, text string) error {
	p.submits = append(p.submits, selector+"="+text)
	return nil
}

func (p *fakePage) ScrollToEnd(context.Context) error { return nil }

func (p *fakePage) ClickIfPresent(_ context.Context, selector string) (bool, error) {
	if selector == p.loc.LoadMore {
		p.loadMore++
	}
	return true, nil
}

func (p *fakePage) Query(_ context.Context, selector string) ([]browser.Node, error) {
	if selector != p.loc.Thumbnail {
		return nil, nil
	}

	i := p.queries
	if i >= len(p.counts) {
		i = len(p.counts) - 1
	}
	p.queries++

	out := make([]browser.Node, 0, p.counts[i])
	for id := 1; id <= p.counts[i]; id++ {
		out = append(out, browser.Node{ID: cdp.NodeID(id), Src: p.src(cdp.NodeID(id))})
	}

	return out, nil
}

func (p *fakePage) src(id cdp.NodeID) string {
	if s, ok := p.thumbSrc[id]; ok {
		return s
	}
	return fmt.Sprintf("https://thumbs.example.com/%d.jpg", id)
}

func (p *fakePage) ClickNode(_ context.Context, n browser.Node) error {
	if err := p.clickErr[n.ID]; err != nil {
		return err
	}
	p.clicked = append(p.clicked, n.ID)
	p.current = n.ID
	return nil
}

func (p *fakePage) Attribute(_ context.Context, n browser.Node, name string) (string, error) {
	if name != "src" {
		return "", nil
	}
	return p.src(n.ID), nil
}

func (p *fakePage) HTML(context.Context) (string, error) {
	var b strings.Builder
	b.WriteString("<html><body><div id=\"islrg\">")
	for _, src := range p.previews[p.current] {
		fmt.Fprintf(&b, `<img class="n3VNCb" src="%s">`, src)
	}
	b.WriteString(`<img class="other" src="https://ignored.example.com/x.png">`)
	b.WriteString("</div></body></html>")

	return b.String(), nil
}
