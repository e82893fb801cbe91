// Package search runs one reverse image search against a live results page
// and turns it into an ordered list of candidate image URLs.
package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/brogergvhs/revimg/internal/browser"
	"github.com/brogergvhs/revimg/internal/retry"
	"github.com/brogergvhs/revimg/internal/ui"
)

var ErrSimilarImages = errors.New("cannot open visually similar images")

type State int

const (
	StateStart State = iota
	StateSubmitted
	StateSimilarClicked
	StateCollecting
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "START"
	case StateSubmitted:
		return "SUBMITTED"
	case StateSimilarClicked:
		return "SIMILAR_CLICKED"
	case StateCollecting:
		return "COLLECTING"
	case StateDone:
		return "DONE"
	case StateFailed:
		return "FAILED"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

type Options struct {
	Locator      Locator
	Policy       retry.Policy
	ExcludeStock bool
	StockHosts   []string
	Log          *ui.Logger
}

type Orchestrator struct {
	loc       Locator
	log       *ui.Logger
	click     retry.Policy
	collector *Collector
	extractor *Extractor
	state     State
}

func NewOrchestrator(o Options) *Orchestrator {
	if o.Log == nil {
		o.Log = ui.Nop()
	}
	if o.Policy.Attempts == 0 {
		o.Policy = retry.Default()
	}
	loc := o.Locator.Merge(GoogleLocator())

	click := o.Policy.With(browser.IsTransient)
	click.OnRetry = func(err error, wait time.Duration) {
		o.Log.Debugf("thumbnail click: %v, retrying in %s", err, wait)
	}

	return &Orchestrator{
		loc:       loc,
		log:       o.Log,
		click:     click,
		collector: NewCollector(loc, o.Policy, o.Log),
		extractor: NewExtractor(loc, NewSourceFilter(o.ExcludeStock, o.StockHosts), o.Policy, o.Log),
		state:     StateStart,
	}
}

func (o *Orchestrator) State() State {
	return o.state
}

func (o *Orchestrator) enter(s State) {
	o.log.Debugf("search: %s -> %s", o.state, s)
	o.state = s
}

func (o *Orchestrator) fail(err error) error {
	from := o.state
	o.enter(StateFailed)
	return fmt.Errorf("after %s: %w", from, err)
}

// Search submits imageURL to the provider, opens the visually similar
// results and collects about n image URLs. The result can exceed n by the
// sources of the last clicked thumbnail.
func (o *Orchestrator) Search(ctx context.Context, page Page, imageURL string, n int) ([]string, error) {
	if err := o.submit(ctx, page, imageURL); err != nil {
		return nil, o.fail(err)
	}
	o.enter(StateSubmitted)

	if err := page.Click(ctx, o.loc.SimilarImages); err != nil {
		return nil, o.fail(fmt.Errorf("%w: %w", ErrSimilarImages, err))
	}
	o.enter(StateSimilarClicked)

	o.enter(StateCollecting)
	sources, err := o.collect(ctx, page, n)
	if err != nil {
		return sources, o.fail(err)
	}

	o.enter(StateDone)
	return sources, nil
}

func (o *Orchestrator) submit(ctx context.Context, page Page, imageURL string) error {
	if err := page.Open(ctx, o.loc.LandingURL); err != nil {
		return err
	}
	if err := page.Click(ctx, o.loc.SearchByImage); err != nil {
		return fmt.Errorf("open search by image: %w", err)
	}
	if err := page.Submit(ctx, o.loc.SearchInput, imageURL); err != nil {
		return fmt.Errorf("submit image URL: %w", err)
	}

	return nil
}

func (o *Orchestrator) collect(ctx context.Context, page Page, n int) ([]string, error) {
	thumbs, err := o.collector.Collect(ctx, page, n)
	if err != nil {
		return nil, err
	}
	o.log.Infof("Found %d thumbnails", len(thumbs))

	var sources []string
	seen := map[string]bool{}

	for _, thumb := range thumbs {
		if err := ctx.Err(); err != nil {
			return sources, err
		}

		err := retry.Do(ctx, o.click, func() error {
			return page.ClickNode(ctx, thumb)
		})
		if err != nil {
			if ctx.Err() != nil {
				return sources, ctx.Err()
			}
			o.log.Warnf("Main image click failed: %v", err)
			continue
		}

		found, err := o.extractor.Sources(ctx, page)
		if err != nil {
			if ctx.Err() != nil {
				return sources, ctx.Err()
			}
			found = nil
			if src, ok := o.extractor.Fallback(ctx, page, thumb); ok {
				found = []string{src}
			}
		}

		for _, src := range found {
			if !seen[src] {
				seen[src] = true
				sources = append(sources, src)
			}
		}

		if len(sources) >= n {
			break
		}
	}

	return sources, nil
}
