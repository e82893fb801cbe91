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

var ErrNotEnoughThumbnails = errors.New("not enough thumbnails")

type Collector struct {
	loc    Locator
	policy retry.Policy
	log    *ui.Logger
}

func NewCollector(loc Locator, policy retry.Policy, log *ui.Logger) *Collector {
	c := &Collector{loc: loc, log: log}
	c.policy = policy.With(func(err error) bool {
		return errors.Is(err, ErrNotEnoughThumbnails) || browser.IsTransient(err)
	})
	c.policy.OnRetry = func(err error, wait time.Duration) {
		log.Debugf("thumbnails: %v, retrying in %s", err, wait)
	}

	return c
}

// Collect grows the result grid until at least n thumbnails are rendered or
// the grid stops growing. Running out of thumbnails is not an error: whatever
// was gathered is returned.
func (c *Collector) Collect(ctx context.Context, page Page, n int) ([]browser.Node, error) {
	var thumbs []browser.Node

	for len(thumbs) < n {
		if err := page.ScrollToEnd(ctx); err != nil {
			c.log.Debugf("scroll failed: %v", err)
		}

		prev := len(thumbs)
		next, err := retry.Value(ctx, c.policy, func() ([]browser.Node, error) {
			return c.more(ctx, page, prev)
		})
		if err != nil {
			if ctx.Err() != nil {
				return thumbs, ctx.Err()
			}
			if errors.Is(err, ErrNotEnoughThumbnails) || browser.IsTransient(err) {
				c.log.Warnf("Cannot load enough thumbnails (have %d, want %d)", prev, n)
				break
			}
			return thumbs, err
		}

		thumbs = next
		c.log.Debugf("thumbnails: %d/%d", len(thumbs), n)
	}

	return thumbs, nil
}

func (c *Collector) more(ctx context.Context, page Page, prev int) ([]browser.Node, error) {
	if _, err := page.ClickIfPresent(ctx, c.loc.LoadMore); err != nil {
		c.log.Debugf("load more: %v", err)
	}

	thumbs, err := page.Query(ctx, c.loc.Thumbnail)
	if err != nil {
		return nil, err
	}
	if len(thumbs) <= prev {
		return nil, fmt.Errorf("%w: %d rendered", ErrNotEnoughThumbnails, len(thumbs))
	}

	return thumbs, nil
}
