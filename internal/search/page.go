package search

import (
	"context"

	"github.com/brogergvhs/revimg/internal/browser"
)

// Page is the slice of browser.Session the search flow drives.
type Page interface {
	Open(ctx context.Context, url string) error
	Click(ctx context.Context, selector string) error
	Submit(ctx context.Context, selector, text string) error
	ScrollToEnd(ctx context.Context) error
	ClickIfPresent(ctx context.Context, selector string) (bool, error)
	Query(ctx context.Context, selector string) ([]browser.Node, error)
	ClickNode(ctx context.Context, n browser.Node) error
	Attribute(ctx context.Context, n browser.Node, name string) (string, error)
	HTML(ctx context.Context) (string, error)
}

var _ Page = (*browser.Session)(nil)
