// Package browser owns the single Chrome instance used for a run and exposes
// the handful of page interactions the search flow needs.
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"

	"github.com/brogergvhs/revimg/internal/ui"
)

// Node is a handle to an element of the currently loaded page. It is only
// meaningful until the page navigates.
type Node struct {
	ID  cdp.NodeID
	Src string
}

type Options struct {
	// ExecPath points at the Chrome/Chromium binary. Empty lets chromedp
	// look in the usual places.
	ExecPath  string
	Headless  bool
	UserAgent string
	// ActionTimeout bounds each single interaction.
	ActionTimeout time.Duration
	Log           *ui.Logger
}

type Session struct {
	ctx     context.Context
	cancel  context.CancelFunc
	timeout time.Duration
	log     *ui.Logger
}

func NewSession(ctx context.Context, o Options) (*Session, error) {
	if o.Log == nil {
		o.Log = ui.Nop()
	}
	if o.ActionTimeout <= 0 {
		o.ActionTimeout = 15 * time.Second
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", o.Headless),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("log-level", "3"),
		chromedp.Flag("lang", "en-US"),
		chromedp.WindowSize(1366, 900),
	)
	if o.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(o.ExecPath))
	}
	if o.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(o.UserAgent))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(o.Log.Debugf),
		chromedp.WithErrorf(o.Log.Debugf),
	)

	s := &Session{
		ctx:     browserCtx,
		cancel:  func() { cancelBrowser(); cancelAlloc() },
		timeout: o.ActionTimeout,
		log:     o.Log,
	}

	// First Run starts the browser process.
	if err := chromedp.Run(browserCtx); err != nil {
		s.cancel()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	o.Log.Debugf("[browser] started (headless=%t, exec=%q)", o.Headless, o.ExecPath)
	return s, nil
}

// Close shuts the browser down. Safe to call more than once.
func (s *Session) Close() {
	if s.cancel == nil {
		return
	}

	if err := chromedp.Cancel(s.ctx); err != nil {
		s.log.Debugf("[browser] graceful close failed: %v", err)
	}
	s.cancel()
	s.cancel = nil
	s.log.Debugf("[browser] closed")
}

// NodeTimeout bounds actions on an already located node. Such a node is
// either usable right away or gone, so waiting the full action timeout
// only delays the retry.
const NodeTimeout = 2 * time.Second

// run executes actions against the browser, bounded by the action timeout
// and by the caller's context.
func (s *Session) run(ctx context.Context, actions ...chromedp.Action) error {
	return s.runWithin(ctx, s.timeout, actions...)
}

func (s *Session) runNode(ctx context.Context, actions ...chromedp.Action) error {
	return s.runWithin(ctx, min(s.timeout, NodeTimeout), actions...)
}

func (s *Session) runWithin(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()

	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := chromedp.Run(runCtx, actions...)
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}

	return err
}

func (s *Session) Open(ctx context.Context, url string) error {
	s.log.Debugf("[browser] open %s", url)
	err := s.run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("navigation failed: %w", interactionErr("open", url, err))
	}

	return nil
}

func (s *Session) Click(ctx context.Context, selector string) error {
	s.log.Debugf("[browser] click %s", selector)
	err := s.run(ctx, chromedp.Click(selector, chromedp.ByQuery, chromedp.NodeVisible))
	return interactionErr("click", selector, err)
}

// Submit types text into the field and presses Enter.
func (s *Session) Submit(ctx context.Context, selector, text string) error {
	s.log.Debugf("[browser] submit %q into %s", text, selector)
	err := s.run(ctx,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.SendKeys(selector, text, chromedp.ByQuery),
		chromedp.SendKeys(selector, kb.Enter, chromedp.ByQuery),
	)
	return interactionErr("submit", selector, err)
}

func (s *Session) ScrollToEnd(ctx context.Context) error {
	err := s.run(ctx, chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight);`, nil))
	return interactionErr("scroll", "window", err)
}

// ClickIfPresent clicks the first element matching selector from page
// JavaScript. It reports false when nothing matched.
func (s *Session) ClickIfPresent(ctx context.Context, selector string) (bool, error) {
	script := fmt.Sprintf(`(() => {
		const el = document.querySelector(%q);
		if (!el) { return false; }
		el.click();
		return true;
	})()`, selector)

	var clicked bool
	if err := s.run(ctx, chromedp.Evaluate(script, &clicked)); err != nil {
		return false, interactionErr("click", selector, err)
	}

	return clicked, nil
}

// Query returns every element currently matching selector without waiting
// for any to appear.
func (s *Session) Query(ctx context.Context, selector string) ([]Node, error) {
	var nodes []*cdp.Node
	err := s.run(ctx, chromedp.Nodes(selector, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0)))
	if err != nil {
		return nil, interactionErr("query", selector, err)
	}

	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, Node{ID: n.NodeID, Src: n.AttributeValue("src")})
	}

	return out, nil
}

func (s *Session) ClickNode(ctx context.Context, n Node) error {
	err := s.runNode(ctx, chromedp.Click([]cdp.NodeID{n.ID}, chromedp.ByNodeID, chromedp.NodeVisible))
	return nodeErr("click", n.ID, err)
}

// Attribute reads the live value of an attribute of n.
func (s *Session) Attribute(ctx context.Context, n Node, name string) (string, error) {
	var (
		val string
		ok  bool
	)

	err := s.runNode(ctx, chromedp.AttributeValue([]cdp.NodeID{n.ID}, name, &val, &ok, chromedp.ByNodeID))
	if err != nil {
		return "", nodeErr("attribute", n.ID, err)
	}
	if !ok {
		return "", nil
	}

	return val, nil
}

func (s *Session) HTML(ctx context.Context) (string, error) {
	var html string
	if err := s.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", interactionErr("read", "html", err)
	}

	return html, nil
}
