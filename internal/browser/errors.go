package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
)

type Kind int

const (
	KindUnknown Kind = iota
	// KindNotFound: no element matched before the action timed out.
	KindNotFound
	// KindNotInteractable: the element exists but has no box or is hidden.
	KindNotInteractable
	// KindStale: the node was detached from the document.
	KindStale
	// KindIntercepted: another element received the click.
	KindIntercepted
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindNotInteractable:
		return "not interactable"
	case KindStale:
		return "stale"
	case KindIntercepted:
		return "intercepted"
	default:
		return "unknown"
	}
}

// InteractionError is returned by every Session operation that touches the
// page.
type InteractionError struct {
	Op     string
	Target string
	Kind   Kind
	Err    error
}

func (e *InteractionError) Error() string {
	return fmt.Sprintf("%s %s: %s: %v", e.Op, e.Target, e.Kind, e.Err)
}

func (e *InteractionError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err is an interaction failure worth retrying.
func IsTransient(err error) bool {
	var ie *InteractionError
	if !errors.As(err, &ie) {
		return false
	}

	switch ie.Kind {
	case KindNotInteractable, KindStale, KindIntercepted:
		return true
	default:
		return false
	}
}

func interactionErr(op, target string, err error) error {
	if err == nil {
		return nil
	}

	return &InteractionError{Op: op, Target: target, Kind: classify(err), Err: err}
}

// nodeErr is interactionErr for an already located node. A deadline there
// means the node was hidden or detached by a re-render, not that it never
// existed.
func nodeErr(op string, id cdp.NodeID, err error) error {
	if err == nil {
		return nil
	}

	kind := classify(err)
	if kind == KindNotFound && errors.Is(err, context.DeadlineExceeded) {
		kind = KindStale
	}

	return &InteractionError{Op: op, Target: fmt.Sprintf("node#%d", id), Kind: kind, Err: err}
}

func classify(err error) Kind {
	switch {
	case errors.Is(err, chromedp.ErrNotVisible),
		errors.Is(err, chromedp.ErrInvalidBoxModel),
		errors.Is(err, chromedp.ErrInvalidDimensions),
		errors.Is(err, chromedp.ErrDisabled):
		return KindNotInteractable
	case errors.Is(err, chromedp.ErrNoResults),
		errors.Is(err, context.DeadlineExceeded):
		return KindNotFound
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "no node with given id"),
		strings.Contains(msg, "node is detached"),
		strings.Contains(msg, "could not find node"),
		strings.Contains(msg, "cannot find context with specified id"):
		return KindStale
	case strings.Contains(msg, "could not compute box model"),
		strings.Contains(msg, "does not have a layout object"),
		strings.Contains(msg, "not visible"):
		return KindNotInteractable
	case strings.Contains(msg, "intercept"):
		return KindIntercepted
	}

	return KindUnknown
}
