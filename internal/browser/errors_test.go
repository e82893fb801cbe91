package browser

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"timeout waiting for selector", context.DeadlineExceeded, KindNotFound},
		{"no results", chromedp.ErrNoResults, KindNotFound},
		{"not visible", chromedp.ErrNotVisible, KindNotInteractable},
		{"wrapped box model", fmt.Errorf("click: %w", chromedp.ErrInvalidBoxModel), KindNotInteractable},
		{"layout object", errors.New("Node does not have a layout object (-32000)"), KindNotInteractable},
		{"detached node", errors.New("No node with given id found (-32000)"), KindStale},
		{"intercepted", errors.New("element click intercepted by overlay"), KindIntercepted},
		{"other", errors.New("websocket closed"), KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classify(tt.err))
		})
	}
}

func TestInteractionErrorWrapping(t *testing.T) {
	err := fmt.Errorf("navigation failed: %w", interactionErr("click", "h3.GmE3X", chromedp.ErrNotVisible))

	var ie *InteractionError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "click", ie.Op)
	assert.Equal(t, "h3.GmE3X", ie.Target)
	assert.Equal(t, KindNotInteractable, ie.Kind)
	assert.ErrorIs(t, err, chromedp.ErrNotVisible)
	assert.Contains(t, err.Error(), "not interactable")
}

func TestIsTransient(t *testing.T) {
	assert.True(t, IsTransient(&InteractionError{Kind: KindStale, Err: errors.New("x")}))
	assert.True(t, IsTransient(&InteractionError{Kind: KindIntercepted, Err: errors.New("x")}))
	assert.True(t, IsTransient(&InteractionError{Kind: KindNotInteractable, Err: errors.New("x")}))
	assert.False(t, IsTransient(&InteractionError{Kind: KindNotFound, Err: errors.New("x")}))
	assert.False(t, IsTransient(errors.New("plain")))
	assert.False(t, IsTransient(nil))
	assert.Nil(t, interactionErr("click", "x", nil))
}

func TestNodeErrTreatsDeadlineAsStale(t *testing.T) {
	err := nodeErr("click", cdp.NodeID(7), context.DeadlineExceeded)

	var ie *InteractionError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, KindStale, ie.Kind)
	assert.Equal(t, "node#7", ie.Target)
	assert.True(t, IsTransient(err))

	assert.False(t, IsTransient(interactionErr("click", "h3.GmE3X", context.DeadlineExceeded)))
	assert.NoError(t, nodeErr("click", cdp.NodeID(7), nil))
	assert.Equal(t, KindNotInteractable, mustKind(t, nodeErr("click", 1, chromedp.ErrNotVisible)))
}

func mustKind(t *testing.T, err error) Kind {
	t.Helper()

	var ie *InteractionError
	require.ErrorAs(t, err, &ie)
	return ie.Kind
}
