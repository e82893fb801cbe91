package ui_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/brogergvhs/revimg/internal/ui"
)

func TestBytes(t *testing.T) {
	assert.Equal(t, "512 B", ui.Bytes(512))
	assert.Equal(t, "1.50 KB", ui.Bytes(1536))
	assert.Equal(t, "2.00 MB", ui.Bytes(2<<20))
	assert.Equal(t, "1.00 GB", ui.Bytes(1<<30))
	assert.Equal(t, "2048.00 GB", ui.Bytes(2<<40))
}

func TestStatsPrint(t *testing.T) {
	var s ui.Stats
	s.Found.Store(3)
	s.Downloaded.Store(2)
	s.Skipped.Store(1)
	s.TotalBytes.Store(2048)

	var buf bytes.Buffer
	s.Print(&buf, 1500*time.Millisecond)

	out := buf.String()
	assert.Contains(t, out, "Downloaded: 2")
	assert.Contains(t, out, "Skipped:    1")
	assert.Contains(t, out, "2.00 KB")
	assert.Contains(t, out, "Time:       2s")
}
