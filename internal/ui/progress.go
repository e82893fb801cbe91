package ui

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

type ProgressManager struct {
	p *mpb.Progress
}

func NewProgressManager(out io.Writer) *ProgressManager {
	p := mpb.New(
		mpb.WithWidth(52),
		mpb.WithOutput(out),
		mpb.WithRefreshRate(120*time.Millisecond),
	)
	return &ProgressManager{p: p}
}

func (pm *ProgressManager) Close() {
	pm.p.Wait()
}

func (pm *ProgressManager) Register(prefix string) *ProgressHandle {
	h := &ProgressHandle{
		pm:     pm,
		prefix: prefix,
	}
	h.initBar()
	return h
}

// ProgressHandle tracks one download run: a count of processed URLs and the
// bytes written so far.
type ProgressHandle struct {
	pm     *ProgressManager
	prefix string
	bar    *mpb.Bar

	total int64
	bytes int64

	start   time.Time
	elapsed atomic.Int64

	final atomic.Bool
}

func (h *ProgressHandle) initBar() {
	h.start = time.Now()

	h.bar = h.pm.p.New(
		0,
		mpb.BarStyle().Rbound("]"),

		mpb.PrependDecorators(
			decor.Name(h.prefix+"  "),
		),

		mpb.AppendDecorators(
			decor.Percentage(decor.WCSyncWidth),
			decor.CountersNoUnit(" | %d/%d images", decor.WCSyncWidth),
			decor.Any(func(_ decor.Statistics) string {
				return " | " + Bytes(atomic.LoadInt64(&h.bytes))
			}),
			decor.Any(func(_ decor.Statistics) string {
				sec := int64(time.Since(h.start).Seconds())
				if h.final.Load() {
					sec = h.elapsed.Load()
				}
				return fmt.Sprintf(" | %ds", sec)
			}),
		),
	)
}

func (h *ProgressHandle) Update(done, total int, bytes int64) {
	if h.final.Load() {
		return
	}

	if total > 0 {
		atomic.StoreInt64(&h.total, int64(total))
		h.bar.SetTotal(int64(total), false)
	}

	atomic.StoreInt64(&h.bytes, bytes)
	h.bar.SetCurrent(int64(done))
}

func (h *ProgressHandle) MarkDone() {
	if h.final.Swap(true) {
		return
	}

	h.elapsed.Store(int64(time.Since(h.start).Seconds()))
	total := atomic.LoadInt64(&h.total)
	h.bar.SetCurrent(total)
	h.bar.SetTotal(total, true)
}
