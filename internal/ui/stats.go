package ui

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"
)

// Stats counts one download run.
type Stats struct {
	Found      atomic.Int64
	Downloaded atomic.Int64
	Skipped    atomic.Int64
	TotalBytes atomic.Int64
}

func (s *Stats) Print(w io.Writer, elapsed time.Duration) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Download Summary:")
	fmt.Fprintf(w, "URLs:       %d\n", s.Found.Load())
	fmt.Fprintf(w, "Downloaded: %d\n", s.Downloaded.Load())
	fmt.Fprintf(w, "Skipped:    %d\n", s.Skipped.Load())
	fmt.Fprintf(w, "Data:       %s\n", Bytes(s.TotalBytes.Load()))
	fmt.Fprintf(w, "Time:       %s\n", elapsed.Round(time.Second))
}

// Bytes formats n with a binary unit.
func Bytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}

	div, exp := int64(unit), 0
	for m := n / unit; m >= unit && exp < 2; m /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.2f %cB", float64(n)/float64(div), "KMG"[exp])
}
