package search

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// Terminal is the --output value that prints URLs instead of writing a file.
const Terminal = "-"

// WriteResults writes one URL per line to stdout when out is Terminal, or
// truncates and writes the file at out. An empty out writes nothing.
func WriteResults(out string, stdout io.Writer, urls []string) error {
	switch out {
	case "":
		return nil
	case Terminal:
		return writeLines(stdout, urls)
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("output: %w", err)
	}

	if err := writeLines(f, urls); err != nil {
		_ = f.Close()
		return fmt.Errorf("output %s: %w", out, err)
	}

	return f.Close()
}

func writeLines(w io.Writer, lines []string) error {
	bw := bufio.NewWriter(w)
	for _, l := range lines {
		if _, err := fmt.Fprintln(bw, l); err != nil {
			return err
		}
	}

	return bw.Flush()
}
