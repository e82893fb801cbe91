package util

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// RequireDir fails unless path exists and is a directory. Directories are
// never created on the caller's behalf.
func RequireDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("directory %q does not exist, create it first", path)
		}
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%q is not a directory", path)
	}

	return nil
}

// ReadLines returns the trimmed, non-empty lines of a text file.
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line != "" {
			out = append(out, line)
		}
	}

	return out, sc.Err()
}
