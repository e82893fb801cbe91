// Package downloader fetches image URLs one after another into a local
// directory. Failures never abort the run: the URL is logged and skipped.
package downloader

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/brogergvhs/revimg/internal/ui"
)

const DefaultExt = ".jpg"

// errSave marks failures on the local side: the file could not be created
// or written.
var errSave = errors.New("cannot save image")

// Progress receives the number of processed URLs and the bytes written.
type Progress interface {
	Update(done, total int, bytes int64)
	MarkDone()
}

type Skip struct {
	URL    string
	Reason string
}

type Result struct {
	Files      []string
	Skipped    []Skip
	Bytes      int64
	Downloaded int
}

type Downloader struct {
	client *http.Client
	log    *ui.Logger
	dir    string
	// NewName returns the base file name for the next download.
	NewName func() string
}

func New(c *http.Client, log *ui.Logger, dir string) *Downloader {
	if log == nil {
		log = ui.Nop()
	}

	return &Downloader{
		client:  c,
		log:     log,
		dir:     dir,
		NewName: uuid.NewString,
	}
}

func (d *Downloader) Download(ctx context.Context, urls []string, ph Progress) Result {
	d.log.Infof("Starting to download images")

	var res Result
	total := len(urls)
	if ph != nil {
		ph.Update(0, total, 0)
	}

	for i, u := range urls {
		if ctx.Err() != nil {
			for _, rest := range urls[i:] {
				res.Skipped = append(res.Skipped, Skip{URL: rest, Reason: ctx.Err().Error()})
			}
			break
		}

		base := res.Bytes
		path, n, err := d.download(ctx, u, func(done int64) {
			if ph != nil {
				ph.Update(i, total, base+done)
			}
		})

		switch {
		case errors.Is(err, errSave):
			d.log.Errorf("Image couldn't be saved: %s (%v)", u, err)
			res.Skipped = append(res.Skipped, Skip{URL: u, Reason: err.Error()})
		case err != nil:
			d.log.Infof("Image couldn't be retrieved: %s (%v)", u, err)
			res.Skipped = append(res.Skipped, Skip{URL: u, Reason: err.Error()})
		default:
			d.log.Infof("Image successfully downloaded: %s", path)
			res.Files = append(res.Files, path)
			res.Downloaded++
			res.Bytes += n
		}

		if ph != nil {
			ph.Update(i+1, total, res.Bytes)
		}
	}

	if ph != nil {
		ph.MarkDone()
	}

	d.log.Infof("Downloaded %d images", res.Downloaded)
	return res
}

func (d *Downloader) download(ctx context.Context, u string, progress func(done int64)) (string, int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", 0, err
	}

	req.Header.Set("Accept", "image/avif,image/webp,image/apng,image/*,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := d.client.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			d.log.Debugf("failed to close response body for %s: %v", u, cerr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return "", 0, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	path := filepath.Join(d.dir, d.NewName()+ExtensionFor(resp.Header.Get("Content-Type")))

	f, err := os.Create(path)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %w", errSave, err)
	}

	written, err := copyWithProgress(f, resp.Body, progress)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("%w: %w", errSave, cerr)
	}
	if err != nil {
		return "", written, err
	}

	return path, written, nil
}

// ExtensionFor maps a Content-Type header to a file extension, falling back
// to DefaultExt when the type is missing or unknown.
func ExtensionFor(contentType string) string {
	if strings.TrimSpace(contentType) == "" {
		return DefaultExt
	}

	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return DefaultExt
	}

	m := mimetype.Lookup(mt)
	if m == nil || m.Extension() == "" {
		return DefaultExt
	}

	return m.Extension()
}
