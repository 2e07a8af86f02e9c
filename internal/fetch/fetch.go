package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const (
	defaultBufferSize = 32 * 1024
	// Version is sent in the User-Agent header.
	Version = "1.0"
)

// Fetcher streams remote archives to disk while reporting progress.
type Fetcher struct {
	// Client performs requests; http.DefaultClient when nil.
	Client *http.Client
	// Reporter receives throttled snapshots; nil disables reporting.
	Reporter Reporter
	// Logger records request and completion lines; nil disables logging.
	Logger *log.Logger
	// Now is the clock; time.Now when nil.
	Now func() time.Time
	// UserAgent overrides the default "tdbuild/<Version>".
	UserAgent  string
	BufferSize int
}

// New returns a Fetcher reporting to r.
func New(r Reporter, logger *log.Logger) *Fetcher {
	return &Fetcher{Reporter: r, Logger: logger}
}

// Fetch downloads url into dest, overwriting any existing file. The caller
// decides whether a download is needed. On failure the partial file is
// removed and an *Error is returned.
func (f *Fetcher) Fetch(ctx context.Context, url, dest string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	label := filepath.Base(dest)
	f.logf("fetch %s -> %s", url, dest)

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return &Error{Kind: KindFilesystem, URL: url, Path: dest, Err: err}
	}
	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return &Error{Kind: KindFilesystem, URL: url, Path: dest, Err: err}
	}

	written, err := f.stream(ctx, url, out, label)
	closeErr := out.Close()
	if err == nil && closeErr != nil {
		err = &Error{Kind: KindFilesystem, URL: url, Path: dest, Err: closeErr}
	}
	if err != nil {
		var fe *Error
		if errors.As(err, &fe) {
			fe.Path = dest
		}
		_ = os.Remove(dest)
		f.logf("fetch %s failed after %d bytes: %v", url, written, err)
		return err
	}

	f.logf("fetch %s complete: %d bytes", url, written)
	return nil
}

func (f *Fetcher) stream(ctx context.Context, url string, out io.Writer, label string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, &Error{Kind: KindNetwork, URL: url, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("User-Agent", f.userAgent())

	progress := NewProgress(f.now())

	resp, err := f.client().Do(req)
	if err != nil {
		return 0, &Error{Kind: KindNetwork, URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, &Error{Kind: KindNetwork, URL: url, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}
	progress.SetTotal(resp.ContentLength)

	buf := make([]byte, f.bufferSize())
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, err := out.Write(buf[:n]); err != nil {
				return progress.Transferred(), &Error{Kind: KindFilesystem, URL: url, Err: fmt.Errorf("write: %w", err)}
			}
			if snap, ok := progress.Observe(n, f.now()); ok {
				f.report(label, snap)
			}
		}
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			if errors.Is(readErr, io.ErrUnexpectedEOF) {
				readErr = fmt.Errorf("%w: %w", ErrShortRead, readErr)
			}
			return progress.Transferred(), &Error{Kind: KindNetwork, URL: url, Err: readErr}
		}
	}

	snap := progress.Snapshot(false)
	if snap.TotalKnown && snap.Transferred < snap.Total {
		return snap.Transferred, &Error{
			Kind: KindNetwork,
			URL:  url,
			Err:  fmt.Errorf("%w: got %d of %d bytes", ErrShortRead, snap.Transferred, snap.Total),
		}
	}
	if snap, ok := progress.Finish(f.now()); ok {
		f.report(label, snap)
	}
	return progress.Transferred(), nil
}

func (f *Fetcher) client() *http.Client {
	if f.Client != nil {
		return f.Client
	}
	return http.DefaultClient
}

func (f *Fetcher) now() time.Time {
	if f.Now != nil {
		return f.Now()
	}
	return time.Now()
}

func (f *Fetcher) userAgent() string {
	if f.UserAgent != "" {
		return f.UserAgent
	}
	return "tdbuild/" + Version
}

func (f *Fetcher) bufferSize() int {
	if f.BufferSize > 0 {
		return f.BufferSize
	}
	return defaultBufferSize
}

func (f *Fetcher) report(label string, snap Snapshot) {
	if f.Reporter != nil {
		f.Reporter.Report(label, snap)
	}
}

func (f *Fetcher) logf(format string, args ...any) {
	if f.Logger != nil {
		f.Logger.Printf(format, args...)
	}
}
