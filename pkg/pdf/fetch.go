package pdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Eventual-Inc/pdfagent/pkg/objectstorage"
)

const (
	DefaultFetchTimeout = 30 * time.Second
	DefaultMaxBytes     = 50 << 20

	// Some document hosts refuse requests without a browser user agent.
	defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
)

var (
	ErrTooLarge          = errors.New("document exceeds size limit")
	ErrUnsupportedScheme = errors.New("unsupported URL scheme")
)

// Fetcher downloads the raw bytes behind a document URL.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

// HTTPFetcher downloads http(s) URLs.
type HTTPFetcher struct {
	Client    *http.Client
	MaxBytes  int64
	UserAgent string
}

func NewHTTPFetcher(timeout time.Duration, maxBytes int64) *HTTPFetcher {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &HTTPFetcher{
		Client:    &http.Client{Timeout: timeout},
		MaxBytes:  maxBytes,
		UserAgent: defaultUserAgent,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("User-Agent", f.UserAgent)
	req.Header.Set("Accept", "application/pdf,*/*;q=0.8")

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%d %s for url: %s", resp.StatusCode, http.StatusText(resp.StatusCode), rawURL)
	}
	return readLimited(resp.Body, f.MaxBytes)
}

// StoreFetcher downloads s3:// URLs from an object store.
type StoreFetcher struct {
	Store    objectstorage.ObjectStore
	MaxBytes int64
}

func (f *StoreFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	body, err := f.Store.DownloadObject(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return readLimited(body, f.MaxBytes)
}

// SchemeFetcher routes a URL to the fetcher registered for its scheme.
// A nil entry means the scheme is not available.
type SchemeFetcher struct {
	HTTP Fetcher
	S3   Fetcher
}

func (f *SchemeFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}
	var next Fetcher
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		next = f.HTTP
	case "s3":
		next = f.S3
	}
	if next == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
	return next.Fetch(ctx, u.String())
}

func readLimited(r io.Reader, max int64) ([]byte, error) {
	if max <= 0 {
		max = DefaultMaxBytes
	}
	data, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	if int64(len(data)) > max {
		return nil, fmt.Errorf("%w of %d bytes", ErrTooLarge, max)
	}
	return data, nil
}
