package avatar

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/relnotes/pkg/domain/model"
	"github.com/m-mizutani/relnotes/pkg/domain/types"
	"golang.org/x/sync/errgroup"
)

const (
	defaultConcurrency = 4
	defaultTimeout     = 10 * time.Second
	maxImageSize       = 2 << 20
)

// Fetcher downloads avatar images over HTTP
type Fetcher struct {
	httpClient  *http.Client
	concurrency int
}

// Option is a functional option for Fetcher
type Option func(*Fetcher)

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.httpClient = c
	}
}

// WithConcurrency limits parallel downloads
func WithConcurrency(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.concurrency = n
		}
	}
}

// New creates a Fetcher
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		httpClient:  &http.Client{Timeout: defaultTimeout},
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchAvatars downloads every distinct URL. Failures are logged and the
// URL is left out of the result; one broken avatar does not stop the rest.
func (f *Fetcher) FetchAvatars(ctx context.Context, urls []string) map[string]*model.AvatarImage {
	logger := ctxlog.From(ctx)

	var (
		mu     sync.Mutex
		images = make(map[string]*model.AvatarImage, len(urls))
		seen   = make(map[string]struct{}, len(urls))
	)

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(f.concurrency)

	for _, url := range urls {
		if url == "" {
			continue
		}
		if _, ok := seen[url]; ok {
			continue
		}
		seen[url] = struct{}{}

		eg.Go(func() error {
			img, err := f.fetch(ctx, url)
			if err != nil {
				logger.Warn("Failed to fetch avatar", "url", url, "error", err)
				return nil
			}

			mu.Lock()
			images[url] = img
			mu.Unlock()
			return nil
		})
	}

	_ = eg.Wait()
	return images
}

func (f *Fetcher) fetch(ctx context.Context, url string) (*model.AvatarImage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create avatar request", goerr.V("url", url))
	}
	req.Header.Set("User-Agent", types.ServiceName+"/"+types.Version)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to download avatar", goerr.V("url", url))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, goerr.New("unexpected status code for avatar", goerr.V("url", url), goerr.V("status", resp.StatusCode))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageSize+1))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read avatar", goerr.V("url", url))
	}
	if len(data) > maxImageSize {
		return nil, goerr.New("avatar too large", goerr.V("url", url))
	}

	imageType := detectType(resp.Header.Get("Content-Type"), data)
	if imageType == "" {
		return nil, goerr.New("unsupported avatar content type",
			goerr.V("url", url),
			goerr.V("content_type", resp.Header.Get("Content-Type")),
		)
	}

	return &model.AvatarImage{URL: url, Type: imageType, Data: data}, nil
}

// detectType maps a content type to the short image type name. The body is
// sniffed when the header is missing or generic.
func detectType(contentType string, data []byte) string {
	if contentType == "" || strings.HasPrefix(contentType, "application/octet-stream") {
		contentType = http.DetectContentType(data)
	}

	switch {
	case strings.HasPrefix(contentType, "image/png"):
		return "png"
	case strings.HasPrefix(contentType, "image/jpeg"), strings.HasPrefix(contentType, "image/jpg"):
		return "jpg"
	case strings.HasPrefix(contentType, "image/gif"):
		return "gif"
	default:
		return ""
	}
}
