package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Page is one fetched source query.
type Page struct {
	URL    string
	Status int
	Body   []byte
}

func (p Page) OK() bool { return p.Status >= 200 && p.Status <= 299 }

// Fetcher retrieves a source page. A non-2xx reply is not an error here;
// callers inspect Page.Status.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (Page, error)
}

type HTTPFetcher struct {
	Client    *http.Client
	UserAgent string
}

func NewHTTPFetcher(userAgent string, timeout time.Duration) *HTTPFetcher {
	if userAgent == "" {
		userAgent = "Mozilla/5.0"
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &HTTPFetcher{
		Client:    &http.Client{Timeout: timeout},
		UserAgent: userAgent,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Page{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", f.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "zh-TW,zh;q=0.9,en;q=0.8")

	res, err := f.Client.Do(req)
	if err != nil {
		return Page{}, fmt.Errorf("get %s: %w", url, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return Page{}, fmt.Errorf("read %s: %w", url, err)
	}
	return Page{URL: url, Status: res.StatusCode, Body: body}, nil
}
