package adapter

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/amishk599/internwatch/internal/model"
	"github.com/amishk599/internwatch/internal/ratelimit"
)

// browserUserAgent is sent to sites that turn away obvious bots.
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// get issues a paced GET and returns the body of a 200 response. The caller
// closes the body. Any other status is returned as *model.HTTPError.
func get(ctx context.Context, client *http.Client, limiter *ratelimit.HostLimiter, url string, header http.Header) (io.ReadCloser, error) {
	if limiter != nil {
		if err := limiter.WaitURL(ctx, url); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		// Drain a little so the connection can be reused.
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, &model.HTTPError{
			StatusCode: resp.StatusCode,
			URL:        url,
			Err:        fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}
	return resp.Body, nil
}

func browserHeader() http.Header {
	h := make(http.Header)
	h.Set("User-Agent", browserUserAgent)
	h.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	h.Set("Accept-Language", "en-US,en;q=0.9")
	return h
}
