package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPStorage downloads the bundle from a remote URL at startup
type HTTPStorage struct {
	url    string
	client *http.Client
}

func NewHTTPStorage(url string, timeout time.Duration) *HTTPStorage {
	return &HTTPStorage{
		url: url,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:    2,
				IdleConnTimeout: 90 * time.Second,
			},
		},
	}
}

func (hs *HTTPStorage) Name() string {
	return hs.url
}

// Open issues the GET request; the caller closes the body
func (hs *HTTPStorage) Open(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, hs.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "plotmatch/1.0")

	resp, err := hs.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("network error: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("received non-200 status code: %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// NewSource picks HTTPStorage for http(s) locations and FileStorage otherwise.
func NewSource(location string, timeout time.Duration) ArtifactSource {
	lower := strings.ToLower(location)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return NewHTTPStorage(location, timeout)
	}
	return NewFileStorage(location)
}
