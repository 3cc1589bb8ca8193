// Package netx fetches objects through presigned storage URLs.
package netx

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// MaxDownloadSize caps the body DownloadPresignedURL will read.
const MaxDownloadSize = 32 << 20

// DownloadPresignedURL performs a GET on a presigned URL and returns the body.
// Any status other than 200 is an error that carries the response body.
func DownloadPresignedURL(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("download failed: %s; body: %s", resp.Status, string(b))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxDownloadSize+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(body) > MaxDownloadSize {
		return nil, fmt.Errorf("download exceeds %d bytes", MaxDownloadSize)
	}
	return body, nil
}
