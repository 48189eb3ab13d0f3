// Package client delivers telemetry batches to the collector over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nodepulse/nodepulse/internal/errors"
	"github.com/nodepulse/nodepulse/internal/telemetry"
)

const probePath = "/api/v1/probe"

// Client posts batches to a single collector.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a Client for the collector at baseURL, e.g.
// "http://collector:8080".
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// SendBatch posts one batch and classifies the outcome. Transport
// failures wrap ErrTransport; a non-2xx response wraps ErrBadStatus.
// Both are retriable.
func (c *Client) SendBatch(ctx context.Context, points []telemetry.Point) error {
	body, err := json.Marshal(telemetry.Batch{Data: points})
	if err != nil {
		return errors.Wrap(err, "encode batch")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+probePath, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(errors.ErrTransport, "post batch: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: collector returned %d", errors.ErrBadStatus, resp.StatusCode)
	}

	return nil
}
