package monitoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// sinkClient posts JSON payloads to one telemetry endpoint. It is
// deliberately dumb: short timeout, no retries, errors bubble up to the
// Service which swallows them.
type sinkClient struct {
	url    string
	apiKey string
	http   *http.Client
}

// NewSink creates a client for one telemetry endpoint
func NewSink(url, apiKey string, timeout time.Duration) *sinkClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &sinkClient{
		url:    url,
		apiKey: apiKey,
		http:   &http.Client{Timeout: timeout},
	}
}

func (c *sinkClient) send(payload map[string]interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal telemetry payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Read and discard so the connection can be reused
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("telemetry sink returned status %d", resp.StatusCode)
	}

	return nil
}
