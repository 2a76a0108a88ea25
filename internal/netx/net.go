// Package netx holds small HTTP helpers shared by clients of the REST API.
package netx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// maxErrorBody caps how much of an undecodable response is kept in errors.
const maxErrorBody = 512

// DoJSON sends in (when non-nil) as a JSON body and decodes the JSON
// response into out (when non-nil). A non-empty token is sent as a Bearer
// credential. The response status is returned whenever a response arrived,
// including error statuses, which are decoded into out as well.
func DoJSON(ctx context.Context, c *http.Client, method, url, token string, in, out any) (int, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return 0, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read response: %w", err)
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			if len(raw) > maxErrorBody {
				raw = raw[:maxErrorBody]
			}
			return resp.StatusCode, fmt.Errorf("decode response (%s): %w; body: %s", resp.Status, err, raw)
		}
	}

	return resp.StatusCode, nil
}
