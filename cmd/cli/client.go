package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/iho/bankledger/internal/adapter/http/dto"
)

// apiError is a non-success response from the API.
type apiError struct {
	Status int
	Body   dto.ErrorResponse
}

func (e *apiError) Error() string {
	msg := e.Body.Error
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.Body.Message != "" {
		msg += ": " + e.Body.Message
	}
	return fmt.Sprintf("%s (HTTP %d)", msg, e.Status)
}

type apiClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func newAPIClient(opts *globalOptions) *apiClient {
	return &apiClient{
		baseURL: strings.TrimRight(opts.baseURL, "/"),
		token:   opts.token,
		http:    &http.Client{Timeout: opts.timeout},
	}
}

// call sends body as JSON and decodes the response into out when the status
// is 2xx or listed in accept.
func (c *apiClient) call(ctx context.Context, method, path string, body, out any, accept ...int) (int, error) {
	raw, status, err := c.raw(ctx, method, path, body)
	if err != nil {
		return 0, err
	}

	if !accepted(status, accept) {
		apiErr := &apiError{Status: status}
		_ = json.Unmarshal(raw, &apiErr.Body)
		return status, apiErr
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return status, fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return status, nil
}

func (c *apiClient) raw(ctx context.Context, method, path string, body any) ([]byte, int, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, 0, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}

	return raw, resp.StatusCode, nil
}

func accepted(status int, extra []int) bool {
	if status >= 200 && status < 300 {
		return true
	}
	for _, s := range extra {
		if s == status {
			return true
		}
	}
	return false
}
