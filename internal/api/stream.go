package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const chatPath = "/api/chat"

// ChatStream issues the streaming assistant request and hands back the
// chunked text body for incremental reading. The caller owns the
// context: cancelling it aborts the stream, and the caller must close
// the returned body.
//
// The regular client timeout would cut long generations short, so the
// request runs on a transport without one.
func (c *Client) ChatStream(ctx context.Context, query, mode string) (io.ReadCloser, error) {
	jsonData, err := json.Marshal(ChatRequest{Query: query, Mode: mode})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+chatPath, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	streamClient := &http.Client{Transport: c.httpClient.Transport}
	resp, err := streamClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chat request failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, decodeError(resp)
	}
	if resp.Body == nil {
		return nil, &APIError{Status: resp.StatusCode, Detail: "response had no body"}
	}

	return resp.Body, nil
}
