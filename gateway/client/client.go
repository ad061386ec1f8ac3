// Package client is the gateway's typed view of the storage service's
// JSON contract.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/awthompson/quill/api"
)

// UpstreamError reports a storage service call that came back non-2xx.
// Message carries the upstream's own description when its body was
// parseable.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("storage service returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("storage service returned %d", e.StatusCode)
}

// Client calls the storage service over HTTP. The http.Client is injected
// so the caller decides the timeout that bounds a hung upstream.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    httpClient,
	}
}

// ListPosts fetches one page of posts.
func (c *Client) ListPosts(ctx context.Context, page, limit int) (*api.PostList, error) {
	url := fmt.Sprintf("%s/posts?page=%d&limit=%d", c.baseURL, page, limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build list request: %w", err)
	}

	var list api.PostList
	if err := c.do(req, &list); err != nil {
		return nil, err
	}

	return &list, nil
}

// CreatePost submits a new post, with the image bytes base64-embedded in
// the body when present.
func (c *Client) CreatePost(ctx context.Context, post api.PostRequest) (*api.Post, error) {
	req, err := c.jsonRequest(ctx, http.MethodPost, c.baseURL+"/posts", post)
	if err != nil {
		return nil, err
	}

	var resp api.PostResponse
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}

	return &resp.Post, nil
}

// UpdatePost overwrites a post's title and content. The image field is
// only sent when the caller set it, so an edit without a new file leaves
// the stored image alone.
func (c *Client) UpdatePost(ctx context.Context, id int64, post api.PostRequest) (*api.Post, error) {
	req, err := c.jsonRequest(ctx, http.MethodPut, fmt.Sprintf("%s/posts/%d", c.baseURL, id), post)
	if err != nil {
		return nil, err
	}

	var resp api.PostResponse
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}

	return &resp.Post, nil
}

// DeletePost removes a post by id.
func (c *Client) DeletePost(ctx context.Context, id int64) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, fmt.Sprintf("%s/posts/%d", c.baseURL, id), nil)
	if err != nil {
		return fmt.Errorf("failed to build delete request: %w", err)
	}

	return c.do(req, nil)
}

func (c *Client) jsonRequest(ctx context.Context, method, url string, body any) (*http.Request, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", method, err)
	}

	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// do executes the request and decodes a 2xx body into out when out is
// non-nil. Anything else becomes an UpstreamError.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("storage service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		upstream := &UpstreamError{StatusCode: resp.StatusCode}

		var msg api.Message
		if err := json.NewDecoder(resp.Body).Decode(&msg); err == nil {
			upstream.Message = msg.Message
		}

		return upstream
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode storage service response: %w", err)
	}

	return nil
}
