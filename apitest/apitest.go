// Package apitest provides typed HTTP helpers for testing usersapi handlers.
package apitest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bjaus/usersapi/schema"
)

// Client wraps an httptest.Server for convenient API testing.
type Client struct {
	Server *httptest.Server
}

// NewClient starts a test server for h. It is closed when the test ends.
func NewClient(t testing.TB, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return &Client{Server: srv}
}

// Response holds a decoded API response and its raw bytes.
type Response[T any] struct {
	Status  int
	Headers http.Header
	Body    *T
	Bytes   []byte
}

// Get sends a typed GET request.
func Get[Resp any](t testing.TB, c *Client, path string) *Response[Resp] {
	t.Helper()
	return do[Resp](t, c, http.MethodGet, path, "", nil)
}

// Post sends a typed POST request with a JSON body.
func Post[Req, Resp any](t testing.TB, c *Client, path string, body *Req) *Response[Resp] {
	t.Helper()

	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("apitest: marshal request body: %v", err)
	}
	return do[Resp](t, c, http.MethodPost, path, "application/json", b)
}

// Send issues a request with a raw body and content type, for payloads a
// Go type cannot express such as malformed JSON or YAML.
func Send[Resp any](t testing.TB, c *Client, method, path, contentType string, body []byte) *Response[Resp] {
	t.Helper()
	return do[Resp](t, c, method, path, contentType, body)
}

// Delete sends a typed DELETE request.
func Delete[Resp any](t testing.TB, c *Client, path string) *Response[Resp] {
	t.Helper()
	return do[Resp](t, c, http.MethodDelete, path, "", nil)
}

func do[Resp any](t testing.TB, c *Client, method, path, contentType string, body []byte) *Response[Resp] {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		reqBody = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, c.Server.URL+path, reqBody)
	if err != nil {
		t.Fatalf("apitest: create request: %v", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.Server.Client().Do(req)
	if err != nil {
		t.Fatalf("apitest: execute request: %v", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			t.Errorf("apitest: close body: %v", closeErr)
		}
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("apitest: read body: %v", err)
	}

	result := &Response[Resp]{
		Status:  resp.StatusCode,
		Headers: resp.Header,
		Bytes:   raw,
	}

	if len(raw) > 0 {
		var decoded Resp
		if decErr := json.Unmarshal(raw, &decoded); decErr == nil {
			result.Body = &decoded
		}
	}

	return result
}

// MatchesSchema fails the test unless body is JSON valid against s. The
// validation issues are reported on failure.
func MatchesSchema(t testing.TB, s schema.Schema, body []byte) bool {
	t.Helper()

	raw, err := schema.DecodeJSON(body)
	if err != nil {
		t.Errorf("apitest: body is not JSON: %v\n%s", err, body)
		return false
	}
	res := schema.Validate(s, raw)
	if !res.OK() {
		t.Errorf("apitest: body does not match schema: %v\n%s", res.Err(), body)
		return false
	}
	return true
}
