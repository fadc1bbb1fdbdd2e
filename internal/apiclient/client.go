// Package apiclient talks to the remote portfolio REST API. Every call is a
// fresh round trip: no retries, no caching and no client-side timeout.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// StatusError is returned for any non-2xx response. The response body is not
// inspected.
type StatusError struct {
	Code int
	Text string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%d %s", e.Code, e.Text)
}

// ValidationError is returned when a decoded record is missing required fields.
type ValidationError struct {
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid response from %s: %v", e.Path, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

type Client struct {
	base     string
	client   *http.Client
	validate *validator.Validate
}

func New(base string) *Client {
	return &Client{
		base:     strings.TrimRight(base, "/"),
		client:   &http.Client{},
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Base returns the API base URL without a trailing slash.
func (c *Client) Base() string {
	return c.base
}

// Get fetches path and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path, token string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, token, out)
}

// Send issues method against path with body serialized as JSON when non-nil,
// decoding the response into out when out is non-nil and the body is not empty.
func (c *Client) Send(ctx context.Context, path, method string, body any, token string, out any) error {
	return c.do(ctx, method, path, body, token, out)
}

func (c *Client) do(ctx context.Context, method, path string, body any, token string, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call api: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, Text: http.StatusText(resp.StatusCode)}
	}

	if out == nil {
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	data = bytes.TrimSpace(data)
	if wantsList(out) {
		// null decodes into a nil slice without error, so check for an array.
		if len(data) == 0 || data[0] != '[' {
			return fmt.Errorf("failed to decode response from %s: expected a JSON array", path)
		}
	} else if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if err := c.check(out); err != nil {
		return &ValidationError{Path: path, Err: err}
	}
	return nil
}

// check validates a decoded struct or every struct element of a decoded slice.
func (c *Client) check(out any) error {
	v := reflect.ValueOf(out)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Struct:
		return c.validate.Struct(v.Interface())
	case reflect.Slice:
		for i := 0; i < v.Len(); i++ {
			if err := c.check(v.Index(i).Addr().Interface()); err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}
		}
	}
	return nil
}

// wantsList reports whether out points at a slice.
func wantsList(out any) bool {
	t := reflect.TypeOf(out)
	return t != nil && t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Slice
}

// StatusCode returns the HTTP status carried by err, or 0 when err is not a
// StatusError.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return 0
}
