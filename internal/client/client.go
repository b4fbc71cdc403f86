// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package client talks to the menu API over HTTP. Client implements the
// editor repository, so an editing session can run against a remote
// service.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/olegiv/churchnav/internal/model"
	"github.com/olegiv/churchnav/internal/navigation"
)

// DefaultTimeout is used when no HTTP client is supplied.
const DefaultTimeout = 15 * time.Second

// maxErrorBody bounds how much of a non-JSON error body is kept.
const maxErrorBody = 512

// APIError is a failure reported by the API.
type APIError struct {
	StatusCode int
	Message    string
	Details    map[string]string
}

func (e *APIError) Error() string {
	if len(e.Details) == 0 {
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error %d: %s %v", e.StatusCode, e.Message, e.Details)
}

// Unwrap maps the status code to the matching model error, so callers can
// test with errors.Is(err, model.ErrNotFound) and friends.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return model.ErrValidation
	case http.StatusNotFound:
		return model.ErrNotFound
	case http.StatusConflict:
		return model.ErrConflict
	default:
		return nil
	}
}

// Retryable reports whether repeating the request may succeed.
func (e *APIError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// IsAPIError reports whether err carries an APIError.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

// Client is an HTTP client for the menu API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the API at baseURL. A nil httpClient gets a
// client with DefaultTimeout.
func New(baseURL string, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q must be http or https", baseURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{baseURL: u.String(), http: httpClient}, nil
}

// ListMenus returns the menus of a church, or all menus when churchID is empty.
func (c *Client) ListMenus(ctx context.Context, churchID string) ([]model.Menu, error) {
	path := "/menus"
	if churchID != "" {
		path += "?churchId=" + url.QueryEscape(churchID)
	}
	return call[[]model.Menu](ctx, c, http.MethodGet, path, nil)
}

// CreateMenu creates a menu.
func (c *Client) CreateMenu(ctx context.Context, in model.MenuInput) (model.Menu, error) {
	return call[model.Menu](ctx, c, http.MethodPost, "/menus", in)
}

// GetMenu returns a menu with its full item tree.
func (c *Client) GetMenu(ctx context.Context, menuID string) (model.Menu, error) {
	return call[model.Menu](ctx, c, http.MethodGet, itemsPath(menuID), nil)
}

// CreateItem adds an item to a menu.
func (c *Client) CreateItem(ctx context.Context, menuID string, in model.ItemInput) (model.MenuItem, error) {
	return call[model.MenuItem](ctx, c, http.MethodPost, itemsPath(menuID), in)
}

// UpdateItem applies a partial update.
func (c *Client) UpdateItem(ctx context.Context, menuID, itemID string, patch model.ItemPatch) (model.MenuItem, error) {
	return call[model.MenuItem](ctx, c, http.MethodPatch, itemPath(menuID, itemID), patch)
}

// DeleteItem removes an item and its children and returns the removed ids.
func (c *Client) DeleteItem(ctx context.Context, menuID, itemID string) ([]string, error) {
	res, err := call[struct {
		Removed []string `json:"removed"`
	}](ctx, c, http.MethodDelete, itemPath(menuID, itemID), nil)
	return res.Removed, err
}

// Reorder sets the order of the menu's top-level items.
func (c *Client) Reorder(ctx context.Context, menuID string, itemIDs []string) (model.Menu, error) {
	return call[model.Menu](ctx, c, http.MethodPut, itemsPath(menuID), model.ReorderRequest{ItemIDs: itemIDs})
}

// Dropdown returns the derived dropdown of a top-level item.
func (c *Client) Dropdown(ctx context.Context, menuID, itemID string) (navigation.DropdownData, error) {
	return call[navigation.DropdownData](ctx, c, http.MethodGet, itemPath(menuID, itemID)+"/dropdown", nil)
}

// Navigation returns the public navigation of a church's menu location.
func (c *Client) Navigation(ctx context.Context, churchID string, loc model.Location) ([]navigation.NavEntry, error) {
	res, err := call[struct {
		Entries []navigation.NavEntry `json:"entries"`
	}](ctx, c, http.MethodGet, publicPath(churchID, loc), nil)
	return res.Entries, err
}

// NavigationHTML returns the rendered HTML fragment of a menu location.
func (c *Client) NavigationHTML(ctx context.Context, churchID string, loc model.Location) (string, error) {
	resp, err := c.send(ctx, http.MethodGet, publicPath(churchID, loc)+"/html", nil)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", decodeError(resp)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	return string(b), nil
}

// Events returns recent warning and error events.
func (c *Client) Events(ctx context.Context, level string, limit int) ([]model.Event, error) {
	q := url.Values{}
	if level != "" {
		q.Set("level", level)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	path := "/events"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	return call[[]model.Event](ctx, c, http.MethodGet, path, nil)
}

// Ping checks that the service reports itself healthy.
func (c *Client) Ping(ctx context.Context) error {
	_, err := call[json.RawMessage](ctx, c, http.MethodGet, "/health", nil)
	return err
}

func itemsPath(menuID string) string {
	return "/menus/" + url.PathEscape(menuID) + "/items"
}

func itemPath(menuID, itemID string) string {
	return itemsPath(menuID) + "/" + url.PathEscape(itemID)
}

func publicPath(churchID string, loc model.Location) string {
	return "/public/churches/" + url.PathEscape(churchID) + "/menus/" + strings.ToLower(string(loc))
}

// call sends a request and unwraps the success envelope into T.
func call[T any](ctx context.Context, c *Client, method, path string, body any) (T, error) {
	var zero T

	resp, err := c.send(ctx, method, path, body)
	if err != nil {
		return zero, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return zero, decodeError(resp)
	}

	var env model.Envelope[T]
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return zero, fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	if !env.Success {
		return zero, &APIError{StatusCode: resp.StatusCode, Message: env.Error, Details: env.Details}
	}
	return env.Data, nil
}

func (c *Client) send(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}

// decodeError turns a failed response into an APIError. Bodies that are
// not envelopes are kept as the message.
func decodeError(resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var env model.Envelope[json.RawMessage]
	if err := json.Unmarshal(b, &env); err == nil && env.Error != "" {
		return &APIError{StatusCode: resp.StatusCode, Message: env.Error, Details: env.Details}
	}

	msg := strings.TrimSpace(string(b))
	if len(msg) > maxErrorBody {
		msg = msg[:maxErrorBody]
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}
