// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/churchnav/internal/cache"
	"github.com/olegiv/churchnav/internal/handler"
	"github.com/olegiv/churchnav/internal/model"
	"github.com/olegiv/churchnav/internal/render"
	"github.com/olegiv/churchnav/internal/service"
	"github.com/olegiv/churchnav/internal/testutil"
	"github.com/olegiv/churchnav/web"
)

func newTestClient(t *testing.T) (*Client, model.Menu) {
	t.Helper()

	st := testutil.TestStore(t)
	backend := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Minute})
	t.Cleanup(func() { _ = backend.Close() })

	menus := service.NewMenuService(st, backend, service.MenuOptions{})
	seeded, err := menus.EnsureMenus(context.Background(), "grace")
	require.NoError(t, err)

	renderer, err := render.New(render.Config{TemplatesFS: web.Templates})
	require.NoError(t, err)

	srv := httptest.NewServer(handler.NewRouter(handler.RouterConfig{
		Menus:          menus,
		Events:         service.NewEventService(st.Queries),
		Renderer:       renderer,
		DB:             st,
		Cache:          backend,
		RequestTimeout: 5 * time.Second,
	}))
	t.Cleanup(srv.Close)

	c, err := New(srv.URL+"/", srv.Client())
	require.NoError(t, err)
	return c, seeded[0]
}

func TestNew(t *testing.T) {
	_, err := New("ftp://example.org", nil)
	assert.Error(t, err)

	c, err := New("https://menus.example.org/", nil)
	require.NoError(t, err)
	assert.Equal(t, "https://menus.example.org", c.baseURL)
	assert.Equal(t, DefaultTimeout, c.http.Timeout)
}

func TestClientRoundTrip(t *testing.T) {
	c, header := newTestClient(t)
	ctx := context.Background()

	menus, err := c.ListMenus(ctx, "grace")
	require.NoError(t, err)
	assert.Len(t, menus, 4)

	href := "/about"
	about, err := c.CreateItem(ctx, header.ID, model.ItemInput{Label: "About", Href: &href})
	require.NoError(t, err)
	give, err := c.CreateItem(ctx, header.ID, model.ItemInput{Label: "Give"})
	require.NoError(t, err)
	group := "Quick Links"
	_, err = c.CreateItem(ctx, header.ID, model.ItemInput{Label: "Staff", ParentID: &about.ID, GroupLabel: &group})
	require.NoError(t, err)

	updated, err := c.UpdateItem(ctx, header.ID, about.ID, model.ItemPatch{
		Label: model.Some("About Us"),
		Href:  model.Null[string](),
	})
	require.NoError(t, err)
	assert.Equal(t, "About Us", updated.Label)
	assert.Nil(t, updated.Href)

	menu, err := c.Reorder(ctx, header.ID, []string{give.ID, about.ID})
	require.NoError(t, err)
	require.Len(t, menu.Items, 2)
	assert.Equal(t, give.ID, menu.Items[0].ID)

	dropdown, err := c.Dropdown(ctx, header.ID, about.ID)
	require.NoError(t, err)
	require.Len(t, dropdown.Sections, 1)
	assert.Equal(t, "Quick Links", dropdown.Sections[0].Title)

	entries, err := c.Navigation(ctx, "grace", model.LocationHeader)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Give", entries[0].Label)

	html, err := c.NavigationHTML(ctx, "grace", model.LocationHeader)
	require.NoError(t, err)
	assert.Contains(t, html, "About Us")

	removed, err := c.DeleteItem(ctx, header.ID, about.ID)
	require.NoError(t, err)
	assert.Len(t, removed, 2)

	menu, err = c.GetMenu(ctx, header.ID)
	require.NoError(t, err)
	require.Len(t, menu.Items, 1)

	require.NoError(t, c.Ping(ctx))

	events, err := c.Events(ctx, model.EventLevelError, 5)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestClientErrors(t *testing.T) {
	c, header := newTestClient(t)
	ctx := context.Background()

	_, err := c.GetMenu(ctx, "3f1c0a52-9d7e-4b7a-a8a6-4c2e4f0d1b11")
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrNotFound))
	assert.True(t, IsAPIError(err))

	_, err = c.CreateItem(ctx, header.ID, model.ItemInput{})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Contains(t, apiErr.Details, "label")
	assert.True(t, errors.Is(err, model.ErrValidation))
	assert.False(t, apiErr.Retryable())

	_, err = c.CreateMenu(ctx, model.MenuInput{ChurchID: "grace", Name: "Second Header", Location: model.LocationHeader})
	assert.True(t, errors.Is(err, model.ErrConflict))

	_, err = c.NavigationHTML(ctx, "nobody", model.LocationFooter)
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

func TestDecodeErrorPlainBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}))
	defer srv.Close()

	c, err := New(srv.URL, srv.Client())
	require.NoError(t, err)

	_, err = c.ListMenus(context.Background(), "")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "upstream unavailable", apiErr.Message)
	assert.True(t, apiErr.Retryable())
	assert.Nil(t, apiErr.Unwrap())
}

func TestClientRespectsContext(t *testing.T) {
	c, header := newTestClient(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.GetMenu(ctx, header.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, IsAPIError(err))
}
