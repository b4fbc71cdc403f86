// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package editor_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/churchnav/internal/cache"
	"github.com/olegiv/churchnav/internal/client"
	"github.com/olegiv/churchnav/internal/editor"
	"github.com/olegiv/churchnav/internal/model"
	"github.com/olegiv/churchnav/internal/service"
	"github.com/olegiv/churchnav/internal/testutil"
)

var (
	_ editor.Repository = (*service.MenuService)(nil)
	_ editor.Repository = (*client.Client)(nil)
)

func TestSessionAgainstService(t *testing.T) {
	st := testutil.TestStore(t)
	backend := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Minute})
	t.Cleanup(func() { _ = backend.Close() })

	menus := service.NewMenuService(st, backend, service.MenuOptions{})
	ctx := context.Background()
	seeded, err := menus.EnsureMenus(ctx, "grace")
	require.NoError(t, err)
	header := seeded[0]

	s := editor.NewSession(menus, header.ID, editor.Options{Logger: testutil.DiscardLogger()})
	defer s.Close()
	require.NoError(t, s.Load(ctx))

	for _, label := range []string{"Visit", "Ministries", "Give"} {
		require.NoError(t, s.BeginAdd(""))
		require.NoError(t, s.UpdateDraft(func(item *model.MenuItem) { item.Label = label }))
		require.NoError(t, s.Save(ctx))
	}
	ministries := s.Snapshot().Menu.Items[1]

	require.NoError(t, s.BeginAdd(ministries.ID))
	require.NoError(t, s.UpdateDraft(func(item *model.MenuItem) {
		item.Label = "Youth"
		item.GroupLabel = model.StringPtr("Quick Links")
	}))
	require.NoError(t, s.Save(ctx))

	require.NoError(t, s.MoveTo(ctx, ministries.ID, 0))
	local := s.Snapshot().Menu

	stored, err := menus.GetMenu(ctx, header.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 3)
	assert.Equal(t, local.TopLevelIDs(), stored.TopLevelIDs())
	assert.Equal(t, "Ministries", stored.Items[0].Label)
	require.Len(t, stored.Items[0].Children, 1)
	youth := stored.Items[0].Children[0]
	assert.Equal(t, "Youth", youth.Label)

	require.NoError(t, s.ToggleVisibility(ctx, youth.ID))
	stored, err = menus.GetMenu(ctx, header.ID)
	require.NoError(t, err)
	assert.False(t, stored.Items[0].Children[0].IsVisible)

	require.NoError(t, s.RequestDelete(ministries.ID))
	require.NoError(t, s.ConfirmDelete(ctx))
	stored, err = menus.GetMenu(ctx, header.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Visit", "Give"}, []string{stored.Items[0].Label, stored.Items[1].Label})
	assert.Len(t, stored.Items, 2)
}
