// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/churchnav/internal/testutil"
)

type fakePreloader struct {
	calls atomic.Int32
	err   error
}

func (f *fakePreloader) Preload(context.Context) (int, error) {
	f.calls.Add(1)
	return 4, f.err
}

type fakePruner struct {
	olderThan time.Duration
}

func (f *fakePruner) DeleteOldEvents(_ context.Context, olderThan time.Duration) (int64, error) {
	f.olderThan = olderThan
	return 3, nil
}

func TestScheduler_StartStop(t *testing.T) {
	s := New(testutil.DiscardLogger(), 0)
	require.NoError(t, s.Add(JobWarmCache, "warm", "@every 1h", func(context.Context) error { return nil }))

	s.Start()
	s.Stop()
}

func TestScheduler_AddRejects(t *testing.T) {
	s := New(testutil.DiscardLogger(), time.Second)
	noop := func(context.Context) error { return nil }

	require.NoError(t, s.Add("a", "", "*/5 * * * *", noop))
	assert.Error(t, s.Add("a", "", "*/5 * * * *", noop), "duplicate names are rejected")
	assert.Error(t, s.Add("b", "", "not a schedule", noop))
}

func TestScheduler_ListAndTrigger(t *testing.T) {
	s := New(testutil.DiscardLogger(), time.Second)
	menus := &fakePreloader{}
	pruner := &fakePruner{}

	require.NoError(t, s.Add(JobWarmCache, "Preload menu trees", "@every 15m", WarmCache(menus, testutil.DiscardLogger())))
	require.NoError(t, s.Add(JobPruneEvents, "Delete old events", "", PruneEvents(pruner, 48*time.Hour, testutil.DiscardLogger())))

	jobs := s.List()
	require.Len(t, jobs, 2)
	assert.Equal(t, JobPruneEvents, jobs[0].Name)
	assert.Equal(t, JobWarmCache, jobs[1].Name)
	assert.Equal(t, "@every 15m", jobs[1].Schedule)

	require.NoError(t, s.TriggerNow(JobWarmCache))
	assert.EqualValues(t, 1, menus.calls.Load())

	require.NoError(t, s.TriggerNow(JobPruneEvents))
	assert.Equal(t, 48*time.Hour, pruner.olderThan)

	assert.Error(t, s.TriggerNow("missing"))
}

func TestScheduler_FailedJobIsLogged(t *testing.T) {
	s := New(testutil.DiscardLogger(), time.Second)
	menus := &fakePreloader{err: errors.New("db down")}

	require.NoError(t, s.Add(JobWarmCache, "", "", WarmCache(menus, testutil.DiscardLogger())))
	require.NoError(t, s.TriggerNow(JobWarmCache))
	assert.EqualValues(t, 1, menus.calls.Load())
}
