// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/olegiv/churchnav/internal/model"
	"github.com/olegiv/churchnav/internal/navigation"
)

// defaultQueueSize is the number of mutations that may wait for the worker.
const defaultQueueSize = 16

// Options tunes a Session.
type Options struct {
	Logger    *slog.Logger
	QueueSize int
}

// job is one repository call run by the session worker.
type job struct {
	ctx  context.Context
	run  func(ctx context.Context) error
	done chan error
}

// Session edits one menu. Local state changes happen immediately under the
// session lock; repository calls run one at a time on a worker goroutine,
// so mutations of a menu never interleave. Every local tree change bumps a
// generation counter and reloads started before a newer change are
// discarded.
//
// Create, update and delete wait for the repository before touching the
// tree. Visibility toggles and moves update the tree first; a failed
// toggle is reverted in place and a failed move re-fetches the canonical
// order.
type Session struct {
	repo   Repository
	menuID string
	logger *slog.Logger

	mu            sync.Mutex
	state         State
	menu          model.Menu
	draft         *Draft
	pendingDelete string
	lastErr       error
	gen           uint64

	queue     chan job
	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewSession starts a session for menuID. Call Load to fetch the tree and
// Close to stop the worker.
func NewSession(repo Repository, menuID string, opts Options) *Session {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = defaultQueueSize
	}
	s := &Session{
		repo:   repo,
		menuID: menuID,
		logger: opts.Logger.With("menu_id", menuID),
		menu:   model.Menu{ID: menuID},
		queue:  make(chan job, opts.QueueSize),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *Session) run() {
	defer close(s.done)
	for {
		select {
		case <-s.stop:
			return
		case j := <-s.queue:
			select {
			case <-s.stop:
				j.done <- ErrClosed
				return
			default:
			}
			j.done <- j.run(j.ctx)
		}
	}
}

// Close stops the worker and waits for it. Queued mutations that have not
// started fail with ErrClosed.
func (s *Session) Close() {
	s.closeOnce.Do(func() { close(s.stop) })
	<-s.done
}

// submit queues fn and waits for its result.
func (s *Session) submit(ctx context.Context, fn func(ctx context.Context) error) error {
	j := job{ctx: ctx, run: fn, done: make(chan error, 1)}
	select {
	case <-s.stop:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	case s.queue <- j:
	}
	select {
	case err := <-j.done:
		return err
	case <-s.done:
		select {
		case err := <-j.done:
			return err
		default:
			return ErrClosed
		}
	}
}

// Snapshot returns a copy of the session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		State:         s.state,
		Menu:          cloneMenu(s.menu),
		Draft:         cloneDraft(s.draft),
		PendingDelete: s.pendingDelete,
		LastError:     s.lastErr,
	}
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastError returns the error of the most recent failed operation, or nil
// when the latest operation succeeded.
func (s *Session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Load fetches the menu tree. A result that arrives after a newer local
// change is dropped.
func (s *Session) Load(ctx context.Context) error {
	return s.submit(ctx, func(ctx context.Context) error {
		s.mu.Lock()
		gen := s.gen
		s.mu.Unlock()

		menu, err := s.repo.GetMenu(ctx, s.menuID)

		s.mu.Lock()
		defer s.mu.Unlock()
		if err != nil {
			s.fail("loading menu failed", err)
			return err
		}
		s.lastErr = nil
		if gen != s.gen {
			s.logger.Debug("discarding stale menu load", "generation", gen, "current", s.gen)
			return nil
		}
		s.setMenu(menu)
		return nil
	})
}

// BeginAdd opens a draft for a new item. An empty parentID adds a
// top-level item; otherwise parentID must be a top-level item.
func (s *Session) BeginAdd(parentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.require(StateViewing, "add an item"); err != nil {
		return err
	}

	item := model.MenuItem{MenuID: s.menuID, IsVisible: true}
	if parentID != "" {
		parent, ok := s.menu.FindItem(parentID)
		if !ok {
			return s.fail("cannot add item", fmt.Errorf("menu item %s: %w", parentID, model.ErrNotFound))
		}
		if !parent.IsTopLevel() {
			return s.fail("cannot add item", fmt.Errorf("%w: item %s is already a child", model.ErrDepthExceeded, parentID))
		}
		item.ParentID = &parentID
	}

	s.draft = &Draft{Item: item}
	s.state = StateEditing
	s.lastErr = nil
	return nil
}

// BeginEdit opens a draft copy of an existing item.
func (s *Session) BeginEdit(itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.require(StateViewing, "edit an item"); err != nil {
		return err
	}
	item, ok := s.menu.FindItem(itemID)
	if !ok {
		return s.fail("cannot edit item", fmt.Errorf("menu item %s: %w", itemID, model.ErrNotFound))
	}

	s.draft = &Draft{Item: cloneItem(item), base: cloneItem(item)}
	s.state = StateEditing
	s.lastErr = nil
	return nil
}

// UpdateDraft applies fn to the draft item. Identity and placement fields
// are restored afterwards; moving an item between parents is not done
// through a draft.
func (s *Session) UpdateDraft(fn func(item *model.MenuItem)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.require(StateEditing, "update the draft"); err != nil {
		return err
	}
	d := s.draft
	id, menuID, parentID, order := d.Item.ID, d.Item.MenuID, d.Item.ParentID, d.Item.SortOrder
	fn(&d.Item)
	d.Item.ID, d.Item.MenuID, d.Item.ParentID, d.Item.SortOrder = id, menuID, parentID, order
	return nil
}

// Save validates the draft and creates or updates the item. On success the
// item is placed in the tree and the session returns to viewing. On
// failure the draft is kept, the session stays in editing and the tree is
// re-fetched.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	if err := s.require(StateEditing, "save"); err != nil {
		s.mu.Unlock()
		return err
	}
	draft := cloneDraft(s.draft)
	if err := model.ValidateLabel(draft.Item.Label); err != nil {
		s.fail("draft rejected", err)
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	return s.submit(ctx, func(ctx context.Context) error {
		var (
			saved model.MenuItem
			err   error
		)
		switch {
		case draft.IsNew():
			saved, err = s.repo.CreateItem(ctx, s.menuID, model.InputFromItem(draft.Item))
		default:
			patch := model.PatchFromItems(draft.base, draft.Item)
			if patch.IsEmpty() {
				saved = draft.Item
				break
			}
			saved, err = s.repo.UpdateItem(ctx, s.menuID, draft.base.ID, patch)
		}

		if err != nil {
			s.mu.Lock()
			s.fail("saving menu item failed", err)
			s.mu.Unlock()
			s.refetch(ctx)
			return err
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		s.menu.Items = navigation.UpsertItem(s.menu.Items, saved)
		s.gen++
		s.draft = nil
		s.state = StateViewing
		s.lastErr = nil
		return nil
	})
}

// Cancel discards the draft and returns to viewing.
func (s *Session) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.require(StateEditing, "cancel editing"); err != nil {
		return err
	}
	s.draft = nil
	s.state = StateViewing
	return nil
}

// RequestDelete asks for confirmation before deleting an item.
func (s *Session) RequestDelete(itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.require(StateViewing, "delete an item"); err != nil {
		return err
	}
	if _, ok := s.menu.FindItem(itemID); !ok {
		return s.fail("cannot delete item", fmt.Errorf("menu item %s: %w", itemID, model.ErrNotFound))
	}
	s.pendingDelete = itemID
	s.state = StateConfirmPending
	s.lastErr = nil
	return nil
}

// CancelDelete abandons a pending delete.
func (s *Session) CancelDelete() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.require(StateConfirmPending, "cancel a delete"); err != nil {
		return err
	}
	s.pendingDelete = ""
	s.state = StateViewing
	return nil
}

// ConfirmDelete deletes the pending item. The item and its children leave
// the tree once the repository confirms. Either way the session returns
// to viewing; a failure re-fetches the tree.
func (s *Session) ConfirmDelete(ctx context.Context) error {
	s.mu.Lock()
	if err := s.require(StateConfirmPending, "confirm a delete"); err != nil {
		s.mu.Unlock()
		return err
	}
	itemID := s.pendingDelete
	s.mu.Unlock()

	return s.submit(ctx, func(ctx context.Context) error {
		_, err := s.repo.DeleteItem(ctx, s.menuID, itemID)

		s.mu.Lock()
		s.pendingDelete = ""
		s.state = StateViewing
		if err != nil {
			s.fail("deleting menu item failed", err)
			s.mu.Unlock()
			s.refetch(ctx)
			return err
		}
		var removed []string
		s.menu.Items, removed = navigation.RemoveItem(s.menu.Items, itemID)
		s.gen++
		s.lastErr = nil
		s.mu.Unlock()

		s.logger.Debug("menu item deleted", "item_id", itemID, "removed", len(removed))
		return nil
	})
}

// ToggleVisibility flips an item's visibility. The tree changes at once;
// a failed update puts the old value back.
func (s *Session) ToggleVisibility(ctx context.Context, itemID string) error {
	s.mu.Lock()
	item, ok := s.menu.FindItem(itemID)
	if !ok {
		err := s.fail("cannot toggle visibility", fmt.Errorf("menu item %s: %w", itemID, model.ErrNotFound))
		s.mu.Unlock()
		return err
	}
	visible := !item.IsVisible
	s.menu.Items = navigation.SetVisibility(s.menu.Items, itemID, visible)
	s.gen++
	s.lastErr = nil
	s.mu.Unlock()

	return s.submit(ctx, func(ctx context.Context) error {
		_, err := s.repo.UpdateItem(ctx, s.menuID, itemID, model.ItemPatch{IsVisible: model.Some(visible)})
		if err != nil {
			s.mu.Lock()
			s.menu.Items = navigation.SetVisibility(s.menu.Items, itemID, !visible)
			s.gen++
			s.fail("toggling visibility failed", err)
			s.mu.Unlock()
			return err
		}
		return nil
	})
}

// MoveUp moves a top-level item one place up. The first item stays put
// and nothing is sent.
func (s *Session) MoveUp(ctx context.Context, itemID string) error {
	return s.move(ctx, itemID, navigation.MoveUp)
}

// MoveDown moves a top-level item one place down.
func (s *Session) MoveDown(ctx context.Context, itemID string) error {
	return s.move(ctx, itemID, navigation.MoveDown)
}

// MoveTo moves a top-level item to index, clamped to the list bounds.
func (s *Session) MoveTo(ctx context.Context, itemID string, index int) error {
	return s.move(ctx, itemID, func(ids []string, from int) ([]string, bool) {
		return navigation.Move(ids, from, index)
	})
}

func (s *Session) move(ctx context.Context, itemID string, reorder func(ids []string, from int) ([]string, bool)) error {
	s.mu.Lock()
	item, ok := s.menu.FindItem(itemID)
	if !ok {
		err := s.fail("cannot move item", fmt.Errorf("menu item %s: %w", itemID, model.ErrNotFound))
		s.mu.Unlock()
		return err
	}
	if !item.IsTopLevel() {
		err := s.fail("cannot move item", fmt.Errorf("%w: only top-level items can be reordered", model.ErrValidation))
		s.mu.Unlock()
		return err
	}
	before := s.menu.TopLevelIDs()
	after, changed := reorder(before, navigation.IndexOf(before, itemID))
	if !changed {
		s.mu.Unlock()
		return nil
	}
	tree, err := navigation.ApplyOrder(s.menu.Items, after)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.menu.Items = tree
	s.gen++
	gen := s.gen
	s.lastErr = nil
	s.mu.Unlock()

	return s.submit(ctx, func(ctx context.Context) error {
		menu, err := s.repo.Reorder(ctx, s.menuID, after)
		if err == nil {
			s.mu.Lock()
			if gen == s.gen {
				s.setMenu(menu)
			}
			s.mu.Unlock()
			return nil
		}

		s.mu.Lock()
		s.fail("reordering menu failed", err)
		s.mu.Unlock()

		if ferr := s.refetch(ctx); ferr != nil {
			s.mu.Lock()
			if gen == s.gen {
				if tree, rerr := navigation.ApplyOrder(s.menu.Items, before); rerr == nil {
					s.menu.Items = tree
					s.gen++
				}
			}
			s.mu.Unlock()
		}
		return err
	})
}

// refetch reloads the canonical tree after a failed mutation. It runs on
// the worker, so no other mutation can interleave with it.
func (s *Session) refetch(ctx context.Context) error {
	menu, err := s.repo.GetMenu(context.WithoutCancel(ctx), s.menuID)
	if err != nil {
		s.logger.Warn("re-fetching menu failed", "category", model.EventCategoryMenu, "error", err)
		return err
	}
	s.mu.Lock()
	s.setMenu(menu)
	s.gen++
	s.mu.Unlock()
	return nil
}

// setMenu replaces the tree. The caller holds mu.
func (s *Session) setMenu(menu model.Menu) {
	if menu.Items == nil {
		menu.Items = []model.TopLevelItem{}
	}
	s.menu = menu
}

// require checks the state. The caller holds mu.
func (s *Session) require(want State, op string) error {
	if s.state != want {
		return fmt.Errorf("%w: cannot %s while %s", ErrInvalidState, op, s.state)
	}
	return nil
}

// fail records and logs a failed operation and returns err. The caller
// holds mu.
func (s *Session) fail(msg string, err error) error {
	s.lastErr = err
	if errors.Is(err, model.ErrValidation) || errors.Is(err, model.ErrNotFound) || errors.Is(err, model.ErrDepthExceeded) {
		s.logger.Debug(msg, "error", err)
	} else {
		s.logger.Warn(msg, "category", model.EventCategoryMenu, "error", err)
	}
	return err
}
