/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"chefmenu/internal/domain"
	"chefmenu/internal/kv"
	applog "chefmenu/internal/log"
)

// DefaultKey is the storage key holding the menu collection.
const DefaultKey = "menu_items"

// ErrInvalidDraft is returned by SaveMenuItem for drafts that break the item invariants.
var ErrInvalidDraft = errors.New("invalid menu item draft")

// Service is the persistence service for the menu collection.
type Service struct {
	store kv.Store
	key   string
	now   func() time.Time
	newID func() (string, error)
	log   *slog.Logger
	queue *writer
}

// Option configures a Service.
type Option func(*Service)

// WithKey stores the collection under key instead of DefaultKey.
func WithKey(key string) Option { return func(s *Service) { s.key = key } }

// WithClock sets the source of creation timestamps.
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// WithIDGenerator replaces the UUIDv7 id generator.
func WithIDGenerator(f func() (string, error)) Option { return func(s *Service) { s.newID = f } }

// WithLogger sets the logger; defaults to the "storage" component logger.
func WithLogger(l *slog.Logger) Option { return func(s *Service) { s.log = l } }

// WithSerializedWrites routes every write through a single goroutine so concurrent
// saves and deletes cannot overwrite each other. Call Close to stop it.
func WithSerializedWrites() Option { return func(s *Service) { s.queue = newWriter() } }

// New returns a Service persisting into store.
func New(store kv.Store, opts ...Option) *Service {
	s := &Service{store: store, key: DefaultKey, now: time.Now, newID: newUUIDv7}
	for _, o := range opts {
		o(s)
	}
	if s.log == nil {
		s.log = applog.WithComponent("storage")
	}
	s.log = s.log.With(slog.String("key", s.key))
	return s
}

// Close stops the serialized writer, if any. Further writes then fail with ErrClosed.
func (s *Service) Close() error {
	if s.queue != nil {
		s.queue.close()
	}
	return nil
}

// Key returns the storage key of the collection.
func (s *Service) Key() string { return s.key }

func newUUIDv7() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// SaveMenuItem appends a new item built from d and returns it.
// The id and creation time are assigned here.
func (s *Service) SaveMenuItem(ctx context.Context, d domain.Draft) (domain.MenuItem, error) {
	l := applog.WithOperation(s.log, "save")
	if strings.TrimSpace(d.DishName) == "" || !d.Course.Valid() || strings.TrimSpace(d.Price) == "" {
		return domain.MenuItem{}, fmt.Errorf("%w: dish name, course and price are required", ErrInvalidDraft)
	}
	var created domain.MenuItem
	err := s.write(ctx, func(items []domain.MenuItem) ([]domain.MenuItem, bool, error) {
		id, err := s.uniqueID(items)
		if err != nil {
			return nil, false, err
		}
		created = d.Item(id, s.now().UTC().Truncate(time.Millisecond))
		return append(items, created), true, nil
	})
	if err != nil {
		l.Error("save failed", slog.Any("err", err))
		return domain.MenuItem{}, fmt.Errorf("save menu item: %w", err)
	}
	l.Info("menu item saved", slog.String("id", created.ID), slog.String("course", created.Course.String()))
	return created, nil
}

// GetAllMenuItems returns the stored collection in insertion order.
// Read and decode failures are logged and yield an empty collection.
func (s *Service) GetAllMenuItems(ctx context.Context) []domain.MenuItem {
	items, _, err := s.load(ctx)
	if err != nil {
		applog.WithOperation(s.log, "get_all").Warn("reading collection failed; treating as empty", slog.Any("err", err))
		return []domain.MenuItem{}
	}
	return items
}

// GetMenuItemsByCourse returns the stored items of course c, in insertion order.
func (s *Service) GetMenuItemsByCourse(ctx context.Context, c domain.Course) []domain.MenuItem {
	all := s.GetAllMenuItems(ctx)
	out := make([]domain.MenuItem, 0, len(all))
	for _, it := range all {
		if it.Course == c {
			out = append(out, it)
		}
	}
	return out
}

// DeleteMenuItem removes the item with id. Deleting an unknown id changes nothing.
func (s *Service) DeleteMenuItem(ctx context.Context, id string) error {
	l := applog.WithOperation(s.log, "delete").With(slog.String("id", id))
	removed := 0
	err := s.write(ctx, func(items []domain.MenuItem) ([]domain.MenuItem, bool, error) {
		kept := items[:0:0]
		for _, it := range items {
			if it.ID == id {
				removed++
				continue
			}
			kept = append(kept, it)
		}
		return kept, removed > 0, nil
	})
	if err != nil {
		l.Error("delete failed", slog.Any("err", err))
		return fmt.Errorf("delete menu item %s: %w", id, err)
	}
	if removed == 0 {
		l.Debug("nothing to delete")
		return nil
	}
	l.Info("menu item deleted")
	return nil
}

// ClearAllItems removes the storage key.
func (s *Service) ClearAllItems(ctx context.Context) error {
	err := s.serialize(ctx, func() error { return s.store.Remove(ctx, s.key) })
	if err != nil {
		applog.WithOperation(s.log, "clear").Error("clear failed", slog.Any("err", err))
		return fmt.Errorf("clear menu items: %w", err)
	}
	applog.WithOperation(s.log, "clear").Info("collection cleared")
	return nil
}

// load reads and decodes the collection. raw is the stored payload, if any.
func (s *Service) load(ctx context.Context) (items []domain.MenuItem, raw string, err error) {
	raw, ok, err := s.store.Get(ctx, s.key)
	if err != nil {
		return nil, "", fmt.Errorf("read collection: %w", err)
	}
	if !ok {
		return []domain.MenuItem{}, "", nil
	}
	items, err = decodeCollection(raw)
	if err != nil {
		return nil, raw, err
	}
	return items, raw, nil
}

// mutation returns the new collection and whether it differs from the input.
type mutation func(items []domain.MenuItem) ([]domain.MenuItem, bool, error)

// write performs one read-modify-write of the whole collection.
func (s *Service) write(ctx context.Context, m mutation) error {
	return s.serialize(ctx, func() error {
		items, raw, err := s.load(ctx)
		var de *DecodeError
		corrupt := errors.As(err, &de)
		switch {
		case corrupt:
			items = []domain.MenuItem{}
		case err != nil:
			return err
		}
		next, changed, err := m(items)
		if err != nil || !changed {
			return err
		}
		payload, err := encodeCollection(next)
		if err != nil {
			return err
		}
		if corrupt {
			if err := s.quarantine(ctx, raw, de); err != nil {
				return err
			}
		}
		if err := s.store.Set(ctx, s.key, payload); err != nil {
			return fmt.Errorf("write collection: %w", err)
		}
		return nil
	})
}

// quarantine keeps an undecodable payload under a side key before it is overwritten.
// The caller must not overwrite the payload when this fails.
func (s *Service) quarantine(ctx context.Context, raw string, cause error) error {
	side := fmt.Sprintf("%s.corrupt-%s", s.key, s.now().UTC().Format("20060102-150405"))
	l := applog.WithOperation(s.log, "quarantine").With(slog.String("side_key", side))
	if err := s.store.Set(ctx, side, raw); err != nil {
		l.Error("could not keep corrupt payload", slog.Any("err", err), slog.Any("cause", cause))
		return fmt.Errorf("keep corrupt collection: %w", err)
	}
	l.Warn("corrupt collection moved aside", slog.Any("cause", cause))
	return nil
}

func (s *Service) serialize(ctx context.Context, fn func() error) error {
	if s.queue == nil {
		return fn()
	}
	return s.queue.do(ctx, fn)
}

// uniqueID draws ids until one is not already taken.
func (s *Service) uniqueID(items []domain.MenuItem) (string, error) {
	taken := make(map[string]struct{}, len(items))
	for _, it := range items {
		taken[it.ID] = struct{}{}
	}
	for range 5 {
		id, err := s.newID()
		if err != nil {
			return "", fmt.Errorf("generate id: %w", err)
		}
		if _, dup := taken[id]; !dup && id != "" {
			return id, nil
		}
	}
	return "", errors.New("generate id: no unique id after 5 attempts")
}
