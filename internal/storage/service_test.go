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
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"chefmenu/internal/domain"
	"chefmenu/internal/kv"
)

// flakyStore wraps a Store and fails the configured calls.
type flakyStore struct {
	kv.Store
	getErr, setErr, removeErr error
	sets                      int
}

func (f *flakyStore) Get(ctx context.Context, key string) (string, bool, error) {
	if f.getErr != nil {
		return "", false, f.getErr
	}
	return f.Store.Get(ctx, key)
}

func (f *flakyStore) Set(ctx context.Context, key, value string) error {
	f.sets++
	if f.setErr != nil {
		return f.setErr
	}
	return f.Store.Set(ctx, key, value)
}

func (f *flakyStore) Remove(ctx context.Context, key string) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	return f.Store.Remove(ctx, key)
}

func draft(name string, c domain.Course, price string) domain.Draft {
	return domain.Draft{DishName: name, Course: c, Price: price}
}

func mustSave(t *testing.T, s *Service, d domain.Draft) domain.MenuItem {
	t.Helper()
	it, err := s.SaveMenuItem(context.Background(), d)
	if err != nil {
		t.Fatalf("SaveMenuItem(%s): %v", d.DishName, err)
	}
	return it
}

func ids(items []domain.MenuItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestSaveThenGetAllPreservesInsertionOrder(t *testing.T) {
	s := New(kv.NewMemory())
	var want []string
	for i := 0; i < 10; i++ {
		c := domain.Courses()[i%3]
		want = append(want, mustSave(t, s, draft(fmt.Sprintf("dish %d", i), c, "1.00")).ID)
	}
	got := ids(s.GetAllMenuItems(context.Background()))
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("order mismatch:\n got %v\nwant %v", got, want)
	}
}

func TestIDsUniqueUnderImmediateSuccession(t *testing.T) {
	s := New(kv.NewMemory())
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		it := mustSave(t, s, draft("Soup", domain.Starter, "5"))
		if it.ID == "" || seen[it.ID] {
			t.Fatalf("duplicate or empty id %q at %d", it.ID, i)
		}
		seen[it.ID] = true
	}
}

func TestDuplicateGeneratedIDIsRedrawn(t *testing.T) {
	seq := []string{"a", "a", "b"}
	n := 0
	gen := func() (string, error) { id := seq[n]; n++; return id, nil }
	s := New(kv.NewMemory(), WithIDGenerator(gen))
	mustSave(t, s, draft("one", domain.Main, "1"))
	if it := mustSave(t, s, draft("two", domain.Main, "1")); it.ID != "b" {
		t.Fatalf("expected redrawn id b, got %q", it.ID)
	}
}

func TestGetMenuItemsByCourseMatchesFilteredGetAll(t *testing.T) {
	s := New(kv.NewMemory())
	ctx := context.Background()
	for i, c := range []domain.Course{domain.Main, domain.Starter, domain.Main, domain.Dessert, domain.Main, domain.Starter} {
		mustSave(t, s, draft(fmt.Sprintf("d%d", i), c, "2"))
	}
	all := s.GetAllMenuItems(ctx)
	for _, c := range domain.Courses() {
		var want []string
		for _, it := range all {
			if it.Course == c {
				want = append(want, it.ID)
			}
		}
		got := ids(s.GetMenuItemsByCourse(ctx, c))
		if strings.Join(got, ",") != strings.Join(want, ",") {
			t.Fatalf("%v: got %v want %v", c, got, want)
		}
	}
}

func TestDeleteMenuItem(t *testing.T) {
	store := &flakyStore{Store: kv.NewMemory()}
	s := New(store)
	ctx := context.Background()
	a := mustSave(t, s, draft("Cake", domain.Dessert, "4"))
	b := mustSave(t, s, draft("Cake", domain.Dessert, "4"))
	c := mustSave(t, s, draft("Soup", domain.Starter, "5"))

	setsBefore := store.sets
	if err := s.DeleteMenuItem(ctx, "does-not-exist"); err != nil {
		t.Fatalf("delete unknown id: %v", err)
	}
	if store.sets != setsBefore {
		t.Fatalf("deleting an unknown id must not rewrite the collection")
	}
	if got := ids(s.GetAllMenuItems(ctx)); len(got) != 3 {
		t.Fatalf("collection changed by no-op delete: %v", got)
	}

	if err := s.DeleteMenuItem(ctx, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got := ids(s.GetAllMenuItems(ctx))
	if strings.Join(got, ",") != b.ID+","+c.ID {
		t.Fatalf("after delete got %v, want [%s %s]", got, b.ID, c.ID)
	}
}

func TestClearAllItemsEmptiesStore(t *testing.T) {
	s := New(kv.NewMemory())
	ctx := context.Background()
	mustSave(t, s, draft("Soup", domain.Starter, "5"))
	if err := s.ClearAllItems(ctx); err != nil {
		t.Fatalf("ClearAllItems: %v", err)
	}
	if got := s.GetAllMenuItems(ctx); got == nil || len(got) != 0 {
		t.Fatalf("GetAllMenuItems after clear = %#v", got)
	}
	for _, c := range domain.Courses() {
		if got := s.GetMenuItemsByCourse(ctx, c); len(got) != 0 {
			t.Fatalf("GetMenuItemsByCourse(%v) after clear = %v", c, got)
		}
	}
}

func TestEndToEndAcrossBackends(t *testing.T) {
	backends := map[string]func(t *testing.T) kv.Store{
		"memory": func(t *testing.T) kv.Store { return kv.NewMemory() },
		"file": func(t *testing.T) kv.Store {
			fs, err := kv.OpenFileStore(t.TempDir())
			if err != nil {
				t.Fatalf("OpenFileStore: %v", err)
			}
			return fs
		},
		"sqlite": func(t *testing.T) kv.Store {
			db, err := kv.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "menu.sqlite"))
			if err != nil {
				t.Fatalf("OpenSQLite: %v", err)
			}
			t.Cleanup(func() { _ = db.Close() })
			return db
		},
	}
	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			s := New(open(t))
			ctx := context.Background()
			before := len(s.GetAllMenuItems(ctx))

			it, err := s.SaveMenuItem(ctx, domain.Draft{DishName: "Soup", Course: domain.Starter, Price: "5.00", Description: ""})
			if err != nil {
				t.Fatalf("save: %v", err)
			}
			if it.ID == "" || it.CreatedAt.IsZero() {
				t.Fatalf("new item lacks id or createdAt: %+v", it)
			}
			all := s.GetAllMenuItems(ctx)
			if len(all) != before+1 {
				t.Fatalf("len = %d, want %d", len(all), before+1)
			}
			last := all[len(all)-1]
			if last.ID != it.ID || last.DishName != "Soup" || last.Price != "5.00" || !last.CreatedAt.Equal(it.CreatedAt) {
				t.Fatalf("stored item %+v differs from returned %+v", all[len(all)-1], it)
			}
			found := false
			for _, x := range s.GetMenuItemsByCourse(ctx, domain.Starter) {
				found = found || x.ID == it.ID
			}
			if !found {
				t.Fatalf("Starter listing misses the new item")
			}
			if err := s.DeleteMenuItem(ctx, it.ID); err != nil {
				t.Fatalf("delete: %v", err)
			}
			for _, x := range s.GetAllMenuItems(ctx) {
				if x.ID == it.ID {
					t.Fatalf("item still present after delete")
				}
			}
		})
	}
}

func TestReadFailureYieldsEmptyCollection(t *testing.T) {
	s := New(&flakyStore{Store: kv.NewMemory(), getErr: errors.New("storage unavailable")})
	if got := s.GetAllMenuItems(context.Background()); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil collection, got %#v", got)
	}
	if _, err := s.SaveMenuItem(context.Background(), draft("Soup", domain.Starter, "5")); err == nil {
		t.Fatalf("save must fail when the collection cannot be read")
	}
}

func TestWriteFailurePropagatesAndKeepsCollection(t *testing.T) {
	store := &flakyStore{Store: kv.NewMemory()}
	s := New(store)
	ctx := context.Background()
	kept := mustSave(t, s, draft("Soup", domain.Starter, "5"))

	diskFull := errors.New("disk full")
	store.setErr = diskFull
	if _, err := s.SaveMenuItem(ctx, draft("Steak", domain.Main, "20")); !errors.Is(err, diskFull) {
		t.Fatalf("save err = %v, want disk full", err)
	}
	if err := s.DeleteMenuItem(ctx, kept.ID); !errors.Is(err, diskFull) {
		t.Fatalf("delete err = %v, want disk full", err)
	}
	store.setErr = nil
	store.removeErr = diskFull
	if err := s.ClearAllItems(ctx); !errors.Is(err, diskFull) {
		t.Fatalf("clear err = %v, want disk full", err)
	}
	if got := ids(s.GetAllMenuItems(ctx)); len(got) != 1 || got[0] != kept.ID {
		t.Fatalf("collection changed by failed writes: %v", got)
	}
}

func TestInvalidPayloadReadsAsEmpty(t *testing.T) {
	payloads := map[string]string{
		"not json":       "{ this is not json",
		"object":         `{"id":"1"}`,
		"unknown course": `[{"id":"1","dishName":"Cola","course":"Drink","price":"2","createdAt":"2025-01-01T00:00:00Z"}]`,
		"missing id":     `[{"dishName":"Soup","course":"Starter","price":"5","createdAt":"2025-01-01T00:00:00Z"}]`,
		"bad timestamp":  `[{"id":"1","dishName":"Soup","course":"Starter","price":"5","createdAt":"yesterday"}]`,
	}
	for name, raw := range payloads {
		t.Run(name, func(t *testing.T) {
			mem := kv.NewMemory()
			_ = mem.Set(context.Background(), DefaultKey, raw)
			if got := New(mem).GetAllMenuItems(context.Background()); len(got) != 0 {
				t.Fatalf("expected empty collection, got %v", got)
			}
		})
	}
}

func TestPayloadWrittenByMobileAppDecodes(t *testing.T) {
	raw := `[{"dishName":"Bruschetta","course":"Starter","description":"","price":"25,90","id":"1718000000000","createdAt":"2024-06-10T06:13:20.000Z"}]`
	mem := kv.NewMemory()
	_ = mem.Set(context.Background(), DefaultKey, raw)
	got := New(mem).GetAllMenuItems(context.Background())
	if len(got) != 1 || got[0].ID != "1718000000000" || got[0].Course != domain.Starter || got[0].Price != "25,90" {
		t.Fatalf("unexpected decode: %+v", got)
	}
}

func TestSaveOverCorruptPayloadKeepsItAside(t *testing.T) {
	mem := kv.NewMemory()
	ctx := context.Background()
	_ = mem.Set(ctx, DefaultKey, "garbage")
	at := time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC)
	s := New(mem, WithClock(func() time.Time { return at }))

	it := mustSave(t, s, draft("Soup", domain.Starter, "5"))
	if got := ids(s.GetAllMenuItems(ctx)); len(got) != 1 || got[0] != it.ID {
		t.Fatalf("collection after save = %v", got)
	}
	side, ok, _ := mem.Get(ctx, DefaultKey+".corrupt-20250203-040506")
	if !ok || side != "garbage" {
		t.Fatalf("corrupt payload not kept, got %q ok:%v", side, ok)
	}
	if !it.CreatedAt.Equal(at) {
		t.Fatalf("createdAt = %v, want %v", it.CreatedAt, at)
	}
}

// sideKeyFailing refuses writes to every key except the collection key.
type sideKeyFailing struct {
	kv.Store
}

func (s sideKeyFailing) Set(ctx context.Context, key, value string) error {
	if key != DefaultKey {
		return errors.New("quota exceeded")
	}
	return s.Store.Set(ctx, key, value)
}

func TestCorruptPayloadKeptWhenItCannotBeMovedAside(t *testing.T) {
	mem := kv.NewMemory()
	ctx := context.Background()
	_ = mem.Set(ctx, DefaultKey, "garbage")
	s := New(sideKeyFailing{Store: mem})

	if _, err := s.SaveMenuItem(ctx, draft("Soup", domain.Starter, "5")); err == nil {
		t.Fatalf("save must fail when the corrupt payload cannot be kept")
	}
	if raw, ok, _ := mem.Get(ctx, DefaultKey); !ok || raw != "garbage" {
		t.Fatalf("corrupt payload overwritten: %q ok:%v", raw, ok)
	}
}

func TestSaveRejectsInvalidDraft(t *testing.T) {
	store := &flakyStore{Store: kv.NewMemory()}
	s := New(store)
	for _, d := range []domain.Draft{draft("", domain.Main, "1"), draft("Soup", 0, "1"), draft("Soup", domain.Main, " ")} {
		if _, err := s.SaveMenuItem(context.Background(), d); !errors.Is(err, ErrInvalidDraft) {
			t.Fatalf("SaveMenuItem(%+v) err = %v", d, err)
		}
	}
	if store.sets != 0 {
		t.Fatalf("invalid drafts reached the store")
	}
}

func TestSerializedWritesKeepConcurrentSaves(t *testing.T) {
	fs, err := kv.OpenFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("OpenFileStore: %v", err)
	}
	fs.KeepBackups = 1
	s := New(fs, WithSerializedWrites(), WithKey("menu"))
	defer s.Close()

	const n = 40
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.SaveMenuItem(context.Background(), draft(fmt.Sprintf("dish %d", i), domain.Main, "3"))
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent save: %v", err)
		}
	}
	if got := len(s.GetAllMenuItems(context.Background())); got != n {
		t.Fatalf("expected %d items, got %d (lost updates)", n, got)
	}
}

func TestClosedServiceRejectsWrites(t *testing.T) {
	s := New(kv.NewMemory(), WithSerializedWrites())
	_ = s.Close()
	if _, err := s.SaveMenuItem(context.Background(), draft("Soup", domain.Starter, "5")); !errors.Is(err, ErrClosed) {
		t.Fatalf("save after close err = %v, want ErrClosed", err)
	}
}
