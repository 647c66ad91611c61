/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package screen

import (
	"context"
	"fmt"
	"log/slog"

	"chefmenu/internal/domain"
	"chefmenu/internal/menu"
)

// Home backs the overview screen.
type Home struct {
	repo  Repository
	items []domain.MenuItem
}

func NewHome(repo Repository) *Home { return &Home{repo: repo} }

func (h *Home) Focus(ctx context.Context) { h.items = h.repo.GetAllMenuItems(ctx) }

func (h *Home) Summary() menu.Summary { return menu.Summarize(h.items) }

// Filter backs the browse-by-course screen.
type Filter struct {
	repo   Repository
	filter menu.Filter
	items  []domain.MenuItem
}

// NewFilter preselects the course named by query, e.g. a route parameter.
// An unknown name falls back to all courses.
func NewFilter(repo Repository, query string) *Filter {
	f, err := menu.ParseFilter(query)
	if err != nil {
		logger().Warn("ignoring course preselection", slog.String("query", query), slog.Any("err", err))
	}
	return &Filter{repo: repo, filter: f}
}

func (f *Filter) Focus(ctx context.Context) { f.items = f.repo.GetAllMenuItems(ctx) }

func (f *Filter) Select(filter menu.Filter) { f.filter = filter }

func (f *Filter) Selected() menu.Filter { return f.filter }

// Visible returns the loaded items passing the current filter.
func (f *Filter) Visible() []domain.MenuItem { return menu.FilterByCourse(f.items, f.filter) }

func (f *Filter) Count() int { return len(f.Visible()) }

// Choose backs the multi-select screen.
type Choose struct {
	repo  Repository
	note  Notifier
	items []domain.MenuItem
	sel   menu.Selection
}

func NewChoose(repo Repository, note Notifier) *Choose { return &Choose{repo: repo, note: note} }

// Focus reloads the collection and forgets selected ids that no longer exist.
func (c *Choose) Focus(ctx context.Context) {
	c.items = c.repo.GetAllMenuItems(ctx)
	c.sel.Retain(c.items)
}

func (c *Choose) Items() []domain.MenuItem { return c.items }

func (c *Choose) Toggle(id string) bool { return c.sel.Toggle(id) }

func (c *Choose) IsSelected(id string) bool { return c.sel.Contains(id) }

func (c *Choose) Clear() { c.sel.Clear() }

// Selected returns the selected items in collection order.
func (c *Choose) Selected() []domain.MenuItem { return c.sel.Pick(c.items) }

// Confirm returns the selected items and clears the selection.
// With nothing selected it notifies and returns nil.
func (c *Choose) Confirm() []domain.MenuItem {
	picked := c.Selected()
	if len(picked) == 0 {
		c.note.Error("Nothing selected", "Select at least one dish.")
		return nil
	}
	c.note.Success("Selection confirmed", fmt.Sprintf("%d dish(es) selected.", len(picked)))
	c.sel.Clear()
	return picked
}

// Manage backs the dish management screen.
type Manage struct {
	repo    Repository
	note    Notifier
	confirm Confirmer
	items   []domain.MenuItem
}

func NewManage(repo Repository, note Notifier, confirm Confirmer) *Manage {
	return &Manage{repo: repo, note: note, confirm: confirm}
}

func (m *Manage) Focus(ctx context.Context) { m.items = m.repo.GetAllMenuItems(ctx) }

func (m *Manage) Items() []domain.MenuItem { return m.items }

// Averages returns the per-course statistics of the loaded items.
func (m *Manage) Averages() []menu.CourseStats { return menu.Summarize(m.items).Courses }

// RequestDelete asks for confirmation and deletes the item on approval.
// The list is reloaded after the attempt either way.
func (m *Manage) RequestDelete(ctx context.Context, id string) {
	name := id
	for _, it := range m.items {
		if it.ID == id {
			name = it.DishName
			break
		}
	}
	m.confirm.Confirm("Delete dish", fmt.Sprintf("Delete %q from the menu?", name), func(ok bool) {
		if !ok {
			return
		}
		if err := m.repo.DeleteMenuItem(ctx, id); err != nil {
			logger().Error("delete failed", slog.String("screen", "manage"), slog.String("id", id), slog.Any("err", err))
			m.note.Error("Could not delete dish", "Deleting failed. Please try again.")
		} else {
			m.note.Success("Dish deleted", fmt.Sprintf("%s was removed.", name))
		}
		m.Focus(ctx)
	})
}
