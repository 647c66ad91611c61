/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package menu

import "chefmenu/internal/domain"

// Selection is a set of item ids picked on the choose screen. The zero value is empty and ready to use.
type Selection struct {
	ids map[string]struct{}
}

// Toggle removes id if selected, otherwise adds it. It reports whether id is selected afterwards.
func (s *Selection) Toggle(id string) bool {
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return false
	}
	if s.ids == nil {
		s.ids = make(map[string]struct{})
	}
	s.ids[id] = struct{}{}
	return true
}

func (s *Selection) Contains(id string) bool {
	_, ok := s.ids[id]
	return ok
}

func (s *Selection) Len() int { return len(s.ids) }

func (s *Selection) Clear() { s.ids = nil }

// Pick returns the selected items in the order they appear in items.
// Ids that no longer exist in items are ignored.
func (s *Selection) Pick(items []domain.MenuItem) []domain.MenuItem {
	out := make([]domain.MenuItem, 0, len(s.ids))
	for _, it := range items {
		if s.Contains(it.ID) {
			out = append(out, it)
		}
	}
	return out
}

// Retain drops selected ids that are not in items, e.g. after another screen deleted them.
func (s *Selection) Retain(items []domain.MenuItem) {
	if len(s.ids) == 0 {
		return
	}
	present := make(map[string]struct{}, len(items))
	for _, it := range items {
		present[it.ID] = struct{}{}
	}
	for id := range s.ids {
		if _, ok := present[id]; !ok {
			delete(s.ids, id)
		}
	}
}
