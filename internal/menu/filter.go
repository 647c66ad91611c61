/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package menu holds the derived-view logic of the menu screens: course filters,
// multi-selection, price aggregates and form validation. Nothing here is persisted.
package menu

import (
	"strings"

	"chefmenu/internal/domain"
)

// Filter selects either every course or exactly one.
type Filter struct {
	course domain.Course
}

// AllCourses matches every item.
var AllCourses = Filter{}

const allName = "All"

// OnlyCourse matches items of c.
func OnlyCourse(c domain.Course) Filter { return Filter{course: c} }

// ParseFilter accepts "All" or a course name. The empty string means All.
func ParseFilter(s string) (Filter, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, allName) {
		return AllCourses, nil
	}
	c, err := domain.ParseCourse(s)
	if err != nil {
		return AllCourses, err
	}
	return OnlyCourse(c), nil
}

// Course returns the selected course; ok is false for AllCourses.
func (f Filter) Course() (c domain.Course, ok bool) { return f.course, f.course.Valid() }

// Match reports whether it passes the filter.
func (f Filter) Match(it domain.MenuItem) bool {
	return !f.course.Valid() || it.Course == f.course
}

func (f Filter) String() string {
	if c, ok := f.Course(); ok {
		return c.String()
	}
	return allName
}

// Filters lists the filter choices in display order: All first, then each course.
func Filters() []Filter {
	out := []Filter{AllCourses}
	for _, c := range domain.Courses() {
		out = append(out, OnlyCourse(c))
	}
	return out
}

// FilterByCourse returns the items matching f, preserving order.
func FilterByCourse(items []domain.MenuItem, f Filter) []domain.MenuItem {
	out := make([]domain.MenuItem, 0, len(items))
	for _, it := range items {
		if f.Match(it) {
			out = append(out, it)
		}
	}
	return out
}
