/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package domain defines the menu data model shared by storage, view logic and exporters.
package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Course is one of the fixed menu categories. The zero value is not a valid course.
type Course uint8

const (
	Starter Course = iota + 1
	Main
	Dessert
)

// ErrUnknownCourse is returned when a course name is not one of Starter, Main, Dessert.
var ErrUnknownCourse = errors.New("unknown course")

// Courses returns all courses in menu order.
func Courses() []Course { return []Course{Starter, Main, Dessert} }

// Valid reports whether c is one of the enumerated courses.
func (c Course) Valid() bool { return c >= Starter && c <= Dessert }

func (c Course) String() string {
	switch c {
	case Starter:
		return "Starter"
	case Main:
		return "Main"
	case Dessert:
		return "Dessert"
	default:
		return fmt.Sprintf("Course(%d)", uint8(c))
	}
}

// Icon names the glyph shown next to a course badge.
func (c Course) Icon() string {
	switch c {
	case Starter:
		return "restaurant-outline"
	case Main:
		return "restaurant"
	case Dessert:
		return "ice-cream-outline"
	default:
		panic(fmt.Sprintf("domain: icon for invalid %v", c))
	}
}

// ParseCourse accepts a course name, case-insensitively.
func ParseCourse(s string) (Course, error) {
	for _, c := range Courses() {
		if strings.EqualFold(strings.TrimSpace(s), c.String()) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCourse, s)
}

// MarshalText encodes the course by name, so stored payloads read "Starter", "Main", "Dessert".
func (c Course) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCourse, uint8(c))
	}
	return []byte(c.String()), nil
}

func (c *Course) UnmarshalText(b []byte) error {
	v, err := ParseCourse(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// MenuItem is a dish on the menu. Items are created once and never modified.
// Price is kept as entered text; parsing happens where a number is needed.
type MenuItem struct {
	ID          string    `json:"id"`
	DishName    string    `json:"dishName"`
	Course      Course    `json:"course"`
	Description string    `json:"description"`
	Price       string    `json:"price"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Draft is a menu item before an id and creation time are assigned.
type Draft struct {
	DishName    string
	Course      Course
	Description string
	Price       string
}

// Item builds the stored item from the draft.
func (d Draft) Item(id string, createdAt time.Time) MenuItem {
	return MenuItem{
		ID:          id,
		DishName:    d.DishName,
		Course:      d.Course,
		Description: d.Description,
		Price:       d.Price,
		CreatedAt:   createdAt,
	}
}
