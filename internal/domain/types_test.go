package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestMenuItemWireFieldNames(t *testing.T) {
	it := Draft{DishName: "Soup", Course: Starter, Price: "5.00"}.
		Item("id-1", time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))

	b, err := json.Marshal(it)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := map[string]any{
		"id": "id-1", "dishName": "Soup", "course": "Starter",
		"description": "", "price": "5.00", "createdAt": "2025-03-01T12:00:00Z",
	}
	if len(m) != len(want) {
		t.Fatalf("unexpected field set: %v", m)
	}
	for k, v := range want {
		if m[k] != v {
			t.Fatalf("%s = %v, want %v", k, m[k], v)
		}
	}
}

func TestUnmarshalRejectsUnknownCourse(t *testing.T) {
	var it MenuItem
	err := json.Unmarshal([]byte(`{"id":"1","dishName":"Cola","course":"Drink","price":"2"}`), &it)
	if !errors.Is(err, ErrUnknownCourse) {
		t.Fatalf("expected ErrUnknownCourse, got %v", err)
	}
}

func TestParseCourse(t *testing.T) {
	for _, c := range Courses() {
		got, err := ParseCourse(strings.ToLower(c.String()))
		if err != nil || got != c {
			t.Fatalf("ParseCourse(%q) = %v, %v", c.String(), got, err)
		}
	}
	if _, err := ParseCourse("All"); err == nil {
		t.Fatalf("expected error for All")
	}
}

func TestZeroCourseIsInvalid(t *testing.T) {
	var c Course
	if c.Valid() {
		t.Fatalf("zero course must be invalid")
	}
	if _, err := c.MarshalText(); err == nil {
		t.Fatalf("expected marshal error for zero course")
	}
}

func TestCourseIcons(t *testing.T) {
	seen := map[string]bool{}
	for _, c := range Courses() {
		seen[c.Icon()] = true
	}
	if len(seen) != 3 {
		t.Fatalf("expected a distinct icon per course, got %v", seen)
	}
}
