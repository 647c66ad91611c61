/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package menu

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"chefmenu/internal/domain"
)

// ErrInvalidPrice is returned for prices that are not a finite decimal number.
var ErrInvalidPrice = errors.New("invalid price")

// decimalPrice is plain decimal notation: optional sign, digits, at most one separator.
var decimalPrice = regexp.MustCompile(`^[+-]?[0-9]+([.,][0-9]+)?$`)

// ParsePrice parses a price as entered. A comma is accepted as decimal separator,
// so "25,90" reads as 25.9. Exponents, hex and digit separators are rejected.
func ParsePrice(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if !decimalPrice.MatchString(s) {
		return 0, ErrInvalidPrice
	}
	s = strings.Replace(s, ",", ".", 1)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrInvalidPrice
	}
	return v, nil
}

// AveragePrice is the mean price of the items of course c. Unparsable and negative
// prices are left out; the result is 0 when no item has a usable price.
func AveragePrice(items []domain.MenuItem, c domain.Course) float64 {
	var sum float64
	n := 0
	for _, it := range items {
		if it.Course != c {
			continue
		}
		v, err := ParsePrice(it.Price)
		if err != nil || v < 0 {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// CourseStats summarizes one course.
type CourseStats struct {
	Course  domain.Course
	Count   int
	Average float64
}

// Summary is the home screen overview.
type Summary struct {
	Total   int
	Courses []CourseStats
}

// Summarize counts the items and averages their prices per course, in menu order.
func Summarize(items []domain.MenuItem) Summary {
	sum := Summary{Total: len(items)}
	for _, c := range domain.Courses() {
		st := CourseStats{Course: c, Average: AveragePrice(items, c)}
		for _, it := range items {
			if it.Course == c {
				st.Count++
			}
		}
		sum.Courses = append(sum.Courses, st)
	}
	return sum
}

// FormatPrice renders v with two decimals.
func FormatPrice(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }
