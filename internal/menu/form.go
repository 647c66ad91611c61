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
	"fmt"
	"strings"

	"chefmenu/internal/domain"
)

var (
	ErrMissingField  = errors.New("required field missing")
	ErrNegativePrice = errors.New("price must not be negative")
	ErrInvalidCourse = errors.New("invalid course")
)

// ValidationError names the form field that failed and why.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string { return e.Field + ": " + e.Err.Error() }

func (e *ValidationError) Unwrap() error { return e.Err }

// Form holds the raw text of the add-item screen.
type Form struct {
	DishName    string
	Price       string
	Description string
	Course      string
}

// Validate checks the form and returns the draft to save. Name, price and course
// are required; the price must be a non-negative number.
func (f Form) Validate() (domain.Draft, error) {
	name := strings.TrimSpace(f.DishName)
	price := strings.TrimSpace(f.Price)
	if name == "" {
		return domain.Draft{}, &ValidationError{Field: "dishName", Err: ErrMissingField}
	}
	if price == "" {
		return domain.Draft{}, &ValidationError{Field: "price", Err: ErrMissingField}
	}
	if strings.TrimSpace(f.Course) == "" {
		return domain.Draft{}, &ValidationError{Field: "course", Err: ErrMissingField}
	}
	v, err := ParsePrice(price)
	if err != nil {
		return domain.Draft{}, &ValidationError{Field: "price", Err: fmt.Errorf("%w: %q", ErrInvalidPrice, price)}
	}
	if v < 0 {
		return domain.Draft{}, &ValidationError{Field: "price", Err: ErrNegativePrice}
	}
	c, err := domain.ParseCourse(f.Course)
	if err != nil {
		return domain.Draft{}, &ValidationError{Field: "course", Err: fmt.Errorf("%w: %v", ErrInvalidCourse, err)}
	}
	return domain.Draft{
		DishName:    name,
		Course:      c,
		Description: strings.TrimSpace(f.Description),
		Price:       price,
	}, nil
}
