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
	"errors"
	"fmt"
	"log/slog"

	"chefmenu/internal/domain"
	"chefmenu/internal/menu"
)

// AddItem backs the add-dish form.
type AddItem struct {
	Form menu.Form

	repo Repository
	note Notifier
}

// NewAddItem returns a controller with an empty form preset to Starter.
func NewAddItem(repo Repository, note Notifier) *AddItem {
	a := &AddItem{repo: repo, note: note}
	a.Reset()
	return a
}

// Reset clears the form.
func (a *AddItem) Reset() { a.Form = menu.Form{Course: domain.Starter.String()} }

// Submit validates and saves the form. Invalid input never reaches the repository.
// On a storage failure the form is kept so the user can retry.
func (a *AddItem) Submit(ctx context.Context) (domain.MenuItem, error) {
	l := logger().With(slog.String("screen", "add"))
	d, err := a.Form.Validate()
	if err != nil {
		a.note.Error("Check your input", invalidMessage(err))
		return domain.MenuItem{}, err
	}
	it, err := a.repo.SaveMenuItem(ctx, d)
	if err != nil {
		l.Error("save failed", slog.Any("err", err))
		a.note.Error("Could not save dish", "Saving failed. Please try again.")
		return domain.MenuItem{}, err
	}
	a.note.Success("Dish added", fmt.Sprintf("%s was added to %s.", it.DishName, it.Course))
	a.Reset()
	return it, nil
}

func invalidMessage(err error) string {
	switch {
	case errors.Is(err, menu.ErrMissingField):
		return "Please fill in dish name, price and course."
	case errors.Is(err, menu.ErrNegativePrice):
		return "The price must not be negative."
	case errors.Is(err, menu.ErrInvalidPrice):
		return "Please enter a valid price."
	case errors.Is(err, menu.ErrInvalidCourse):
		return "Please choose Starter, Main or Dessert."
	default:
		return err.Error()
	}
}
