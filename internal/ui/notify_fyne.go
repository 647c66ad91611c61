//go:build fyne

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"chefmenu/internal/domain"
	"chefmenu/internal/menu"
	"chefmenu/internal/screen"
)

// notices shows successes in the status bar and errors as a dialog.
type notices struct {
	status *widget.Label
	win    fyne.Window
}

func (n *notices) Success(title, message string) { n.status.SetText(title + ": " + message) }

func (n *notices) Error(title, message string) {
	n.status.SetText(title)
	dialog.ShowInformation(title, message, n.win)
}

// confirmDialog asks through a fyne confirm dialog.
type confirmDialog struct{ win fyne.Window }

func (c confirmDialog) Confirm(title, message string, onResult func(bool)) {
	dialog.ShowConfirm(title, message, onResult, c.win)
}

// afterConfirm runs after once the user has answered, e.g. to redraw a list.
type afterConfirm struct {
	screen.Confirmer
	after func()
}

func (a afterConfirm) Confirm(title, message string, onResult func(bool)) {
	a.Confirmer.Confirm(title, message, func(ok bool) {
		onResult(ok)
		a.after()
	})
}

// itemLine is the one-line list label of a dish.
func itemLine(it domain.MenuItem) string {
	return it.DishName + "  ·  " + it.Course.String() + "  ·  " + it.Price
}

func courseNames() []string {
	out := make([]string, 0, 3)
	for _, c := range domain.Courses() {
		out = append(out, c.String())
	}
	return out
}

func filterNames() []string {
	fs := menu.Filters()
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.String()
	}
	return out
}
