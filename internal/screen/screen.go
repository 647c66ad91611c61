/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package screen contains the view state of each app screen. A controller is owned by
// one screen, reloads from the repository when the screen gains focus and is dropped on
// navigation. Controllers are not safe for concurrent use; call them from the UI goroutine.
package screen

import (
	"context"
	"log/slog"

	"chefmenu/internal/domain"
	applog "chefmenu/internal/log"
)

// Repository is the part of the storage service the screens use.
type Repository interface {
	SaveMenuItem(ctx context.Context, d domain.Draft) (domain.MenuItem, error)
	GetAllMenuItems(ctx context.Context) []domain.MenuItem
	DeleteMenuItem(ctx context.Context, id string) error
}

// Notifier shows transient notices.
type Notifier interface {
	Success(title, message string)
	Error(title, message string)
}

// Confirmer asks the user a yes/no question and reports the answer through onResult.
type Confirmer interface {
	Confirm(title, message string, onResult func(ok bool))
}

func logger() *slog.Logger { return applog.WithComponent("screen") }
