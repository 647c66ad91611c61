//go:build fyne

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package kv

import (
	"context"

	"fyne.io/fyne/v2"
)

// BackendPreferences stores values in the fyne app preferences. Only available to the UI.
const BackendPreferences = "preferences"

// Preferences adapts fyne.Preferences to Store. Fyne persists preferences itself,
// so an empty string cannot be told apart from a missing key and reads as absent.
type Preferences struct {
	p fyne.Preferences
}

func NewPreferences(p fyne.Preferences) *Preferences { return &Preferences{p: p} }

func (s *Preferences) Get(_ context.Context, key string) (string, bool, error) {
	if err := checkKey(key); err != nil {
		return "", false, err
	}
	v := s.p.String(key)
	return v, v != "", nil
}

func (s *Preferences) Set(_ context.Context, key, value string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	s.p.SetString(key, value)
	return nil
}

func (s *Preferences) Remove(_ context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	s.p.RemoveValue(key)
	return nil
}

func (s *Preferences) Close() error { return nil }
