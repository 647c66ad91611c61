/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package kv provides the local key-value primitive the menu collection is persisted in.
// Values are opaque text payloads addressed by a string key. Backends: a directory of
// files with transactional writes and backups, an embedded SQLite table, an in-memory map,
// and (with -tags fyne) the fyne application preferences.
package kv

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Store is a get/set/remove text store.
// Get reports ok=false with a nil error when the key is absent.
// Remove on an absent key is not an error.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Backend is a Store that holds resources until closed.
type Backend interface {
	Store
	io.Closer
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// SQLiteFileName is the database file created by Open for the sqlite backend.
const SQLiteFileName = "chefmenu.sqlite"

var (
	ErrInvalidKey     = errors.New("invalid key")
	ErrUnknownBackend = errors.New("unknown storage backend")
)

// Open returns the named backend rooted at dir.
func Open(ctx context.Context, backend, dir string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendFile:
		return OpenFileStore(dir)
	case BackendSQLite:
		return OpenSQLite(ctx, filepath.Join(dir, SQLiteFileName))
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

// checkKey rejects keys that cannot be used as a single file name.
func checkKey(key string) error {
	if strings.TrimSpace(key) == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
