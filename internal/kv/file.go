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
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math/rand"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"
)

const (
	// BackupsDirName holds timestamped copies of replaced or removed values.
	BackupsDirName = "backups"
	valueExt       = ".json"
	backupExt      = ".bak"
	stampLayout    = "20060102-150405.000000"
)

// FileStore keeps one file per key in Dir.
// Every Set or Remove first copies the previous value into Dir/backups.
type FileStore struct {
	Dir string
	// KeepBackups caps the backups kept per key; 0 keeps all.
	KeepBackups int

	now func() time.Time
}

// OpenFileStore creates dir (and its backups folder) if needed.
func OpenFileStore(dir string) (*FileStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("data directory is required")
	}
	if err := os.MkdirAll(filepath.Join(dir, BackupsDirName), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{Dir: dir, KeepBackups: 20, now: time.Now}, nil
}

// Path returns the file holding key.
func (s *FileStore) Path(key string) string { return filepath.Join(s.Dir, key+valueExt) }

func (s *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	if err := checkKey(key); err != nil {
		return "", false, err
	}
	b, err := os.ReadFile(s.Path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", key, err)
	}
	return string(b), true, nil
}

// Set replaces the value via a synced temp file renamed over the target.
func (s *FileStore) Set(_ context.Context, key, value string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	target := s.Path(key)
	if err := s.backup(key); err != nil {
		return err
	}
	temp := filepath.Join(s.Dir, fmt.Sprintf(".%s.tmp-%d-%d", key, os.Getpid(), rand.Int()))
	if err := writeFileSync(temp, []byte(value)); err != nil {
		_ = os.Remove(temp)
		return fmt.Errorf("write temp %s: %w", key, err)
	}
	if runtime.GOOS == "windows" {
		_ = os.Remove(target)
	}
	if err := os.Rename(temp, target); err != nil {
		_ = os.Remove(temp)
		return fmt.Errorf("replace %s: %w", key, err)
	}
	s.prune(key)
	return nil
}

func (s *FileStore) Remove(_ context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if err := s.backup(key); err != nil {
		return err
	}
	if err := os.Remove(s.Path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	s.prune(key)
	return nil
}

func (s *FileStore) Close() error { return nil }

// LatestBackup returns the newest backed-up value of key.
func (s *FileStore) LatestBackup(key string) (string, bool, error) {
	if err := checkKey(key); err != nil {
		return "", false, err
	}
	names, err := s.backups(key)
	if err != nil || len(names) == 0 {
		return "", false, err
	}
	b, err := os.ReadFile(names[len(names)-1])
	if err != nil {
		return "", false, fmt.Errorf("read latest backup: %w", err)
	}
	return string(b), true, nil
}

// PruneBackups deletes all but the newest keep backups of key and returns how many were removed.
func (s *FileStore) PruneBackups(key string, keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}
	names, err := s.backups(key)
	if err != nil {
		return 0, err
	}
	removed := 0
	for len(names)-removed > keep {
		if err := os.Remove(names[removed]); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return removed, fmt.Errorf("remove backup: %w", err)
		}
		removed++
	}
	return removed, nil
}

// backup copies the current value of key, if any, to a timestamped file.
func (s *FileStore) backup(key string) error {
	src := s.Path(key)
	if _, err := os.Stat(src); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	now := time.Now
	if s.now != nil {
		now = s.now
	}
	name := fmt.Sprintf("%s%s.%s%s", key, valueExt, now().UTC().Format(stampLayout), backupExt)
	if err := copyFile(src, filepath.Join(s.Dir, BackupsDirName, name)); err != nil {
		return fmt.Errorf("backup %s: %w", key, err)
	}
	return nil
}

func (s *FileStore) prune(key string) {
	if s.KeepBackups > 0 {
		_, _ = s.PruneBackups(key, s.KeepBackups)
	}
}

// backups lists backup files of key, oldest first.
func (s *FileStore) backups(key string) ([]string, error) {
	dir := filepath.Join(s.Dir, BackupsDirName)
	ents, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read backups dir: %w", err)
	}
	prefix := key + valueExt + "."
	var out []string
	for _, e := range ents {
		if n := e.Name(); strings.HasPrefix(n, prefix) && strings.HasSuffix(n, backupExt) {
			out = append(out, filepath.Join(dir, n))
		}
	}
	// the stamp sorts lexicographically
	sort.Strings(out)
	return out, nil
}

func writeFileSync(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := f.Write(data); err != nil {
		return err
	}
	return f.Sync()
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
