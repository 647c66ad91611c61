package kv

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// stepClock returns strictly increasing times so backup names never collide.
func stepClock() func() time.Time {
	t0 := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	n := 0
	return func() time.Time {
		n++
		return t0.Add(time.Duration(n) * time.Second)
	}
}

func TestFileStoreBacksUpPreviousValue(t *testing.T) {
	s, err := OpenFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("OpenFileStore: %v", err)
	}
	s.now = stepClock()
	ctx := context.Background()

	if err := s.Set(ctx, "menu_items", "v1"); err != nil {
		t.Fatalf("Set v1: %v", err)
	}
	if _, ok, _ := s.LatestBackup("menu_items"); ok {
		t.Fatalf("first write must not produce a backup")
	}
	if err := s.Set(ctx, "menu_items", "v2"); err != nil {
		t.Fatalf("Set v2: %v", err)
	}
	v, ok, err := s.LatestBackup("menu_items")
	if err != nil || !ok || v != "v1" {
		t.Fatalf("LatestBackup = %q ok:%v err:%v, want v1", v, ok, err)
	}
	if err := s.Remove(ctx, "menu_items"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if v, _, _ := s.LatestBackup("menu_items"); v != "v2" {
		t.Fatalf("Remove should back up the removed value, latest = %q", v)
	}
}

func TestFileStoreLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := OpenFileStore(dir)
	if err != nil {
		t.Fatalf("OpenFileStore: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := s.Set(context.Background(), "menu_items", strings.Repeat("x", i)); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}
	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, e := range ents {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Fatalf("temp file left behind: %s", e.Name())
		}
	}
}

func TestFileStorePrunesBackups(t *testing.T) {
	dir := t.TempDir()
	s, err := OpenFileStore(dir)
	if err != nil {
		t.Fatalf("OpenFileStore: %v", err)
	}
	s.now = stepClock()
	s.KeepBackups = 2
	ctx := context.Background()
	for _, v := range []string{"a", "b", "c", "d", "e"} {
		if err := s.Set(ctx, "menu_items", v); err != nil {
			t.Fatalf("Set %s: %v", v, err)
		}
	}
	ents, err := os.ReadDir(filepath.Join(dir, BackupsDirName))
	if err != nil {
		t.Fatalf("read backups: %v", err)
	}
	if len(ents) != 2 {
		t.Fatalf("expected 2 backups, got %d", len(ents))
	}
	if v, _, _ := s.LatestBackup("menu_items"); v != "d" {
		t.Fatalf("latest backup = %q, want d", v)
	}
	n, err := s.PruneBackups("menu_items", 0)
	if err != nil || n != 2 {
		t.Fatalf("PruneBackups = %d, %v", n, err)
	}
}

func TestOpenFileStoreRequiresDir(t *testing.T) {
	if _, err := OpenFileStore("  "); err == nil {
		t.Fatalf("expected error for empty dir")
	}
}
