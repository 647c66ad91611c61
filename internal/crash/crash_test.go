package crash

import (
	"os"
	"strings"
	"testing"

	"chefmenu/internal/kv"
	"chefmenu/internal/storage"
)

func TestWriteReportCreatesFile(t *testing.T) {
	svc := storage.New(kv.NewMemory(), storage.WithKey("lunch"))
	path, err := writeReport(t.TempDir(), svc, "boom", []byte("stacktrace"))
	if err != nil {
		t.Fatalf("writeReport error: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	s := string(b)
	if !strings.Contains(s, "ChefMenu Crash Report") {
		t.Fatalf("report header missing")
	}
	if !strings.Contains(s, "Panic: boom") || !strings.Contains(s, "StorageKey: lunch") {
		t.Fatalf("report content missing: %s", s)
	}
}

func TestReportDirDefaultsToTemp(t *testing.T) {
	if got := reportDir(""); got != os.TempDir() {
		t.Fatalf("reportDir(\"\") = %s", got)
	}
	if got := reportDir("/data"); !strings.HasSuffix(got, ReportsDirName) {
		t.Fatalf("reportDir(/data) = %s", got)
	}
}
