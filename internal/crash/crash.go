/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package crash turns panics into a crash report plus a snapshot of the menu collection.
package crash

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"time"

	applog "chefmenu/internal/log"
	"chefmenu/internal/storage"
	"chefmenu/internal/version"
)

// ReportsDirName is the directory under the data dir receiving reports and snapshots.
const ReportsDirName = "crash"

// exitFn is used to allow testing of Recover without terminating the test process.
var exitFn = os.Exit

// Recover captures a panic, logs an error with stacktrace, writes an error report
// file and snapshots the collection of svc (if provided) next to it.
// dataDir may be empty, in which case the report goes to the temp dir.
//
// Usage: defer crash.Recover(svc, dataDir)
func Recover(svc *storage.Service, dataDir string) {
	if r := recover(); r != nil {
		l := applog.WithComponent("crash")
		stack := debug.Stack()
		l.Error("panic recovered", slog.Any("panic", r), slog.String("stack", string(stack)))

		dir := reportDir(dataDir)
		reportPath, err := writeReport(dir, svc, r, stack)
		if err != nil {
			l.Error("writing crash report failed", slog.Any("err", err))
		}
		if svc != nil {
			if path, err := svc.Snapshot(context.Background(), dir); err != nil {
				l.Error("crash snapshot failed", slog.Any("err", err))
			} else {
				l.Info("crash snapshot written", slog.String("path", path))
			}
		}

		if _, err := fmt.Fprintf(os.Stderr, "A fatal error occurred. A crash report was saved to: %s\n", reportPath); err != nil {
			l.Error("failed to write crash message to stderr", slog.Any("err", err))
		}
		if _, err := fmt.Fprintf(os.Stderr, "Version: %s\nOS/Arch: %s/%s\n", version.String(), runtime.GOOS, runtime.GOARCH); err != nil {
			l.Error("failed to write version info to stderr", slog.Any("err", err))
		}
		// Exit with a non-zero code to indicate failure in CLI context.
		exitFn(2)
	}
}

func reportDir(dataDir string) string {
	if dataDir == "" {
		return os.TempDir()
	}
	return filepath.Join(dataDir, ReportsDirName)
}

func writeReport(dir string, svc *storage.Service, panicVal any, stack []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	now := time.Now()
	path := filepath.Join(dir, fmt.Sprintf("crash-%s.log", now.Format("20060102-150405")))

	var buf bytes.Buffer
	_, _ = fmt.Fprintf(&buf, "ChefMenu Crash Report\n")
	_, _ = fmt.Fprintf(&buf, "Timestamp: %s\n", now.Format(time.RFC3339))
	_, _ = fmt.Fprintf(&buf, "Version: %s\n", version.String())
	_, _ = fmt.Fprintf(&buf, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	if svc != nil {
		_, _ = fmt.Fprintf(&buf, "StorageKey: %s\n", svc.Key())
	}
	_, _ = fmt.Fprintf(&buf, "\nPanic: %v\n\n", panicVal)
	_, _ = fmt.Fprintf(&buf, "Stack:\n%s\n", string(stack))

	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return path, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			applog.WithComponent("crash").Error("failed to close crash report file", slog.Any("err", err), slog.String("path", path))
		}
	}()
	if _, err := f.Write(buf.Bytes()); err != nil {
		return path, err
	}
	return path, f.Sync()
}
