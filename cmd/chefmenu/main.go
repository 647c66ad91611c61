/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"chefmenu/internal/config"
	"chefmenu/internal/crash"
	"chefmenu/internal/export"
	"chefmenu/internal/kv"
	applog "chefmenu/internal/log"
	"chefmenu/internal/menu"
	"chefmenu/internal/storage"
	"chefmenu/internal/ui"
	"chefmenu/internal/version"
)

func usage(w io.Writer) {
	fmt.Fprintln(w, "ChefMenu: restaurant menu manager")
	fmt.Fprintf(w, "Version: %s\n", version.String())
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  chefmenu version|-v|--version                      Show version")
	fmt.Fprintln(w, "  chefmenu add <course> <dishName> <price> [desc]     Add a dish (course: Starter|Main|Dessert)")
	fmt.Fprintln(w, "  chefmenu list [All|Starter|Main|Dessert]            List dishes")
	fmt.Fprintln(w, "  chefmenu delete <id> [-y]                           Delete a dish (asks unless -y)")
	fmt.Fprintln(w, "  chefmenu clear [-y]                                 Remove all dishes")
	fmt.Fprintln(w, "  chefmenu stats                                      Count and average price per course")
	fmt.Fprintln(w, "  chefmenu export <file.pdf>                          Write the menu card as PDF")
	fmt.Fprintln(w, "  chefmenu restore                                    Restore the previous collection (file backend)")
	fmt.Fprintln(w, "  chefmenu ui                                         Launch desktop UI (build with -tags fyne)")
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout))
}

// app bundles what one CLI invocation works with.
type app struct {
	cfg     config.AppConfig
	dataDir string
	backend kv.Backend
	svc     *storage.Service
	in      *bufio.Reader
	out     io.Writer
	log     *slog.Logger
}

func run(args []string, stdin io.Reader, stdout io.Writer) int {
	cfg, cfgErr := config.Load()
	applog.Init(cfg.Logging.Options())
	l := applog.WithComponent("cli")
	if cfgErr != nil {
		l.Warn("config not fully loaded; using defaults", slog.Any("err", cfgErr))
	}
	l.Debug("start", slog.Int("args", len(args)))

	if len(args) == 0 {
		usage(stdout)
		return 0
	}
	switch args[0] {
	case "version", "--version", "-v":
		fmt.Fprintln(stdout, version.String())
		return 0
	case "help", "-h", "--help":
		usage(stdout)
		return 0
	case "ui":
		if err := ui.Run(cfg); err != nil {
			fmt.Fprintln(stdout, "Error:", err)
			return 1
		}
		return 0
	}

	a, err := openApp(cfg, stdin, stdout, l)
	if err != nil {
		l.Error("open storage failed", slog.Any("err", err))
		fmt.Fprintln(stdout, "Error:", err)
		return 1
	}
	defer a.close()
	defer crash.Recover(a.svc, a.dataDir)

	code, err := a.dispatch(args)
	if err != nil {
		l.Error("command failed", slog.String("cmd", args[0]), slog.Any("err", err))
		fmt.Fprintln(stdout, "Error:", err)
	}
	return code
}

func openApp(cfg config.AppConfig, stdin io.Reader, stdout io.Writer, l *slog.Logger) (*app, error) {
	dir, err := cfg.Storage.ResolveDataDir()
	if err != nil {
		return nil, err
	}
	be, err := kv.Open(context.Background(), cfg.Storage.Backend, dir)
	if err != nil {
		return nil, err
	}
	opts := []storage.Option{storage.WithKey(cfg.Storage.Key)}
	if cfg.Storage.SerializedWrites {
		opts = append(opts, storage.WithSerializedWrites())
	}
	return &app{
		cfg: cfg, dataDir: dir, backend: be,
		svc: storage.New(be, opts...),
		in:  bufio.NewReader(stdin), out: stdout, log: l,
	}, nil
}

func (a *app) close() {
	_ = a.svc.Close()
	if err := a.backend.Close(); err != nil {
		a.log.Warn("closing storage failed", slog.Any("err", err))
	}
}

// dispatch runs one command and returns the exit code; 2 means bad usage.
func (a *app) dispatch(args []string) (int, error) {
	ctx := context.Background()
	cmd, rest := args[0], args[1:]
	// Only delete and clear take -y; elsewhere it is ordinary text.
	var yes bool
	if cmd == "delete" || cmd == "clear" {
		yes, rest = hasFlag(rest, "-y")
	}
	switch cmd {
	case "add":
		if len(rest) < 3 {
			return a.badUsage("add requires <course> <dishName> <price>")
		}
		f := menu.Form{Course: rest[0], DishName: rest[1], Price: rest[2]}
		if len(rest) > 3 {
			f.Description = strings.Join(rest[3:], " ")
		}
		d, err := f.Validate()
		if err != nil {
			return 2, err
		}
		it, err := a.svc.SaveMenuItem(ctx, d)
		if err != nil {
			return 1, err
		}
		fmt.Fprintf(a.out, "Added %s (%s) with id %s\n", it.DishName, it.Course, it.ID)
		return 0, nil
	case "list":
		f := menu.AllCourses
		if len(rest) > 0 {
			var err error
			if f, err = menu.ParseFilter(rest[0]); err != nil {
				return 2, err
			}
		}
		items := menu.FilterByCourse(a.svc.GetAllMenuItems(ctx), f)
		if len(items) == 0 {
			fmt.Fprintln(a.out, "No dishes.")
			return 0, nil
		}
		tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tCOURSE\tDISH\tPRICE\tDESCRIPTION")
		for _, it := range items {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", it.ID, it.Course, it.DishName, it.Price, it.Description)
		}
		return 0, tw.Flush()
	case "delete":
		if len(rest) < 1 {
			return a.badUsage("delete requires <id>")
		}
		id := rest[0]
		if !yes && !a.confirm(fmt.Sprintf("Delete dish %s?", id)) {
			fmt.Fprintln(a.out, "Cancelled.")
			return 0, nil
		}
		if err := a.svc.DeleteMenuItem(ctx, id); err != nil {
			return 1, err
		}
		fmt.Fprintln(a.out, "Deleted", id)
		return 0, nil
	case "clear":
		if !yes && !a.confirm("Remove all dishes?") {
			fmt.Fprintln(a.out, "Cancelled.")
			return 0, nil
		}
		if err := a.svc.ClearAllItems(ctx); err != nil {
			return 1, err
		}
		fmt.Fprintln(a.out, "Menu cleared.")
		return 0, nil
	case "stats":
		s := menu.Summarize(a.svc.GetAllMenuItems(ctx))
		fmt.Fprintf(a.out, "Dishes: %d\n", s.Total)
		for _, st := range s.Courses {
			fmt.Fprintf(a.out, "%-8s %3d  avg %s\n", st.Course, st.Count, menu.FormatPrice(st.Average))
		}
		return 0, nil
	case "export":
		if len(rest) < 1 {
			return a.badUsage("export requires <file.pdf>")
		}
		opt := export.PDFOptions{Title: a.cfg.Export.Title, Currency: a.cfg.Export.Currency, ShowAverages: true}
		if err := export.ExportMenuPDF(a.svc.GetAllMenuItems(ctx), rest[0], opt); err != nil {
			return 1, err
		}
		fmt.Fprintln(a.out, "Exported to", rest[0])
		return 0, nil
	case "restore":
		fs, ok := a.backend.(*kv.FileStore)
		if !ok {
			return 1, errors.New("restore needs the file storage backend")
		}
		prev, found, err := fs.LatestBackup(a.svc.Key())
		if err != nil {
			return 1, err
		}
		if !found {
			fmt.Fprintln(a.out, "No backup to restore.")
			return 0, nil
		}
		// Set backs up the current value, so a second restore undoes the first.
		if err := fs.Set(ctx, a.svc.Key(), prev); err != nil {
			return 1, err
		}
		fmt.Fprintf(a.out, "Restored %d dishes from backup.\n", len(a.svc.GetAllMenuItems(ctx)))
		return 0, nil
	}
	return a.badUsage("unknown command " + cmd)
}

func (a *app) badUsage(msg string) (int, error) {
	fmt.Fprintln(a.out, msg)
	usage(a.out)
	return 2, nil
}

// confirm asks on stdin; anything but y/yes declines.
func (a *app) confirm(question string) bool {
	fmt.Fprintf(a.out, "%s [y/N] ", question)
	line, _ := a.in.ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func hasFlag(args []string, flag string) (bool, []string) {
	out := make([]string, 0, len(args))
	found := false
	for _, a := range args {
		if a == flag {
			found = true
			continue
		}
		out = append(out, a)
	}
	return found, out
}
