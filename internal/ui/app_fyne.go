//go:build fyne && cgo

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
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	fstorage "fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"chefmenu/internal/config"
	"chefmenu/internal/crash"
	"chefmenu/internal/export"
	"chefmenu/internal/kv"
	applog "chefmenu/internal/log"
	"chefmenu/internal/menu"
	"chefmenu/internal/screen"
	"chefmenu/internal/storage"
	"chefmenu/internal/version"
)

// Run starts the Fyne-based menu manager with one tab per screen.
func Run(cfg config.AppConfig) error {
	l := applog.WithComponent("ui")
	l.Info("starting UI", slog.String("backend", cfg.Storage.Backend))
	ctx := context.Background()

	fyneApp := app.NewWithID("app.chefmenu")
	prefs := fyneApp.Preferences()

	var store kv.Store
	dataDir := ""
	if cfg.Storage.Backend == kv.BackendPreferences {
		store = kv.NewPreferences(prefs)
	} else {
		dir, err := cfg.Storage.ResolveDataDir()
		if err != nil {
			return err
		}
		be, err := kv.Open(ctx, cfg.Storage.Backend, dir)
		if err != nil {
			return fmt.Errorf("open storage: %w", err)
		}
		defer func() { _ = be.Close() }()
		store, dataDir = be, dir
	}
	opts := []storage.Option{storage.WithKey(cfg.Storage.Key)}
	if cfg.Storage.SerializedWrites {
		opts = append(opts, storage.WithSerializedWrites())
	}
	svc := storage.New(store, opts...)
	defer func() { _ = svc.Close() }()
	defer crash.Recover(svc, dataDir)

	w := fyneApp.NewWindow("ChefMenu")
	winW := prefs.IntWithFallback("window.width", 900)
	winH := prefs.IntWithFallback("window.height", 640)
	w.Resize(fyne.NewSize(float32(max(winW, 480)), float32(max(winH, 360))))

	status := widget.NewLabel("Ready")
	note := &notices{status: status, win: w}
	ask := confirmDialog{win: w}

	home, homeView := homeTab(ctx, svc)
	browse, browseView := browseTab(ctx, svc)
	choose, chooseView := chooseTab(ctx, svc, note)
	manage, manageView := manageTab(ctx, svc, note, ask)
	addView := addTab(ctx, svc, note)

	tabs := container.NewAppTabs(
		container.NewTabItem("Home", homeView),
		container.NewTabItem("Browse", browseView),
		container.NewTabItem("Add", addView),
		container.NewTabItem("Choose", chooseView),
		container.NewTabItem("Manage", manageView),
	)
	focus := map[string]func(){
		"Home": home, "Browse": browse, "Choose": choose, "Manage": manage,
	}
	tabs.OnSelected = func(ti *container.TabItem) {
		if f, ok := focus[ti.Text]; ok {
			f()
		}
	}
	home()

	exportItem := fyne.NewMenuItem("Export Menu as PDF…", func() {
		save := dialog.NewFileSave(func(uc fyne.URIWriteCloser, err error) {
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			if uc == nil {
				return
			}
			outPath := uc.URI().Path()
			_ = uc.Close()
			err = export.ExportMenuPDF(svc.GetAllMenuItems(ctx), outPath, export.PDFOptions{
				Title: cfg.Export.Title, Currency: cfg.Export.Currency, ShowAverages: true,
			})
			if err != nil {
				dialog.ShowError(err, w)
			} else {
				note.Success("Export PDF", "Exported to "+outPath)
			}
		}, w)
		save.SetFileName("menu.pdf")
		save.SetFilter(fstorage.NewExtensionFileFilter([]string{".pdf"}))
		save.Show()
	})
	clearItem := fyne.NewMenuItem("Clear All Dishes…", func() {
		ask.Confirm("Clear menu", "Remove every dish from the menu?", func(ok bool) {
			if !ok {
				return
			}
			if err := svc.ClearAllItems(ctx); err != nil {
				note.Error("Could not clear menu", err.Error())
				return
			}
			note.Success("Menu cleared", "All dishes were removed.")
			if f, ok := focus[tabs.Selected().Text]; ok {
				f()
			}
		})
	})
	aboutItem := fyne.NewMenuItem("About ChefMenu", func() {
		info := fmt.Sprintf("ChefMenu\nVersion: %s\nOS: %s\nArch: %s\nStorage: %s",
			version.String(), runtime.GOOS, runtime.GOARCH, cfg.Storage.Backend)
		dialog.ShowInformation("About", info, w)
	})
	w.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu("File", exportItem, fyne.NewMenuItemSeparator(), clearItem),
		fyne.NewMenu("About", aboutItem),
	))

	// Persist preferences on close
	w.SetCloseIntercept(func() {
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
		w.Close()
	})

	w.SetContent(container.NewBorder(nil, status, nil, nil, tabs))
	w.ShowAndRun()
	l.Info("UI closed")
	return nil
}

func homeTab(ctx context.Context, repo screen.Repository) (func(), fyne.CanvasObject) {
	h := screen.NewHome(repo)
	total := widget.NewLabel("")
	stats := widget.NewLabel("")
	refresh := func() {
		h.Focus(ctx)
		s := h.Summary()
		total.SetText(fmt.Sprintf("%d dishes on the menu", s.Total))
		var b strings.Builder
		for _, st := range s.Courses {
			fmt.Fprintf(&b, "%s: %d dishes, average %s\n", st.Course, st.Count, menu.FormatPrice(st.Average))
		}
		stats.SetText(b.String())
	}
	title := widget.NewLabelWithStyle("ChefMenu", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	return refresh, container.NewVBox(title, total, stats)
}

func browseTab(ctx context.Context, repo screen.Repository) (func(), fyne.CanvasObject) {
	f := screen.NewFilter(repo, "")
	count := widget.NewLabel("")
	list := widget.NewList(
		func() int { return len(f.Visible()) },
		func() fyne.CanvasObject { return widget.NewLabel("dish") },
		func(id widget.ListItemID, o fyne.CanvasObject) {
			if v := f.Visible(); id < len(v) {
				o.(*widget.Label).SetText(itemLine(v[id]))
			}
		},
	)
	redraw := func() {
		count.SetText(fmt.Sprintf("%d dishes", f.Count()))
		list.Refresh()
	}
	sel := widget.NewSelect(filterNames(), func(s string) {
		if parsed, err := menu.ParseFilter(s); err == nil {
			f.Select(parsed)
			redraw()
		}
	})
	sel.SetSelected(f.Selected().String())
	refresh := func() {
		f.Focus(ctx)
		redraw()
	}
	return refresh, container.NewBorder(container.NewHBox(sel, count), nil, nil, nil, list)
}

func addTab(ctx context.Context, repo screen.Repository, note screen.Notifier) fyne.CanvasObject {
	a := screen.NewAddItem(repo, note)
	name := widget.NewEntry()
	price := widget.NewEntry()
	price.SetPlaceHolder("0.00")
	desc := widget.NewMultiLineEntry()
	course := widget.NewRadioGroup(courseNames(), nil)
	fill := func() {
		name.SetText(a.Form.DishName)
		price.SetText(a.Form.Price)
		desc.SetText(a.Form.Description)
		course.SetSelected(a.Form.Course)
	}
	fill()
	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Dish name", Widget: name},
			{Text: "Price", Widget: price},
			{Text: "Course", Widget: course},
			{Text: "Description", Widget: desc},
		},
		SubmitText: "Add dish",
		OnSubmit: func() {
			a.Form.DishName, a.Form.Price = name.Text, price.Text
			a.Form.Description, a.Form.Course = desc.Text, course.Selected
			if _, err := a.Submit(ctx); err == nil {
				fill()
			}
		},
	}
	return form
}

func chooseTab(ctx context.Context, repo screen.Repository, note screen.Notifier) (func(), fyne.CanvasObject) {
	c := screen.NewChoose(repo, note)
	picked := widget.NewLabel("")
	list := widget.NewList(
		func() int { return len(c.Items()) },
		func() fyne.CanvasObject { return widget.NewCheck("dish", nil) },
		func(id widget.ListItemID, o fyne.CanvasObject) {
			items := c.Items()
			if id >= len(items) {
				return
			}
			it := items[id]
			chk := o.(*widget.Check)
			chk.OnChanged = nil
			chk.SetText(itemLine(it))
			chk.SetChecked(c.IsSelected(it.ID))
			chk.OnChanged = func(on bool) {
				if on != c.IsSelected(it.ID) {
					c.Toggle(it.ID)
				}
			}
		},
	)
	confirm := widget.NewButton("Confirm selection", func() {
		if got := c.Confirm(); got != nil {
			names := make([]string, len(got))
			for i, it := range got {
				names[i] = it.DishName
			}
			picked.SetText("Selected: " + strings.Join(names, ", "))
			list.Refresh()
		}
	})
	clearBtn := widget.NewButton("Clear", func() {
		c.Clear()
		list.Refresh()
	})
	refresh := func() {
		c.Focus(ctx)
		list.Refresh()
	}
	return refresh, container.NewBorder(nil, container.NewVBox(container.NewHBox(confirm, clearBtn), picked), nil, nil, list)
}

func manageTab(ctx context.Context, repo screen.Repository, note screen.Notifier, ask screen.Confirmer) (func(), fyne.CanvasObject) {
	averages := widget.NewLabel("")
	var list *widget.List
	var redraw func()
	m := screen.NewManage(repo, note, afterConfirm{Confirmer: ask, after: func() { redraw() }})
	redraw = func() {
		var parts []string
		for _, st := range m.Averages() {
			parts = append(parts, fmt.Sprintf("%s avg %s", st.Course, menu.FormatPrice(st.Average)))
		}
		averages.SetText(strings.Join(parts, "   "))
		list.Refresh()
	}
	list = widget.NewList(
		func() int { return len(m.Items()) },
		func() fyne.CanvasObject {
			return container.NewBorder(nil, nil, nil, widget.NewButton("Delete", nil), widget.NewLabel("dish"))
		},
		func(id widget.ListItemID, o fyne.CanvasObject) {
			items := m.Items()
			if id >= len(items) {
				return
			}
			it := items[id]
			row := o.(*fyne.Container)
			row.Objects[0].(*widget.Label).SetText(itemLine(it))
			row.Objects[1].(*widget.Button).OnTapped = func() { m.RequestDelete(ctx, it.ID) }
		},
	)
	refresh := func() {
		m.Focus(ctx)
		redraw()
	}
	return refresh, container.NewBorder(averages, nil, nil, nil, list)
}
