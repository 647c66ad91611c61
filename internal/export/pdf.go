/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export renders the menu collection into printable formats.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"chefmenu/internal/domain"
	"chefmenu/internal/menu"
)

// PDFOptions controls the menu card layout.
// Units are points (pt). Built-in Helvetica is used so nothing needs embedding;
// text is translated to cp1252, which covers accents and the euro sign.
type PDFOptions struct {
	Title    string
	Currency string // appended to prices, e.g. "EUR"
	// ShowAverages adds the average price under each course.
	ShowAverages bool
}

const (
	pageW  = 595.0 // A4
	pageH  = 842.0
	margin = 56.0
)

// ExportMenuPDF writes a one-column menu card to outPath, grouped by course in menu order.
// Courses without dishes are left out.
func ExportMenuPDF(items []domain.MenuItem, outPath string, opt PDFOptions) error {
	if strings.TrimSpace(outPath) == "" {
		return fmt.Errorf("output path is empty")
	}
	title := opt.Title
	if strings.TrimSpace(title) == "" {
		title = "Menu"
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: pageW, Ht: pageH},
	})
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(title, true)
	pdf.SetAuthor("ChefMenu", false)
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.AddPage()

	width := pageW - 2*margin
	pdf.SetFont("Helvetica", "B", 24)
	pdf.CellFormat(width, 36, tr(title), "", 1, "C", false, 0, "")
	pdf.Ln(12)

	written := 0
	for _, c := range domain.Courses() {
		dishes := menu.FilterByCourse(items, menu.OnlyCourse(c))
		if len(dishes) == 0 {
			continue
		}
		pdf.SetFont("Helvetica", "B", 16)
		pdf.SetTextColor(0, 0, 0)
		pdf.CellFormat(width, 24, tr(c.String()), "B", 1, "L", false, 0, "")
		pdf.Ln(6)
		for _, it := range dishes {
			pdf.SetFont("Helvetica", "", 12)
			pdf.CellFormat(width*0.75, 18, tr(it.DishName), "", 0, "L", false, 0, "")
			pdf.CellFormat(width*0.25, 18, tr(priceLabel(it.Price, opt.Currency)), "", 1, "R", false, 0, "")
			if d := strings.TrimSpace(it.Description); d != "" {
				pdf.SetFont("Helvetica", "I", 10)
				pdf.SetTextColor(90, 90, 90)
				pdf.MultiCell(width, 13, tr(d), "", "L", false)
				pdf.SetTextColor(0, 0, 0)
			}
			pdf.Ln(4)
			written++
		}
		if opt.ShowAverages {
			pdf.SetFont("Helvetica", "", 9)
			pdf.SetTextColor(120, 120, 120)
			avg := menu.FormatPrice(menu.AveragePrice(items, c))
			pdf.CellFormat(width, 14, tr("Average price: "+priceLabel(avg, opt.Currency)), "", 1, "R", false, 0, "")
			pdf.SetTextColor(0, 0, 0)
		}
		pdf.Ln(14)
	}
	if written == 0 {
		pdf.SetFont("Helvetica", "I", 12)
		pdf.CellFormat(width, 18, "No dishes yet.", "", 1, "C", false, 0, "")
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func priceLabel(price, currency string) string {
	price = strings.TrimSpace(price)
	if currency == "" {
		return price
	}
	return price + " " + currency
}
