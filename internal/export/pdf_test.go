/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"chefmenu/internal/domain"
)

func TestExportMenuPDF_CreatesFile(t *testing.T) {
	items := []domain.MenuItem{
		{ID: "1", DishName: "Crème brûlée", Course: domain.Dessert, Price: "7,50", Description: "Vanilla custard"},
		{ID: "2", DishName: "Soup", Course: domain.Starter, Price: "5.00"},
		{ID: "3", DishName: "Steak", Course: domain.Main, Price: "24.00", Description: "With fries and a rather long description that has to wrap onto a second line of the card"},
	}
	out := filepath.Join(t.TempDir(), "exports", "menu.pdf")
	if err := ExportMenuPDF(items, out, PDFOptions{Title: "Trattoria", Currency: "€", ShowAverages: true}); err != nil {
		t.Fatalf("export: %v", err)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(b) == 0 || !bytes.HasPrefix(b, []byte("%PDF-")) {
		t.Fatalf("output is not a pdf (%d bytes)", len(b))
	}
}

func TestExportMenuPDF_EmptyMenu(t *testing.T) {
	out := filepath.Join(t.TempDir(), "empty.pdf")
	if err := ExportMenuPDF(nil, out, PDFOptions{}); err != nil {
		t.Fatalf("export: %v", err)
	}
	if st, err := os.Stat(out); err != nil || st.Size() == 0 {
		t.Fatalf("empty menu pdf missing: %v", err)
	}
	if err := ExportMenuPDF(nil, "", PDFOptions{}); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestPriceLabel(t *testing.T) {
	if got := priceLabel(" 5.00 ", "EUR"); got != "5.00 EUR" {
		t.Fatalf("priceLabel = %q", got)
	}
	if got := priceLabel("5", ""); got != "5" {
		t.Fatalf("priceLabel without currency = %q", got)
	}
}
