package core

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/xuri/excelize/v2"
)

// templateHeaders is the canonical column order of the official output
// template: fixed descriptive columns followed by the ten composition slot
// pairs.
func templateHeaders() []string {
	headers := []string{
		FieldVariantID, FieldParentID, FieldStoreCode, FieldProductID,
		FieldReference, FieldName, FieldBrand, FieldCategory,
		FieldWeight, FieldWidth, FieldHeight, FieldLength,
	}
	for i := 1; i <= MaxCompositionSlots; i++ {
		headers = append(headers, fmt.Sprintf("Código %d", i), fmt.Sprintf("Quantidade %d", i))
	}
	return headers
}

// buildTemplate produces template workbook bytes: a decorative band on row
// 1, the field headers on row 2, and optional stale body rows below.
func buildTemplate(t *testing.T, headers []string, staleRows int) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	if err := f.SetCellValue(sheet, "A1", "Planilha de Produtos"); err != nil {
		t.Fatalf("set band cell: %v", err)
	}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 2)
		if err != nil {
			t.Fatalf("coordinates: %v", err)
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			t.Fatalf("set header cell: %v", err)
		}
	}
	for r := 0; r < staleRows; r++ {
		for c := 1; c <= len(headers); c++ {
			cell, err := excelize.CoordinatesToCellName(c, 3+r)
			if err != nil {
				t.Fatalf("coordinates: %v", err)
			}
			if err := f.SetCellValue(sheet, cell, "stale"); err != nil {
				t.Fatalf("set stale cell: %v", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("serialize template: %v", err)
	}
	return buf.Bytes()
}

func testLayout() TemplateLayout {
	return TemplateLayout{HeaderRow: 2, BodyStartRow: 3, CategoryCol: 8, Slots: MaxCompositionSlots}
}

func cellValue(t *testing.T, f *excelize.File, sheet string, col, row int) string {
	t.Helper()
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		t.Fatalf("coordinates: %v", err)
	}
	v, err := f.GetCellValue(sheet, cell)
	if err != nil {
		t.Fatalf("get cell %s: %v", cell, err)
	}
	return v
}

// ----------------------------------------------------------------------------
// OpenTemplate Tests
// ----------------------------------------------------------------------------

func TestOpenTemplate(t *testing.T) {
	wb, err := OpenTemplate(buildTemplate(t, templateHeaders(), 0), testLayout())
	if err != nil {
		t.Fatalf("OpenTemplate returned error: %v", err)
	}
	defer wb.Close()

	if len(wb.Headers) != len(templateHeaders()) {
		t.Errorf("header map has %d entries, want %d", len(wb.Headers), len(templateHeaders()))
	}
	if col, ok := wb.Headers.FindColumn("quantidade 10"); !ok || col != 32 {
		t.Errorf("Quantidade 10 column = %d, %v; want 32, true", col, ok)
	}
}

func TestOpenTemplate_MissingRequiredColumn(t *testing.T) {
	headers := templateHeaders()
	headers = headers[:len(headers)-1] // drop "Quantidade 10"

	_, err := OpenTemplate(buildTemplate(t, headers, 0), testLayout())
	if err == nil {
		t.Fatal("expected error for missing slot column")
	}
	var missing *MissingTemplateColumnError
	if !errors.As(err, &missing) {
		t.Fatalf("error type = %T, want *MissingTemplateColumnError", err)
	}
	if missing.Column != "Quantidade 10" {
		t.Errorf("missing column = %q, want %q", missing.Column, "Quantidade 10")
	}
}

func TestOpenTemplate_EmptyAndGarbage(t *testing.T) {
	if _, err := OpenTemplate(nil, testLayout()); err == nil {
		t.Error("expected error for empty template bytes")
	}

	var malformed *MalformedInputError
	_, err := OpenTemplate([]byte("not a workbook"), testLayout())
	if !errors.As(err, &malformed) {
		t.Errorf("error type = %T, want *MalformedInputError", err)
	}
}

// ----------------------------------------------------------------------------
// ClearBody / WriteRow Tests
// ----------------------------------------------------------------------------

func TestClearBody(t *testing.T) {
	wb, err := OpenTemplate(buildTemplate(t, templateHeaders(), 3), testLayout())
	if err != nil {
		t.Fatalf("OpenTemplate returned error: %v", err)
	}
	defer wb.Close()

	if err := wb.ClearBody(); err != nil {
		t.Fatalf("ClearBody returned error: %v", err)
	}

	data, err := wb.Bytes()
	if err != nil {
		t.Fatalf("Bytes returned error: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("reopen output: %v", err)
	}
	defer f.Close()
	sheet := f.GetSheetList()[0]

	// Stale body rows are blanked; the header row survives.
	if got := cellValue(t, f, sheet, 1, 3); got != "" {
		t.Errorf("body cell A3 = %q, want blank", got)
	}
	if got := cellValue(t, f, sheet, 5, 5); got != "" {
		t.Errorf("body cell E5 = %q, want blank", got)
	}
	if got := cellValue(t, f, sheet, 1, 2); got != FieldVariantID {
		t.Errorf("header cell A2 = %q, want %q", got, FieldVariantID)
	}
}

func TestWriteRow(t *testing.T) {
	wb, err := OpenTemplate(buildTemplate(t, templateHeaders(), 0), testLayout())
	if err != nil {
		t.Fatalf("OpenTemplate returned error: %v", err)
	}
	defer wb.Close()

	row := OutputRow{
		Values: map[string]any{
			FieldProductID: "101",
			FieldName:      "Kit Cadeiras",
			FieldWeight:    1.5,
			"codigo 1":     "34493", // normalized fallback path
			"Quantidade 1": 2.0,
		},
		VariantID: "MLB111",
		ParentID:  "MLB111",
		Category:  "Móveis > Cadeiras",
	}
	if err := wb.WriteRow(3, row); err != nil {
		t.Fatalf("WriteRow returned error: %v", err)
	}

	data, err := wb.Bytes()
	if err != nil {
		t.Fatalf("Bytes returned error: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("reopen output: %v", err)
	}
	defer f.Close()
	sheet := f.GetSheetList()[0]

	tests := []struct {
		col  int
		want string
	}{
		{col: 1, want: "MLB111"},            // ID VAR force-written
		{col: 2, want: "MLB111"},            // ID PAI force-written
		{col: 4, want: "101"},               // ID Produto
		{col: 6, want: "Kit Cadeiras"},      // Nome
		{col: 8, want: "Móveis > Cadeiras"}, // Categoria force-written
		{col: 9, want: "1.5"},               // Peso as number
		{col: 13, want: "34493"},            // Código 1 via normalized key
		{col: 14, want: "2"},                // Quantidade 1
	}
	for _, tt := range tests {
		if got := cellValue(t, f, sheet, tt.col, 3); got != tt.want {
			t.Errorf("column %d = %q, want %q", tt.col, got, tt.want)
		}
	}
}
