package core

// workbook.go writes assembled rows into the pre-styled output template.
//
// The writer never creates a sheet, merge or style: it only clears and sets
// cell values on the first sheet of a template workbook that was built by
// hand. Every value passes through SafeCellValue so a malformed cell can
// never corrupt the file for downstream spreadsheet readers.

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// TemplateLayout describes the fixed structure of the output template.
type TemplateLayout struct {
	// HeaderRow is the 1-based row holding the authoritative field headers.
	// Row 1 is a decorative grouping band.
	HeaderRow int

	// BodyStartRow is the first data row.
	BodyStartRow int

	// CategoryCol is the 1-based column the category is force-written to,
	// because some template revisions mis-title that header.
	CategoryCol int

	// Slots is the number of code/quantity column pairs.
	Slots int
}

// Workbook wraps an open template with its resolved column positions.
type Workbook struct {
	file   *excelize.File
	sheet  string
	layout TemplateLayout

	Headers HeaderMap

	variantCol int
	parentCol  int
}

// OpenTemplate opens a template workbook from bytes, builds the header map
// of its first sheet, and resolves the structurally required columns.
// A template missing the hierarchy id columns, the reference column, or any
// composition slot pair fails with MissingTemplateColumnError.
func OpenTemplate(data []byte, layout TemplateLayout) (*Workbook, error) {
	if len(data) == 0 {
		return nil, &MissingInputError{Input: "template"}
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &MalformedInputError{Input: "template", Reason: err.Error()}
	}

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &MalformedInputError{Input: "template", Reason: "workbook has no sheets"}
	}
	sheet := sheets[0]

	hm, err := BuildHeaderMap(f, sheet, layout.HeaderRow)
	if err != nil {
		return nil, err
	}

	wb := &Workbook{file: f, sheet: sheet, layout: layout, Headers: hm}

	if wb.variantCol, err = requireColumn(hm, FieldVariantID); err != nil {
		return nil, err
	}
	if wb.parentCol, err = requireColumn(hm, FieldParentID); err != nil {
		return nil, err
	}
	if _, err = requireColumn(hm, FieldReference); err != nil {
		return nil, err
	}
	for i := 1; i <= layout.Slots; i++ {
		if _, err = requireColumn(hm, fmt.Sprintf("Código %d", i)); err != nil {
			return nil, err
		}
		if _, err = requireColumn(hm, fmt.Sprintf("Quantidade %d", i)); err != nil {
			return nil, err
		}
	}

	return wb, nil
}

func requireColumn(hm HeaderMap, name string) (int, error) {
	col, ok := hm.FindColumn(name)
	if !ok {
		return 0, &MissingTemplateColumnError{Column: name}
	}
	return col, nil
}

// ClearBody blanks the values of every pre-existing body row without
// touching cell styles. SetCellValue only replaces the cell's value; the
// style index on the cell survives.
func (wb *Workbook) ClearBody() error {
	rows, err := wb.file.GetRows(wb.sheet)
	if err != nil {
		return err
	}
	for r := wb.layout.BodyStartRow; r <= len(rows); r++ {
		width := len(rows[r-1])
		for c := 1; c <= width; c++ {
			cell, err := excelize.CoordinatesToCellName(c, r)
			if err != nil {
				return err
			}
			if err := wb.file.SetCellValue(wb.sheet, cell, ""); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteRow writes one assembled row at the given body row index. Fields are
// matched to template columns by exact name, then by normalized name; the
// category and hierarchy id columns are additionally force-written to their
// fixed positions regardless of header match.
func (wb *Workbook) WriteRow(rowIdx int, row OutputRow) error {
	normValues := make(map[string]any, len(row.Values))
	for name, v := range row.Values {
		normValues[NormalizeKey(name)] = v
	}

	for _, entry := range wb.Headers {
		v, ok := row.Values[entry.Key]
		if !ok {
			v, ok = normValues[entry.NormKey]
		}
		if !ok {
			continue
		}
		if err := wb.setCell(entry.Col, rowIdx, v); err != nil {
			return err
		}
	}

	// Force-writes: some template revisions mis-title the category header,
	// and the hierarchy id columns bypass generic mapping entirely because
	// of the store-specific rule.
	if wb.layout.CategoryCol > 0 {
		if err := wb.setCell(wb.layout.CategoryCol, rowIdx, row.Category); err != nil {
			return err
		}
	}
	if err := wb.setCell(wb.variantCol, rowIdx, row.VariantID); err != nil {
		return err
	}
	return wb.setCell(wb.parentCol, rowIdx, row.ParentID)
}

func (wb *Workbook) setCell(col, row int, v any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return wb.file.SetCellValue(wb.sheet, cell, SafeCellValue(v))
}

// Bytes serializes the workbook once, atomically, into a byte buffer.
func (wb *Workbook) Bytes() ([]byte, error) {
	buf, err := wb.file.WriteToBuffer()
	if err != nil {
		return nil, &UnrecoverableWriteError{Err: err}
	}
	return buf.Bytes(), nil
}

// Close releases the underlying workbook resources.
func (wb *Workbook) Close() error {
	return wb.file.Close()
}
