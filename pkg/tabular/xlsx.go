package tabular

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// Define static errors
var (
	// ErrNoSheets is returned when a workbook contains no sheets
	ErrNoSheets = errors.New("workbook contains no sheets")
	// ErrNoHeader is returned when the first sheet has no header row
	ErrNoHeader = errors.New("workbook sheet has no header row")
)

// ReadWorkbook reads the first sheet of an xlsx workbook into a table.
// The first row supplies column names; cell contents are inferred
// best-effort (number, then date, then string; blank cells are missing).
func ReadWorkbook(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, ErrNoHeader
	}

	table := New(rows[0]...)
	for _, raw := range rows[1:] {
		row := make(Row, len(table.Columns))
		for i, col := range table.Columns {
			if i < len(raw) {
				row[col] = Infer(raw[i])
			} else {
				row[col] = Missing()
			}
		}
		table.Append(row)
	}

	return table, nil
}

// WriteWorkbook writes the table as a single-sheet xlsx workbook with a
// header row, rendering every cell to its output string form.
func WriteWorkbook(w io.Writer, t *Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	header := make([]interface{}, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range t.Rows {
		cells := make([]interface{}, len(t.Columns))
		for j, col := range t.Columns {
			cells[j] = row.Get(col).Render()
		}
		addr, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to compute cell address: %w", err)
		}
		if err := f.SetSheetRow(sheet, addr, &cells); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	return nil
}
