package export

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/om0401/CreditCardDataExtraction/constants"
	"github.com/om0401/CreditCardDataExtraction/internal/reconcile"
)

// WorkbookXLSX builds a workbook with a Summary sheet (field/value rows in
// enum order) and a Transactions sheet.
func WorkbookXLSX(fields map[string]string, txs []reconcile.Transaction) ([]byte, error) {
	f := excelize.NewFile()

	const summarySheet = "Summary"
	// the default sheet is renamed rather than left dangling
	if err := f.SetSheetName(f.GetSheetName(0), summarySheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	write := func(sheet string, col, row int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}

	write(summarySheet, 1, 1, "Field")
	write(summarySheet, 2, 1, "Value")
	row := 2
	for _, name := range summaryOrder(fields) {
		write(summarySheet, 1, row, name)
		write(summarySheet, 2, row, fields[name])
		row++
	}
	_ = f.SetColWidth(summarySheet, "A", "A", 24)
	_ = f.SetColWidth(summarySheet, "B", "B", 48)

	if len(txs) > 0 {
		const txSheet = "Transactions"
		if _, err := f.NewSheet(txSheet); err != nil {
			return nil, fmt.Errorf("new sheet: %w", err)
		}
		headers := []string{"Date", "Description", "Amount", "Type"}
		for i, h := range headers {
			write(txSheet, i+1, 1, h)
		}
		for i, t := range txs {
			write(txSheet, 1, i+2, t.Date)
			write(txSheet, 2, i+2, t.Description)
			write(txSheet, 3, i+2, t.Amount)
			write(txSheet, 4, i+2, t.Type)
		}
		_ = f.SetColWidth(txSheet, "A", "A", 14)
		_ = f.SetColWidth(txSheet, "B", "B", 40)
		_ = f.SetColWidth(txSheet, "C", "D", 14)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

// summaryOrder returns the present field names: enum fields first in
// display order, then anything else (e.g. raw_output).
func summaryOrder(fields map[string]string) []string {
	var out []string
	seen := make(map[string]struct{}, len(fields))
	for _, name := range constants.AllFields() {
		if _, ok := fields[name]; ok {
			out = append(out, name)
			seen[name] = struct{}{}
		}
	}
	var extras []string
	for name := range fields {
		if _, ok := seen[name]; !ok {
			extras = append(extras, name)
		}
	}
	sort.Strings(extras)
	return append(out, extras...)
}
