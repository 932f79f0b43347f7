package main

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const exportFilename = "Weekly_Safety_Violations.xlsx"

const exportSheet = "Sheet1"

var exportHeader = []string{"Date", "Delivery Associate", "Metric Type", "Metric Subtype", "Review Details", "Violation"}

// BuildExportWorkbook serializes the selected week into a spreadsheet: the
// summary counts, then every group's rows with its subtotal, then the grand
// total. Collapse state in the page never trims the export; the workbook is
// always the full table.
func BuildExportWorkbook(ds Dataset, s Summary, d Detail) (*excelize.File, error) {
	f := excelize.NewFile()

	row := 1
	if err := setRow(f, row, []interface{}{fmt.Sprintf("Weekly Safety Violations — %s", ds.Label)}); err != nil {
		return nil, err
	}
	row += 2
	if err := setRow(f, row, []interface{}{"Total", s.Total, "Violations", s.Violations, "Non-violations", s.NonViolations}); err != nil {
		return nil, err
	}
	row += 2

	header := make([]interface{}, len(exportHeader))
	for i, h := range exportHeader {
		header[i] = h
	}
	if err := setRow(f, row, header); err != nil {
		return nil, err
	}
	row++

	for _, g := range d.Groups {
		for _, rec := range g.Records {
			status := rec.ReviewStatus()
			values := []interface{}{rec.Date, g.Associate, rec.Metric(), rec.MetricSubtype, status, ReviewLabel(status)}
			if err := setRow(f, row, values); err != nil {
				return nil, err
			}
			row++
		}
		if err := setRow(f, row, []interface{}{fmt.Sprintf("Subtotal — %s", g.Associate), "", "", "", "", g.Subtotal}); err != nil {
			return nil, err
		}
		row++
	}

	if err := setRow(f, row, []interface{}{"Grand Total", "", "", "", "", d.GrandTotal}); err != nil {
		return nil, err
	}
	return f, nil
}

func setRow(f *excelize.File, row int, values []interface{}) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(exportSheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}
