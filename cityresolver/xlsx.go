package cityresolver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// readXLSX returns the rows of the first worksheet.
func readXLSX(path string) ([][]string, string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()
	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, "", fmt.Errorf("%s: workbook has no sheets", filepath.Base(path))
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return rows, sheet, nil
}

// writeXLSX writes the table into its worksheet. An existing workbook is updated
// in place so other sheets and formatting survive.
func writeXLSX(path string, t *Table) error {
	sheet := t.Sheet
	if sheet == "" {
		sheet = defaultSheet
	}
	f, err := openOrCreateWorkbook(path, sheet)
	if err != nil {
		return err
	}
	defer f.Close()

	write := func(rowIdx int, values []string) error {
		cell, err := excelize.CoordinatesToCellName(1, rowIdx)
		if err != nil {
			return err
		}
		return f.SetSheetRow(sheet, cell, &values)
	}
	if err := write(1, t.Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range t.Rows {
		if err := write(i+2, row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", filepath.Base(path), err)
	}
	return nil
}

func openOrCreateWorkbook(path, sheet string) (*excelize.File, error) {
	if _, err := os.Stat(path); err == nil {
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
		}
		if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
			if _, err := f.NewSheet(sheet); err != nil {
				f.Close()
				return nil, fmt.Errorf("add sheet %s: %w", sheet, err)
			}
		}
		return f, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("stat %s: %w", filepath.Base(path), err)
	}
	f := excelize.NewFile()
	if sheet != defaultSheet {
		if err := f.SetSheetName(defaultSheet, sheet); err != nil {
			f.Close()
			return nil, fmt.Errorf("name sheet %s: %w", sheet, err)
		}
	}
	return f, nil
}
