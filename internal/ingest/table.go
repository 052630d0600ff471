package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// readTable loads base.csv, falling back to base.xlsx, as raw rows including the header.
func readTable(ctx context.Context, src Source, base string) ([][]string, error) {
	rc, err := src.Open(ctx, base+".csv")
	if err == nil {
		defer rc.Close()
		return readCSV(rc)
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	rc, err = src.Open(ctx, base+".xlsx")
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return readXLSX(rc)
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	return rows, nil
}

// readXLSX returns the rows of the first sheet.
func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}
