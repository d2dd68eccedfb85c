package roster

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// XLSXSource reads the roster from the production spreadsheet. The first
// sheet is used and its first row is treated as a header.
type XLSXSource struct {
	Path string
}

// Load implements Source.
func (s XLSXSource) Load(ctx context.Context) ([]TraineeRecord, error) {
	f, err := excelize.OpenFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open roster workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("roster workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read roster sheet: %w", err)
	}

	var records []TraineeRecord
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if i == 0 {
			continue
		}
		if rec, ok := recordFromRow(row); ok {
			records = append(records, rec)
		}
	}
	return records, nil
}

// SourceForPath picks a reader by file extension, defaulting to CSV.
func SourceForPath(path string) Source {
	if len(path) > 5 && path[len(path)-5:] == ".xlsx" {
		return XLSXSource{Path: path}
	}
	return CSVSource{Path: path}
}
