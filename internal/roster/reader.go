package roster

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Source loads roster rows from some backing format. Implementations must
// return trimmed fields and drop rows without a trainee ID.
type Source interface {
	Load(ctx context.Context) ([]TraineeRecord, error)
}

// Column order shared by the CSV and XLSX readers:
// trainee_id, name, phone, specialization, organization, supervisor, course_ref.
const expectedColumns = 5

// CSVSource reads the roster from a CSV export of the spreadsheet. The first
// row is treated as a header.
type CSVSource struct {
	Path string
}

// Load implements Source.
func (s CSVSource) Load(ctx context.Context) ([]TraineeRecord, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open roster: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	var records []TraineeRecord
	header := true
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read roster row: %w", err)
		}
		if header {
			header = false
			continue
		}
		if rec, ok := recordFromRow(row); ok {
			records = append(records, rec)
		}
	}
	return records, nil
}

// recordFromRow maps a raw row onto a TraineeRecord. Rows with too few cells
// or an empty trainee ID are skipped; the roster reader guarantees trimmed,
// present fields to everything downstream.
func recordFromRow(row []string) (TraineeRecord, bool) {
	if len(row) < expectedColumns {
		return TraineeRecord{}, false
	}
	get := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}
	rec := TraineeRecord{
		TraineeID:      get(0),
		Name:           get(1),
		Phone:          get(2),
		Specialization: get(3),
		Organization:   get(4),
		Supervisor:     get(5),
		CourseRef:      get(6),
	}
	if rec.TraineeID == "" {
		return TraineeRecord{}, false
	}
	return rec, true
}
