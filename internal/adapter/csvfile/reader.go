// Package csvfile reads tabular damage reports from a CSV file.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/couchcryptid/storm-data-reliability/internal/domain"
)

// ErrMissingColumn is returned when the header lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

// Reader extracts raw report rows from a CSV file with a header row.
// Columns are matched by name, case-insensitively; extra columns
// (shake_intensity, for example) are ignored.
type Reader struct {
	path   string
	logger *slog.Logger
}

// NewReader creates a Reader for the file at path.
func NewReader(path string, logger *slog.Logger) *Reader {
	return &Reader{path: path, logger: logger}
}

// Extract reads every data row. The file is re-read on each call.
func (r *Reader) Extract(ctx context.Context) ([]domain.RawRecord, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("open reports: %w", err)
	}
	defer f.Close()

	recs, err := Decode(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.path, err)
	}
	r.logger.Debug("reports extracted", "path", r.path, "rows", len(recs))
	return recs, nil
}

// Decode parses CSV content into raw records. An input with only a header
// yields no records and no error.
func Decode(ctx context.Context, src io.Reader) ([]domain.RawRecord, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	colIdx := map[string]int{}
	for i, h := range header {
		colIdx[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}

	locIdx, ok := colIdx["location"]
	if !ok {
		return nil, fmt.Errorf("%w: location", ErrMissingColumn)
	}
	timeIdx, hasTime := colIdx["time"]

	var fieldIdx [domain.NumDamageFields]int
	for _, f := range domain.DamageFields {
		idx, ok := colIdx[f.String()]
		if !ok {
			idx = -1
		}
		fieldIdx[f] = idx
	}

	cell := func(row []string, idx int) string {
		if idx < 0 || idx >= len(row) {
			return ""
		}
		return row[idx]
	}

	var recs []domain.RawRecord
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}

		rec := domain.RawRecord{Location: cell(row, locIdx)}
		if hasTime {
			rec.Time = cell(row, timeIdx)
		}
		for _, f := range domain.DamageFields {
			rec.SetColumn(f, cell(row, fieldIdx[f]))
		}
		recs = append(recs, rec)
	}
	return recs, nil
}
