// Package export renders COB entries as downloadable files and ships them to
// S3-compatible object storage.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"cob-tracker/internal/model"
)

var ErrUnknownFormat = errors.New("unknown export format")

const sheet = "COBs"

var header = []string{"id", "date", "startTime", "endTime", "durationText", "createdAt"}

// Formats lists what Write accepts.
var Formats = []string{"json", "csv", "xlsx"}

// ContentType returns the media type for format, or "" for unknown ones.
func ContentType(format string) string {
	switch format {
	case "json":
		return "application/json"
	case "csv":
		return "text/csv"
	case "xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return ""
}

// Normalize lower-cases format and checks it is supported.
func Normalize(format string) (string, error) {
	f := strings.ToLower(strings.TrimSpace(format))
	if ContentType(f) == "" {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return f, nil
}

func Write(w io.Writer, format string, cobs []model.Cob) error {
	f, err := Normalize(format)
	if err != nil {
		return err
	}
	switch f {
	case "json":
		return writeJSON(w, cobs)
	case "csv":
		return writeCSV(w, cobs)
	default:
		return writeXLSX(w, cobs)
	}
}

func row(c model.Cob) []string {
	return []string{c.ID, c.Date, c.StartTime, c.EndTime, c.DurationText, c.CreatedAt.UTC().Format(time.RFC3339)}
}

type jsonRow struct {
	ID           string    `json:"id"`
	Date         string    `json:"date"`
	StartTime    string    `json:"startTime"`
	EndTime      string    `json:"endTime"`
	DurationText string    `json:"durationText"`
	CreatedAt    time.Time `json:"createdAt"`
}

func writeJSON(w io.Writer, cobs []model.Cob) error {
	rows := make([]jsonRow, 0, len(cobs))
	for _, c := range cobs {
		rows = append(rows, jsonRow{c.ID, c.Date, c.StartTime, c.EndTime, c.DurationText, c.CreatedAt.UTC()})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

func writeCSV(w io.Writer, cobs []model.Cob) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, c := range cobs {
		if err := cw.Write(row(c)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeXLSX(w io.Writer, cobs []model.Cob) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}
	if err := setRow(f, 1, header); err != nil {
		return err
	}
	for i, c := range cobs {
		if err := setRow(f, i+2, row(c)); err != nil {
			return err
		}
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, n int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}
	vals := make([]any, len(values))
	for i, v := range values {
		vals[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &vals); err != nil {
		return fmt.Errorf("xlsx row %d: %w", n, err)
	}
	return nil
}
