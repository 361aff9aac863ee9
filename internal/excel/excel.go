package excel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"

	"github.com/giorgikontridze/health-intel-dash/internal/models"
)

// ErrSourceNotFound is returned when the demand workbook does not exist.
var ErrSourceNotFound = errors.New("demand source not found")

const (
	DefaultLatitudeColumn  = "Latitude"
	DefaultLongitudeColumn = "Longitude"
)

// ReadOptions selects the sheet and the coordinate columns of a workbook.
type ReadOptions struct {
	Sheet           string // first sheet when empty
	LatitudeColumn  string
	LongitudeColumn string
}

func (o ReadOptions) withDefaults() ReadOptions {
	if o.LatitudeColumn == "" {
		o.LatitudeColumn = DefaultLatitudeColumn
	}
	if o.LongitudeColumn == "" {
		o.LongitudeColumn = DefaultLongitudeColumn
	}
	return o
}

// Dataset is the content of one demand sheet.
type Dataset struct {
	Header []string
	Points []models.DemandPoint
}

// RowError points at the worksheet row (1-based) a failure came from.
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

func parseCoord(field, val string) (float64, error) {
	// Accept comma decimal separators.
	val = strings.TrimSpace(strings.ReplaceAll(val, ",", "."))
	if val == "" {
		return 0, &models.ValidationError{Field: field, Value: val, Reason: "empty cell"}
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, &models.ValidationError{Field: field, Value: val, Reason: "not a number"}
	}
	return f, nil
}

// ReadDemandPoints reads demand points from a workbook. Every column is kept
// as a passthrough attribute; rows with a missing or malformed coordinate
// fail the whole read.
func ReadDemandPoints(r io.Reader, opts ReadOptions) (*Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, eris.Wrap(err, "excel: open workbook")
	}
	defer f.Close()
	return readSheet(f, opts.withDefaults())
}

// ReadFile is ReadDemandPoints for a workbook on disk.
func ReadFile(path string, opts ReadOptions) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, eris.Wrapf(ErrSourceNotFound, "excel: %s", path)
		}
		return nil, eris.Wrapf(err, "excel: open %s", path)
	}
	defer file.Close()
	return ReadDemandPoints(file, opts)
}

func readSheet(f *excelize.File, opts ReadOptions) (*Dataset, error) {
	sheet := opts.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, eris.New("excel: workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, eris.Wrapf(err, "excel: read sheet %q", sheet)
	}
	if len(rows) == 0 {
		return nil, eris.Errorf("excel: sheet %q has no header row", sheet)
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}
	latIdx := columnIndex(header, opts.LatitudeColumn)
	lonIdx := columnIndex(header, opts.LongitudeColumn)
	if latIdx < 0 || lonIdx < 0 {
		return nil, eris.Errorf("excel: sheet %q needs %q and %q columns", sheet, opts.LatitudeColumn, opts.LongitudeColumn)
	}

	ds := &Dataset{Header: header}
	for i, row := range rows[1:] {
		if blank(row) {
			continue
		}
		rowNum := i + 2

		lat, err := parseCoord("latitude", cell(row, latIdx))
		if err != nil {
			return nil, &RowError{Row: rowNum, Err: err}
		}
		lon, err := parseCoord("longitude", cell(row, lonIdx))
		if err != nil {
			return nil, &RowError{Row: rowNum, Err: err}
		}
		loc := models.Coordinate{Lat: lat, Lon: lon}
		if err := models.ValidateCoordinate(loc); err != nil {
			return nil, &RowError{Row: rowNum, Err: err}
		}

		attrs := make([]models.Attribute, len(header))
		for c, name := range header {
			attrs[c] = models.Attribute{Name: name, Value: cell(row, c)}
		}
		ds.Points = append(ds.Points, models.DemandPoint{Loc: loc, Attributes: attrs})
	}
	return ds, nil
}

func columnIndex(header []string, name string) int {
	for i, h := range header {
		if strings.EqualFold(h, name) {
			return i
		}
	}
	return -1
}

func cell(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// WorkbookSource loads demand points from a workbook path on every call, so
// edits to the file are picked up by the next analysis.
type WorkbookSource struct {
	Path    string
	Options ReadOptions
}

func (s WorkbookSource) Load(ctx context.Context) ([]models.DemandPoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ds, err := ReadFile(s.Path, s.Options)
	if err != nil {
		return nil, err
	}
	return ds.Points, nil
}
