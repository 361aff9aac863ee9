package excel

import (
	"io"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"

	"github.com/giorgikontridze/health-intel-dash/internal/models"
)

const (
	DefaultReportSheet = "Report"
	DistanceColumn     = "Distance"
	StatusColumn       = "Status"
)

// WriteReport serializes report rows as an xlsx workbook to w. The header is
// the attribute names of the first row followed by Distance and Status.
func WriteReport(w io.Writer, rows []models.ReportRow, sheetName string) error {
	f, err := buildReport(rows, sheetName)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "excel: write report")
	}
	return nil
}

// SaveReport writes the report workbook to path.
func SaveReport(path string, rows []models.ReportRow, sheetName string) error {
	f, err := buildReport(rows, sheetName)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return eris.Wrapf(err, "excel: save report %s", path)
	}
	return nil
}

func buildReport(rows []models.ReportRow, sheetName string) (*excelize.File, error) {
	if sheetName == "" {
		sheetName = DefaultReportSheet
	}

	f := excelize.NewFile()
	if _, err := f.NewSheet(sheetName); err != nil {
		f.Close()
		return nil, eris.Wrapf(err, "excel: create sheet %q", sheetName)
	}

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		f.Close()
		return nil, eris.Wrap(err, "excel: stream writer")
	}

	if err := sw.SetRow("A1", reportHeader(rows)); err != nil {
		f.Close()
		return nil, eris.Wrap(err, "excel: write header")
	}

	for i, r := range rows {
		cellName, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, eris.Wrap(err, "excel: cell name")
		}
		values := make([]interface{}, 0, len(r.Attributes)+2)
		for _, a := range r.Attributes {
			values = append(values, cellValue(a.Value))
		}
		values = append(values, r.Distance, string(r.Status))
		if err := sw.SetRow(cellName, values); err != nil {
			f.Close()
			return nil, eris.Wrapf(err, "excel: write row %d", i+2)
		}
	}

	if err := sw.Flush(); err != nil {
		f.Close()
		return nil, eris.Wrap(err, "excel: flush report")
	}

	if sheetName != "Sheet1" {
		f.DeleteSheet("Sheet1")
	}
	if index, err := f.GetSheetIndex(sheetName); err == nil && index >= 0 {
		f.SetActiveSheet(index)
	}
	return f, nil
}

func reportHeader(rows []models.ReportRow) []interface{} {
	var header []interface{}
	if len(rows) > 0 {
		for _, a := range rows[0].Attributes {
			header = append(header, a.Name)
		}
	}
	return append(header, DistanceColumn, StatusColumn)
}

// cellValue writes a passthrough value as a number when it is one in
// canonical form. Anything else, such as "00123" or "1e5", stays text.
func cellValue(v string) interface{} {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || strconv.FormatFloat(f, 'f', -1, 64) != v {
		return v
	}
	return f
}
