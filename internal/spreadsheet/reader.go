package spreadsheet

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/stanstork/rtb-etl/internal/models"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

// Reader loads a vendor export into a raw row set.
type Reader interface {
	Read(path string) (*models.Sheet, error)
}

type xlsxReader struct {
	dateColumns []string
}

// NewXLSXReader returns a Reader over the first worksheet of an .xlsx workbook.
// Cells are read as stored values, not as Excel displays them. Date serials in
// dateColumns are rendered as "2006-01-02", or "2006-01-02 15:04:05" when they
// carry a time of day.
func NewXLSXReader(dateColumns ...string) Reader {
	return &xlsxReader{dateColumns: dateColumns}
}

func (r *xlsxReader) Read(path string) (*models.Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open workbook %s", path)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.Errorf("workbook %s has no sheets", path)
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.Wrapf(err, "read sheet %q of %s", sheets[0], path)
	}

	props, err := f.GetWorkbookProps()
	if err != nil {
		return nil, errors.Wrapf(err, "read workbook properties of %s", path)
	}
	date1904 := props.Date1904 != nil && *props.Date1904

	sheet := FromRows(filepath.Base(path), rows)
	for _, col := range r.dateColumns {
		idx := sheet.ColumnIndex(col)
		if idx < 0 {
			continue
		}
		for _, row := range sheet.Rows {
			if row[idx], err = serialToDate(row[idx], date1904); err != nil {
				return nil, errors.Wrapf(err, "column %q of %s", col, path)
			}
		}
	}
	return sheet, nil
}

// serialToDate converts an Excel date serial. Cells that are not numeric,
// such as dates typed as text, are returned unchanged.
func serialToDate(cell string, date1904 bool) (string, error) {
	serial, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil {
		return cell, nil
	}
	t, err := excelize.ExcelDateToTime(serial, date1904)
	if err != nil {
		return "", errors.Wrapf(err, "invalid date serial %q", cell)
	}
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t.Format(dateLayout), nil
	}
	return t.Format(dateTimeLayout), nil
}

// FromRows builds a Sheet from raw cell rows: the first row is the header,
// short rows are padded to the header width and blank rows are dropped.
func FromRows(name string, rows [][]string) *models.Sheet {
	sheet := &models.Sheet{Name: name}
	if len(rows) == 0 {
		return sheet
	}

	sheet.Header = make([]string, len(rows[0]))
	for i, h := range rows[0] {
		sheet.Header[i] = strings.TrimSpace(h)
	}

	width := len(sheet.Header)
	for _, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		cells := make([]string, width)
		copy(cells, row)
		sheet.Rows = append(sheet.Rows, cells)
	}
	return sheet
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
