package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// ReportHeader is the header row of a vendor export.
var ReportHeader = []string{"Date (UTC)", "Clicks", "Imps", "Cost (BRL)"}

// CostFormat is Excel's built-in "#,##0.00" number format.
const CostFormat = 4

// WriteWorkbook saves text rows as the first sheet of dir/name and returns its path.
func WriteWorkbook(t *testing.T, dir, name string, rows [][]string) string {
	t.Helper()
	values := make([][]interface{}, len(rows))
	for i, row := range rows {
		values[i] = make([]interface{}, len(row))
		for j, v := range row {
			values[i][j] = v
		}
	}
	return WriteTypedWorkbook(t, dir, name, values)
}

// WriteTypedWorkbook saves rows of typed cells the way a vendor export stores
// them: time.Time values become date serials with a date format, ints and
// float64s get CostFormat, and nil leaves the cell empty.
func WriteTypedWorkbook(t *testing.T, dir, name string, rows [][]interface{}) string {
	t.Helper()
	const sheet = "Sheet1"
	f := excelize.NewFile()
	defer f.Close()

	numStyle, err := f.NewStyle(&excelize.Style{NumFmt: CostFormat})
	require.NoError(t, err)

	for i, row := range rows {
		for j, v := range row {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, v))

			switch v.(type) {
			case int, float64:
				require.NoError(t, f.SetCellStyle(sheet, cell, cell, numStyle))
			}
		}
	}

	path := filepath.Join(dir, name)
	require.NoError(t, f.SaveAs(path))
	return path
}
