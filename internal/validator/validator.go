package validator

import "github.com/stanstork/rtb-etl/internal/models"

// Missing returns the required columns absent from the sheet's header.
func Missing(required []string, sheet *models.Sheet) []string {
	var missing []string
	for _, col := range required {
		if sheet.ColumnIndex(col) < 0 {
			missing = append(missing, col)
		}
	}
	return missing
}

// HasRequiredColumns reports whether every sheet exposes all required columns.
// A false result is an expected outcome the caller gates on, not an error.
func HasRequiredColumns(required []string, sheets ...*models.Sheet) bool {
	for _, s := range sheets {
		if len(Missing(required, s)) > 0 {
			return false
		}
	}
	return true
}
