package loader

import (
	"github.com/stanstork/rtb-etl/internal/csvutil"
	"github.com/stanstork/rtb-etl/internal/models"
)

// EncodeCSV serializes canonical rows with a header line.
func EncodeCSV(rows []models.CanonicalRow) ([]byte, error) {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, r.Record())
	}
	return csvutil.EncodeRecords(models.CanonicalColumns, records)
}
