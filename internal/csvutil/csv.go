// Package csvutil writes row sets as comma-separated text.
package csvutil

import (
	"bytes"
	"encoding/csv"

	"github.com/pkg/errors"
)

// EncodeRecords writes header followed by records. Fields containing commas,
// quotes or newlines are double-quoted.
func EncodeRecords(header []string, records [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, errors.Wrap(err, "write csv header")
	}
	if err := w.WriteAll(records); err != nil {
		return nil, errors.Wrap(err, "write csv records")
	}
	return buf.Bytes(), nil
}
