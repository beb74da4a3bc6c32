package transform

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/stanstork/rtb-etl/internal/models"
)

// Labels are the derived values stamped on every output row.
type Labels struct {
	Campaign string
	Desktop  string
	InApp    string
}

// Transformer reshapes the two channel exports into the canonical schema.
type Transformer struct {
	labels Labels
	now    func() time.Time
	logger zerolog.Logger
}

func NewTransformer(labels Labels, logger zerolog.Logger) *Transformer {
	return &Transformer{labels: labels, now: time.Now, logger: logger}
}

// WithClock replaces the load timestamp source.
func (t *Transformer) WithClock(now func() time.Time) *Transformer {
	t.now = now
	return t
}

// Transform returns the desktop rows followed by the in-app rows. Rows whose
// reporting date is empty are dropped; nothing else is filtered or deduplicated.
func (t *Transformer) Transform(desktop, inapp *models.Sheet) ([]models.CanonicalRow, error) {
	updatedTS := t.now().Format(models.UpdatedTSLayout)

	out, err := t.project(desktop, t.labels.Desktop, updatedTS, nil)
	if err != nil {
		return nil, err
	}
	out, err = t.project(inapp, t.labels.InApp, updatedTS, out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (t *Transformer) project(sheet *models.Sheet, source, updatedTS string, out []models.CanonicalRow) ([]models.CanonicalRow, error) {
	idx := make([]int, len(models.RequiredColumns))
	for i, col := range models.RequiredColumns {
		if idx[i] = sheet.ColumnIndex(col); idx[i] < 0 {
			return nil, errors.Errorf("sheet %s: missing column %q", sheet.Name, col)
		}
	}

	dropped := 0
	for _, row := range sheet.Rows {
		date := strings.TrimSpace(row[idx[0]])
		if date == "" {
			dropped++
			continue
		}
		out = append(out, models.CanonicalRow{
			Date:        date,
			Campaign:    t.labels.Campaign,
			Source:      source,
			AdClicks:    row[idx[1]],
			Impressions: row[idx[2]],
			AdCost:      row[idx[3]],
			UpdatedTS:   updatedTS,
		})
	}

	t.logger.Debug().
		Str("sheet", sheet.Name).
		Str("source", source).
		Int("rows", len(sheet.Rows)-dropped).
		Int("dropped", dropped).
		Msg("Projected sheet")
	return out, nil
}
