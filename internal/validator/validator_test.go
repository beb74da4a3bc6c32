package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stanstork/rtb-etl/internal/models"
)

func sheet(header ...string) *models.Sheet {
	return &models.Sheet{Header: header}
}

func TestHasRequiredColumns(t *testing.T) {
	full := sheet("Date (UTC)", "Clicks", "Imps", "Cost (BRL)", "CTR")

	tests := []struct {
		name    string
		desktop *models.Sheet
		inapp   *models.Sheet
		want    bool
	}{
		{"both complete", full, sheet("Cost (BRL)", "Imps", "Clicks", "Date (UTC)"), true},
		{"desktop missing cost", sheet("Date (UTC)", "Clicks", "Imps"), full, false},
		{"inapp missing date", full, sheet("Clicks", "Imps", "Cost (BRL)"), false},
		{"both empty", sheet(), sheet(), false},
		{"case sensitive", full, sheet("date (utc)", "Clicks", "Imps", "Cost (BRL)"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasRequiredColumns(models.RequiredColumns, tt.desktop, tt.inapp))
		})
	}
}

func TestMissing(t *testing.T) {
	got := Missing(models.RequiredColumns, sheet("Clicks", "Cost (BRL)"))
	assert.Equal(t, []string{"Date (UTC)", "Imps"}, got)
}
