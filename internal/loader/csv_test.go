package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stanstork/rtb-etl/internal/models"
)

func TestEncodeCSV(t *testing.T) {
	rows := []models.CanonicalRow{
		{Date: "2024-01-15", Campaign: "lowerfunnel", Source: "br_amaro", AdClicks: "10", Impressions: "1000", AdCost: "12.5", UpdatedTS: "2024-01-16 08:30:00"},
		{Date: "2024-01-15", Campaign: "lowerfunnel", Source: "br_amaro_inapp", AdClicks: "1,200", Impressions: "50", AdCost: "1.5", UpdatedTS: "2024-01-16 08:30:00"},
	}

	out, err := EncodeCSV(rows)
	require.NoError(t, err)

	want := "date,campaign,source,adclicks,impressions,adcost,updated_ts\n" +
		"2024-01-15,lowerfunnel,br_amaro,10,1000,12.5,2024-01-16 08:30:00\n" +
		"2024-01-15,lowerfunnel,br_amaro_inapp,\"1,200\",50,1.5,2024-01-16 08:30:00\n"
	assert.Equal(t, want, string(out))
}

func TestEncodeCSV_Empty(t *testing.T) {
	out, err := EncodeCSV(nil)
	require.NoError(t, err)
	assert.Equal(t, "date,campaign,source,adclicks,impressions,adcost,updated_ts\n", string(out))
}
