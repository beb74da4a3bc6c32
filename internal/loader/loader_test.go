package loader

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stanstork/rtb-etl/internal/models"
	"github.com/stanstork/rtb-etl/internal/repository"
	"github.com/stanstork/rtb-etl/internal/testutil"
)

var settings = Settings{
	Folder:    "performance-marketing/import-spend-tracking-data/rtb/prod",
	Schema:    "manual_data_sources",
	AdSource:  "rtb-ad-cost",
	Region:    "sa-east-1",
	AccessKey: "AKIA",
	SecretKey: "secret",
}

var reportDate = time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

func newLoader(t *testing.T) (*Loader, *testutil.MemoryStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := testutil.NewMemoryStore("amaro-bi")
	repo := repository.NewAdCostRepository(db, "manual_data_sources.rtb_ad_cost", zerolog.Nop())
	return NewLoader(store, repo, settings, zerolog.Nop()), store, mock
}

func sampleRows() []models.CanonicalRow {
	return []models.CanonicalRow{
		{Date: "2024-01-15", Campaign: "lowerfunnel", Source: "br_amaro", AdClicks: "1", Impressions: "2", AdCost: "3", UpdatedTS: "2024-01-16 08:30:00"},
	}
}

func TestStagedKey(t *testing.T) {
	l, _, _ := newLoader(t)
	assert.Equal(t,
		"performance-marketing/import-spend-tracking-data/rtb/prod/manual_data_sources.rtb-ad-cost-20240115.csv",
		l.StagedKey("20240115"))
}

func TestLoad_StrictOrder(t *testing.T) {
	l, store, mock := newLoader(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM manual_data_sources.rtb_ad_cost WHERE date >= $1`)).
		WithArgs("2024-01-15").
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`(?s)COPY manual_data_sources\.rtb_ad_cost .* FROM 's3://amaro-bi/performance-marketing/import-spend-tracking-data/rtb/prod/manual_data_sources\.rtb-ad-cost-20240115\.csv'`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	res, err := l.Load(context.Background(), reportDate, sampleRows())
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, int64(4), res.RowsDeleted)
	assert.Equal(t, 1, res.RowsStaged)

	body, ok := store.Object(res.StagedKey)
	require.True(t, ok)
	assert.Equal(t, "date,campaign,source,adclicks,impressions,adcost,updated_ts\n"+
		"2024-01-15,lowerfunnel,br_amaro,1,2,3,2024-01-16 08:30:00\n", body)
}

func TestLoad_UploadFailureTouchesNoTable(t *testing.T) {
	l, store, mock := newLoader(t)
	store.FailOn["rtb-ad-cost"] = assert.AnError

	_, err := l.Load(context.Background(), reportDate, sampleRows())
	require.ErrorIs(t, err, assert.AnError)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoad_CopyFailureAfterDelete(t *testing.T) {
	l, _, mock := newLoader(t)

	mock.ExpectExec(`DELETE FROM`).WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`COPY`).WillReturnError(assert.AnError)

	_, err := l.Load(context.Background(), reportDate, sampleRows())
	require.ErrorIs(t, err, assert.AnError)
	require.NoError(t, mock.ExpectationsWereMet())
}
