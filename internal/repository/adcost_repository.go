package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// CopySource describes a staged object and the credentials the warehouse
// uses to read it.
type CopySource struct {
	URI       string
	Region    string
	AccessKey string
	SecretKey string
}

type AdCostRepository interface {
	// DeleteFrom removes every row dated on or after date.
	DeleteFrom(ctx context.Context, date time.Time) (int64, error)
	EnsureTable(ctx context.Context) error
	// CopyFrom bulk-loads a staged CSV object into the table.
	CopyFrom(ctx context.Context, src CopySource) error
}

type adCostRepository struct {
	db     *sql.DB
	table  string
	logger zerolog.Logger
}

// NewAdCostRepository returns a repository over the schema-qualified table.
func NewAdCostRepository(db *sql.DB, table string, logger zerolog.Logger) AdCostRepository {
	return &adCostRepository{db: db, table: table, logger: logger}
}

func (r *adCostRepository) DeleteFrom(ctx context.Context, date time.Time) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE date >= $1`, r.table)
	day := date.Format("2006-01-02")
	r.logger.Info().Str("sql", query).Str("date", day).Msg("Deleting rows from date")

	res, err := r.db.ExecContext(ctx, query, day)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to delete from %s", r.table)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (r *adCostRepository) EnsureTable(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id          INT IDENTITY(1,1),
			date        DATE NOT NULL,
			campaign    VARCHAR(256) NOT NULL,
			source      VARCHAR(256) NOT NULL,
			adclicks    VARCHAR(256) NULL,
			impressions VARCHAR(256) NULL,
			adcost      FLOAT NULL,
			updated_ts  TIMESTAMP NOT NULL
		)`, r.table)

	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return errors.Wrapf(err, "failed to create table %s", r.table)
	}
	return nil
}

func (r *adCostRepository) CopyFrom(ctx context.Context, src CopySource) error {
	query := copyStatement(r.table, src)
	r.logger.Info().Str("sql", copyStatement(r.table, redacted(src))).Msg("Copying staged object")

	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return errors.Wrapf(err, "failed to copy %s into %s", src.URI, r.table)
	}
	return nil
}

// COPY does not accept bind parameters, so literals are quoted inline.
func copyStatement(table string, src CopySource) string {
	return fmt.Sprintf(`
		COPY %s (date, campaign, source, adclicks, impressions, adcost, updated_ts)
		FROM %s
		ACCEPTINVCHARS
		DELIMITER ','
		IGNOREHEADER 1
		CSV QUOTE AS '"'
		DATEFORMAT 'auto'
		TIMEFORMAT 'auto'
		REGION %s
		ACCESS_KEY_ID %s
		SECRET_ACCESS_KEY %s`,
		table, quote(src.URI), quote(src.Region), quote(src.AccessKey), quote(src.SecretKey))
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func redacted(src CopySource) CopySource {
	src.AccessKey = "***"
	src.SecretKey = "***"
	return src
}
