package loader

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/stanstork/rtb-etl/internal/models"
	"github.com/stanstork/rtb-etl/internal/repository"
	"github.com/stanstork/rtb-etl/internal/storage"
)

// Settings fix where the staged object lives and how the warehouse reads it.
type Settings struct {
	Folder    string
	Schema    string
	AdSource  string
	Region    string
	AccessKey string
	SecretKey string
}

// Result summarizes a completed load.
type Result struct {
	StagedKey   string
	RowsStaged  int
	RowsDeleted int64
}

type Loader struct {
	store    storage.ObjectStore
	repo     repository.AdCostRepository
	settings Settings
	logger   zerolog.Logger
}

func NewLoader(store storage.ObjectStore, repo repository.AdCostRepository, settings Settings, logger zerolog.Logger) *Loader {
	return &Loader{store: store, repo: repo, settings: settings, logger: logger}
}

// StagedKey returns the object key for a reporting date token, e.g.
// "<folder>/manual_data_sources.rtb-ad-cost-20240115.csv".
func (l *Loader) StagedKey(token string) string {
	return path.Join(l.settings.Folder, fmt.Sprintf("%s.%s-%s.csv", l.settings.Schema, l.settings.AdSource, token))
}

// Load stages rows and replaces every destination row dated on or after date.
// A failure after the delete leaves that range empty until the next successful run.
func (l *Loader) Load(ctx context.Context, date time.Time, rows []models.CanonicalRow) (*Result, error) {
	token := date.Format(models.ReportingDateLayout)
	res := &Result{StagedKey: l.StagedKey(token), RowsStaged: len(rows)}

	body, err := EncodeCSV(rows)
	if err != nil {
		return nil, err
	}

	l.logger.Info().Msg("3. upload_to_s3")
	if err := l.store.Put(ctx, res.StagedKey, body, "text/csv"); err != nil {
		return nil, errors.Wrap(err, "failed to stage canonical rows")
	}
	l.logger.Info().Str("key", res.StagedKey).Int("rows", len(rows)).Msg("Staged canonical rows")

	l.logger.Info().Msg("4. delete_from_date")
	if res.RowsDeleted, err = l.repo.DeleteFrom(ctx, date); err != nil {
		return nil, err
	}

	l.logger.Info().Msg("5. upload_to_redshift")
	if err := l.repo.EnsureTable(ctx); err != nil {
		l.logGap(res, date)
		return nil, err
	}
	src := repository.CopySource{
		URI:       l.store.URI(res.StagedKey),
		Region:    l.settings.Region,
		AccessKey: l.settings.AccessKey,
		SecretKey: l.settings.SecretKey,
	}
	if err := l.repo.CopyFrom(ctx, src); err != nil {
		l.logGap(res, date)
		return nil, err
	}

	l.logger.Info().Msg("Finished processing")
	return res, nil
}

func (l *Loader) logGap(res *Result, date time.Time) {
	l.logger.Error().
		Str("from_date", date.Format("2006-01-02")).
		Int64("rows_deleted", res.RowsDeleted).
		Str("staged_key", res.StagedKey).
		Msg("Destination rows were deleted but not reloaded; re-run the job to restore them")
}
