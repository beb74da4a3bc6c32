package archive

import (
	"context"
	"path"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/stanstork/rtb-etl/internal/csvutil"
	"github.com/stanstork/rtb-etl/internal/models"
	"github.com/stanstork/rtb-etl/internal/storage"
)

// RawFile pairs a selected export with its untransformed content.
type RawFile struct {
	File  models.SourceFile
	Sheet *models.Sheet
}

// Archiver writes raw exports to the backup folder before anything is loaded.
type Archiver struct {
	store  storage.ObjectStore
	folder string
	logger zerolog.Logger
}

func NewArchiver(store storage.ObjectStore, folder string, logger zerolog.Logger) *Archiver {
	return &Archiver{store: store, folder: folder, logger: logger}
}

// Key returns the backup object key for a source file.
func (a *Archiver) Key(f models.SourceFile) string {
	return path.Join(a.folder, f.Name)
}

// Archive uploads every file and returns the written keys. It stops at the
// first failed upload.
func (a *Archiver) Archive(ctx context.Context, files ...RawFile) ([]string, error) {
	keys := make([]string, 0, len(files))
	for _, f := range files {
		body, err := csvutil.EncodeRecords(f.Sheet.Header, f.Sheet.Rows)
		if err != nil {
			return keys, errors.Wrapf(err, "encode raw %s", f.File.Name)
		}

		key := a.Key(f.File)
		if err := a.store.Put(ctx, key, body, "text/csv"); err != nil {
			return keys, errors.Wrapf(err, "archive %s", f.File.Name)
		}
		a.logger.Info().Str("key", key).Int("rows", len(f.Sheet.Rows)).Msg("Archived raw file")
		keys = append(keys, key)
	}
	return keys, nil
}
