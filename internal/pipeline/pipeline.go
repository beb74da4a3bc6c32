package pipeline

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/stanstork/rtb-etl/internal/archive"
	"github.com/stanstork/rtb-etl/internal/loader"
	"github.com/stanstork/rtb-etl/internal/models"
	"github.com/stanstork/rtb-etl/internal/selector"
	"github.com/stanstork/rtb-etl/internal/spreadsheet"
	"github.com/stanstork/rtb-etl/internal/transform"
	"github.com/stanstork/rtb-etl/internal/validator"
)

// Pipeline runs one selection-to-load pass. Components are injected so each
// can be replaced in tests.
type Pipeline struct {
	Selector    *selector.Selector
	Reader      spreadsheet.Reader
	Archiver    *archive.Archiver
	Transformer *transform.Transformer
	Loader      *loader.Loader
	Logger      zerolog.Logger
}

// Result describes a successful run.
type Result struct {
	Selection     *selector.Selection
	ReportingDate string
	BackupKeys    []string
	Rows          int
	Load          *loader.Result
}

// Run selects the newest pair of exports under startPath, checks they agree
// on date and schema, archives them, and replaces the destination rows.
// Selection, date and schema failures return before anything is written.
func (p *Pipeline) Run(ctx context.Context, startPath string) (*Result, error) {
	sel, err := p.Selector.Select(startPath)
	if err != nil {
		return nil, err
	}
	p.Logger.Info().Strs("files", sel.Candidates).Msg("Candidate files")
	p.Logger.Info().Msgf("%s | %s", sel.InApp.Name, sel.Desktop.Name)

	if sel.Desktop.DateToken != sel.InApp.DateToken {
		return nil, &DateMismatchError{Desktop: sel.Desktop.DateToken, InApp: sel.InApp.DateToken}
	}
	date, err := models.ParseReportingDate(sel.Desktop.DateToken)
	if err != nil {
		return nil, &selector.SelectionError{Dir: startPath, Channel: models.ChannelDesktop, Err: err}
	}

	desktop, err := p.Reader.Read(sel.Desktop.Path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read desktop file")
	}
	inapp, err := p.Reader.Read(sel.InApp.Path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read in-app file")
	}

	if !validator.HasRequiredColumns(models.RequiredColumns, desktop, inapp) {
		missing := map[string][]string{}
		for _, f := range []struct {
			name  string
			sheet *models.Sheet
		}{{sel.Desktop.Name, desktop}, {sel.InApp.Name, inapp}} {
			if cols := validator.Missing(models.RequiredColumns, f.sheet); len(cols) > 0 {
				missing[f.name] = cols
			}
		}
		return nil, schemaMismatch(missing)
	}
	p.Logger.Info().Msg("Ok. Proceeding")

	res := &Result{Selection: sel, ReportingDate: sel.Desktop.DateToken}

	p.Logger.Info().Msg("2. backup_to_s3")
	res.BackupKeys, err = p.Archiver.Archive(ctx,
		archive.RawFile{File: sel.InApp, Sheet: inapp},
		archive.RawFile{File: sel.Desktop, Sheet: desktop},
	)
	if err != nil {
		return nil, err
	}

	rows, err := p.Transformer.Transform(desktop, inapp)
	if err != nil {
		return nil, errors.Wrap(err, "failed to transform source files")
	}
	res.Rows = len(rows)
	p.Logger.Info().Int("rows", res.Rows).Str("date", res.ReportingDate).Msg("Transformed source files")

	res.Load, err = p.Loader.Load(ctx, date, rows)
	if err != nil {
		p.Logger.Error().Strs("backup_keys", res.BackupKeys).Msg("Raw backups for the failed load")
		return nil, err
	}
	return res, nil
}
