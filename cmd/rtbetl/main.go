package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/stanstork/rtb-etl/internal/archive"
	"github.com/stanstork/rtb-etl/internal/config"
	"github.com/stanstork/rtb-etl/internal/loader"
	"github.com/stanstork/rtb-etl/internal/models"
	"github.com/stanstork/rtb-etl/internal/pipeline"
	"github.com/stanstork/rtb-etl/internal/repository"
	"github.com/stanstork/rtb-etl/internal/selector"
	"github.com/stanstork/rtb-etl/internal/spreadsheet"
	"github.com/stanstork/rtb-etl/internal/storage"
	"github.com/stanstork/rtb-etl/internal/transform"

	_ "github.com/lib/pq" // Redshift speaks the PostgreSQL protocol
)

const dateMismatchMessage = "Error: Both files must have same start date"

var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("postgres", dsn)
}

type application struct {
	config *config.Config
	db     *sql.DB
	logger zerolog.Logger
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "rtbetl <startpath>",
		Short:         "Load the latest RTB House desktop and in-app cost reports into Redshift",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(out)
			return run(cmd.Context(), logger, out, configPath, args[0])
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to config.yaml (default: ./config.yaml or ./config/config.yaml)")
	return cmd
}

// newLogger sets up the human-readable console log every run prints.
func newLogger(out io.Writer) zerolog.Logger {
	consoleWriter := zerolog.ConsoleWriter{Out: out, TimeFormat: time.DateTime, NoColor: true}
	logger := zerolog.New(consoleWriter).With().
		Timestamp().
		Str("run_id", uuid.NewString()).
		Logger()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.SetFlags(0)
	log.SetOutput(logger)
	return logger
}

func run(ctx context.Context, logger zerolog.Logger, out io.Writer, configPath, startPath string) error {
	logger.Info().Msg(strings.Repeat("-", 60))
	logger.Info().Msgf("Log Timestamp : %s", time.Now().Format(time.DateTime))

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return err
	}

	// sql.Open does not dial; the first statement does.
	logger.Info().Msg("1. connect")
	db, err := openDB(cfg.Redshift.DSN())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to open the database")
		return err
	}
	app := &application{config: cfg, db: db, logger: logger}
	defer app.closeDB()

	p, err := app.newPipeline(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to build pipeline")
		return err
	}

	res, err := p.Run(ctx, startPath)
	if err != nil {
		var mismatch *pipeline.DateMismatchError
		if errors.As(err, &mismatch) {
			logger.Warn().Str("desktop", mismatch.Desktop).Str("inapp", mismatch.InApp).Msg("Reporting dates differ")
			fmt.Fprintln(out, dateMismatchMessage)
			return err
		}
		logger.Error().Err(err).Msg("Run failed")
		return err
	}

	logger.Info().
		Str("date", res.ReportingDate).
		Int("rows", res.Rows).
		Int64("rows_deleted", res.Load.RowsDeleted).
		Str("staged_key", res.Load.StagedKey).
		Msg("Run completed")
	return nil
}

// newPipeline wires every component from the loaded configuration.
func (app *application) newPipeline(ctx context.Context) (*pipeline.Pipeline, error) {
	cfg := app.config
	logger := app.logger

	store, err := storage.NewS3Store(ctx, cfg.S3, logger)
	if err != nil {
		return nil, err
	}
	repo := repository.NewAdCostRepository(app.db, cfg.Job.QualifiedTable(), logger)

	return &pipeline.Pipeline{
		Selector: selector.New(selector.Convention{
			Prefix:      cfg.Job.FilePrefix,
			Extension:   cfg.Job.FileExtension,
			InAppMarker: cfg.Job.InAppMarker,
		}),
		Reader:   spreadsheet.NewXLSXReader(models.ColReportDate),
		Archiver: archive.NewArchiver(store, cfg.Job.BackupFolder, logger),
		Transformer: transform.NewTransformer(transform.Labels{
			Campaign: cfg.Job.Campaign,
			Desktop:  cfg.Job.DesktopSource,
			InApp:    cfg.Job.InAppSource,
		}, logger),
		Loader: loader.NewLoader(store, repo, loader.Settings{
			Folder:    cfg.Job.ProdFolder,
			Schema:    cfg.Job.Schema,
			AdSource:  cfg.Job.AdSource,
			Region:    cfg.S3.Region,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
		}, logger),
		Logger: logger,
	}, nil
}

// closeDB releases the connection pool. Errors are logged, never returned,
// so they cannot mask the outcome of the run.
func (app *application) closeDB() {
	app.logger.Info().Msg("6. end_connection")
	if err := app.db.Close(); err != nil {
		app.logger.Error().Err(err).Msg("Failed to close database connection")
		return
	}
	app.logger.Info().Msg("Connection closed")
}
