package storage

import (
	"fmt"

	"github.com/aws/smithy-go/logging"
	"github.com/rs/zerolog"
)

// AWSLogAdapter routes AWS SDK log output into zerolog.
type AWSLogAdapter struct {
	logger zerolog.Logger
}

func NewAWSLogAdapter(logger zerolog.Logger) logging.Logger {
	return &AWSLogAdapter{
		logger: logger.With().Str("component", "aws-sdk").Logger(),
	}
}

// Logf logs an SDK message at the level matching its classification.
func (a *AWSLogAdapter) Logf(classification logging.Classification, format string, v ...interface{}) {
	var event *zerolog.Event
	switch classification {
	case logging.Warn:
		event = a.logger.Warn()
	case logging.Debug:
		event = a.logger.Debug()
	default:
		event = a.logger.Info()
	}
	event.Msg(fmt.Sprintf(format, v...))
}
