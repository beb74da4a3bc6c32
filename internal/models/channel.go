package models

import (
	"time"

	"github.com/pkg/errors"
)

// Channel is one of the two traffic sources a run reconciles.
type Channel string

const (
	ChannelDesktop Channel = "desktop"
	ChannelInApp   Channel = "inapp"
)

// ReportingDateLayout is the layout of the date token embedded in file names.
const ReportingDateLayout = "20060102"

// SourceFile is a vendor export discovered in the start directory.
type SourceFile struct {
	Name    string  `json:"name"`
	Path    string  `json:"path"`
	Channel Channel `json:"channel"`
	// DateToken is the raw reporting date token extracted from Name.
	DateToken string `json:"date_token"`
}

// ParseReportingDate parses a file name date token such as "20240115".
func ParseReportingDate(token string) (time.Time, error) {
	t, err := time.Parse(ReportingDateLayout, token)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "invalid reporting date token %q", token)
	}
	return t, nil
}
