package models

// Source-native column names every export must carry.
const (
	ColReportDate  = "Date (UTC)"
	ColClicks      = "Clicks"
	ColImpressions = "Imps"
	ColCost        = "Cost (BRL)"
)

// RequiredColumns are projected, in this order, onto the canonical schema.
var RequiredColumns = []string{ColReportDate, ColClicks, ColImpressions, ColCost}

// CanonicalColumns is the fixed column order of the destination table.
var CanonicalColumns = []string{"date", "campaign", "source", "adclicks", "impressions", "adcost", "updated_ts"}

// UpdatedTSLayout formats the load timestamp stamped on each row.
const UpdatedTSLayout = "2006-01-02 15:04:05"

// CanonicalRow is one row of the unified output.
type CanonicalRow struct {
	Date        string `json:"date"`
	Campaign    string `json:"campaign"`
	Source      string `json:"source"`
	AdClicks    string `json:"adclicks"`
	Impressions string `json:"impressions"`
	AdCost      string `json:"adcost"`
	UpdatedTS   string `json:"updated_ts"`
}

// Record returns the row's fields in CanonicalColumns order.
func (r CanonicalRow) Record() []string {
	return []string{r.Date, r.Campaign, r.Source, r.AdClicks, r.Impressions, r.AdCost, r.UpdatedTS}
}
