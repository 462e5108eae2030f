// Package schema has the data types shared across branchreport.
package schema

import (
	"encoding/json"
	"io"
	"time"
)

// DisplayTimeFormat is the layout used for human-readable commit timestamps.
const DisplayTimeFormat = "2006-01-02 15:04:05"

// Epoch bounds for which FormatUnixTime yields a 4-digit year.
const (
	MinDisplayEpoch int64 = -62135596800 // 0001-01-01 00:00:00 UTC
	MaxDisplayEpoch int64 = 253402300799 // 9999-12-31 23:59:59 UTC
)

// BranchActivity is the activity window of a single branch as reported by
// the branch enumerator. Dates are epoch seconds.
type BranchActivity struct {
	Name            string `json:"name"`
	Author          string `json:"author"`    // Author of the earliest commit
	Committer       string `json:"committer"` // Committer of the earliest commit
	FirstCommitDate int64  `json:"first_commit_date"`
	LastCommitDate  int64  `json:"last_commit_date"`
	Duration        int64  `json:"duration"` // Seconds between first and last commit
}

// NewBranchActivity builds a BranchActivity and derives its duration.
// The first/last ordering is passed through as given.
func NewBranchActivity(name, author, committer string, first, last int64) BranchActivity {
	return BranchActivity{
		Name:            name,
		Author:          author,
		Committer:       committer,
		FirstCommitDate: first,
		LastCommitDate:  last,
		Duration:        last - first,
	}
}

// BranchReport adds display-ready timestamps to a BranchActivity.
// Field order here is the JSON key order of the report.
type BranchReport struct {
	Name            string `json:"name"`
	Author          string `json:"author"`
	Committer       string `json:"committer"`
	FirstCommitStr  string `json:"first_commit_str"`
	LastCommitStr   string `json:"last_commit_str"`
	FirstCommitDate int64  `json:"first_commit_date"`
	LastCommitDate  int64  `json:"last_commit_date"`
}

// NewBranchReport converts a BranchActivity into its report form.
// Everything except Duration is carried over unchanged.
func NewBranchReport(br BranchActivity) BranchReport {
	return BranchReport{
		Name:            br.Name,
		Author:          br.Author,
		Committer:       br.Committer,
		FirstCommitStr:  FormatUnixTime(br.FirstCommitDate),
		LastCommitStr:   FormatUnixTime(br.LastCommitDate),
		FirstCommitDate: br.FirstCommitDate,
		LastCommitDate:  br.LastCommitDate,
	}
}

// NewBranchReports converts each activity in order.
// The result is never nil so that an empty input serializes as [].
func NewBranchReports(activities []BranchActivity) []BranchReport {
	reports := make([]BranchReport, 0, len(activities))
	for _, br := range activities {
		reports = append(reports, NewBranchReport(br))
	}
	return reports
}

// EncodeBranchReports writes reports to w as a JSON array indented with two
// spaces and followed by a newline. HTML characters are written literally and
// a nil slice is written as [].
func EncodeBranchReports(w io.Writer, reports []BranchReport) error {
	if reports == nil {
		reports = []BranchReport{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(reports)
}

// FormatUnixTime renders epoch seconds as "YYYY-MM-DD HH:MM:SS" in UTC.
// Inputs outside [MinDisplayEpoch, MaxDisplayEpoch] still format
// deterministically, but the year is no longer four digits.
func FormatUnixTime(sec int64) string {
	return time.Unix(sec, 0).UTC().Format(DisplayTimeFormat)
}

// GetActivityLabel classifies a branch by the age of its last commit relative to now.
func GetActivityLabel(lastCommitDate int64, now time.Time) ActivityLabel {
	age := now.Sub(time.Unix(lastCommitDate, 0))
	switch {
	case age < 30*24*time.Hour:
		return ActiveLabel
	case age < 90*24*time.Hour:
		return RecentLabel
	case age < 365*24*time.Hour:
		return StaleLabel
	default:
		return DormantLabel
	}
}
