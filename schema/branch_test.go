package schema_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/branchreport/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatUnixTime(t *testing.T) {
	tests := []struct {
		name     string
		epoch    int64
		expected string
	}{
		{"Master First Commit", 1610519809, "2021-01-13 06:36:49"},
		{"Master Last Commit", 1610541520, "2021-01-13 12:38:40"},
		{"Unix Epoch", 0, "1970-01-01 00:00:00"},
		{"One Second Before Epoch", -1, "1969-12-31 23:59:59"},
		{"Moon Landing", -14182940, "1969-07-20 20:17:40"},
		{"Leap Day", 951782400, "2000-02-29 00:00:00"},
		{"Lower Display Bound", schema.MinDisplayEpoch, "0001-01-01 00:00:00"},
		{"Upper Display Bound", schema.MaxDisplayEpoch, "9999-12-31 23:59:59"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, schema.FormatUnixTime(tt.epoch))
		})
	}
}

func TestFormatUnixTimeIgnoresLocalZone(t *testing.T) {
	orig := time.Local
	defer func() { time.Local = orig }()

	time.Local = time.FixedZone("UTC+8", 8*60*60)
	assert.Equal(t, "2021-01-13 06:36:49", schema.FormatUnixTime(1610519809))
}

func TestNewBranchActivity(t *testing.T) {
	br := schema.NewBranchActivity("master", "GitHub", "Phodal HUANG", 1610519809, 1610541520)

	assert.Equal(t, "master", br.Name)
	assert.Equal(t, "GitHub", br.Author)
	assert.Equal(t, "Phodal HUANG", br.Committer)
	assert.Equal(t, int64(21711), br.Duration)
}

func TestNewBranchReport(t *testing.T) {
	report := schema.NewBranchReport(schema.BranchActivity{
		Name:            "master",
		FirstCommitDate: 1610519809,
		LastCommitDate:  1610541520,
		Duration:        21711,
		Author:          "GitHub",
		Committer:       "Phodal HUANG",
	})

	assert.Equal(t, "master", report.Name)
	assert.Equal(t, "GitHub", report.Author)
	assert.Equal(t, "Phodal HUANG", report.Committer)
	assert.Equal(t, "2021-01-13 06:36:49", report.FirstCommitStr)
	assert.Equal(t, "2021-01-13 12:38:40", report.LastCommitStr)
	assert.Equal(t, int64(1610519809), report.FirstCommitDate)
	assert.Equal(t, int64(1610541520), report.LastCommitDate)
}

func TestNewBranchReportPassesThroughInvertedDates(t *testing.T) {
	report := schema.NewBranchReport(schema.NewBranchActivity("odd", "a", "c", 200, 100))

	assert.Equal(t, int64(200), report.FirstCommitDate)
	assert.Equal(t, int64(100), report.LastCommitDate)
}

func TestNewBranchReports(t *testing.T) {
	t.Run("preserves order", func(t *testing.T) {
		reports := schema.NewBranchReports([]schema.BranchActivity{
			{Name: "zeta"},
			{Name: "alpha"},
			{Name: "main"},
		})
		require.Len(t, reports, 3)
		assert.Equal(t, "zeta", reports[0].Name)
		assert.Equal(t, "alpha", reports[1].Name)
		assert.Equal(t, "main", reports[2].Name)
	})

	t.Run("empty input is not nil", func(t *testing.T) {
		reports := schema.NewBranchReports(nil)
		assert.NotNil(t, reports)
		assert.Empty(t, reports)
	})
}

func TestBranchReportJSONKeys(t *testing.T) {
	data, err := json.Marshal(schema.NewBranchReport(schema.NewBranchActivity("main", "a", "c", 0, 60)))
	require.NoError(t, err)

	expected := `{"name":"main","author":"a","committer":"c",` +
		`"first_commit_str":"1970-01-01 00:00:00","last_commit_str":"1970-01-01 00:01:00",` +
		`"first_commit_date":0,"last_commit_date":60}`
	assert.Equal(t, expected, string(data))
	assert.NotContains(t, string(data), "duration")
}

func TestEncodeBranchReports(t *testing.T) {
	t.Run("nil writes empty array", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, schema.EncodeBranchReports(&buf, nil))
		assert.Equal(t, "[]\n", buf.String())
	})

	t.Run("HTML characters are literal", func(t *testing.T) {
		var buf bytes.Buffer
		reports := []schema.BranchReport{schema.NewBranchReport(schema.NewBranchActivity("feat<&>", "a", "c", 0, 0))}
		require.NoError(t, schema.EncodeBranchReports(&buf, reports))
		assert.Contains(t, buf.String(), `"name": "feat<&>",`)
		assert.True(t, strings.HasPrefix(buf.String(), "[\n  {\n    \"name\""))
	})
}

func TestGetActivityLabel(t *testing.T) {
	now := time.Date(2025, time.November, 3, 10, 0, 0, 0, time.UTC)
	day := int64(24 * 60 * 60)

	tests := []struct {
		name     string
		last     int64
		expected schema.ActivityLabel
	}{
		{"Today", now.Unix(), schema.ActiveLabel},
		{"29 Days", now.Unix() - 29*day, schema.ActiveLabel},
		{"30 Days", now.Unix() - 30*day, schema.RecentLabel},
		{"89 Days", now.Unix() - 89*day, schema.RecentLabel},
		{"90 Days", now.Unix() - 90*day, schema.StaleLabel},
		{"364 Days", now.Unix() - 364*day, schema.StaleLabel},
		{"365 Days", now.Unix() - 365*day, schema.DormantLabel},
		{"Future Commit", now.Unix() + day, schema.ActiveLabel}, // Edge case
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, schema.GetActivityLabel(tt.last, now))
		})
	}
}
