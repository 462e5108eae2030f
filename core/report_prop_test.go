package core

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/huangsam/branchreport/schema"
	"pgregory.net/rapid"
)

func drawActivities(t *rapid.T) []schema.BranchActivity {
	return rapid.SliceOfN(rapid.Custom(func(t *rapid.T) schema.BranchActivity {
		return schema.NewBranchActivity(
			rapid.StringMatching(`[a-z][a-z0-9/_-]{0,15}`).Draw(t, "name"),
			rapid.StringMatching(`[A-Za-z][A-Za-z .]{0,20}`).Draw(t, "author"),
			rapid.StringMatching(`[A-Za-z][A-Za-z .]{0,20}`).Draw(t, "committer"),
			rapid.Int64Range(schema.MinDisplayEpoch, schema.MaxDisplayEpoch).Draw(t, "first"),
			rapid.Int64Range(schema.MinDisplayEpoch, schema.MaxDisplayEpoch).Draw(t, "last"),
		)
	}), 0, 12).Draw(t, "activities")
}

// TestProperty_SerializationIdempotent checks rendering the same reports twice is byte-identical.
func TestProperty_SerializationIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		reports := schema.NewBranchReports(drawActivities(t))

		first, err := MarshalReport(reports)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, err := MarshalReport(reports)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if first != second {
			t.Fatalf("serialization is not idempotent")
		}
	})
}

// TestProperty_ReportRoundTrip checks the JSON decodes back into the same reports in order.
func TestProperty_ReportRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		activities := drawActivities(t)
		access := &fakeAccess{handle: &fakeHandle{path: "/repo"}}

		out, err := BuildReport(context.Background(), "/repo", access, &fakeEnumerator{activities: activities})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var decoded []schema.BranchReport
		if err := json.Unmarshal([]byte(out), &decoded); err != nil {
			t.Fatalf("report is not valid JSON: %v", err)
		}
		if len(decoded) != len(activities) {
			t.Fatalf("got %d reports, want %d", len(decoded), len(activities))
		}
		for i, br := range activities {
			want := schema.NewBranchReport(br)
			if decoded[i] != want {
				t.Fatalf("report %d = %+v, want %+v", i, decoded[i], want)
			}
		}
	})
}
