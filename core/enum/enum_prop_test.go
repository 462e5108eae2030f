package enum

import (
	"strings"
	"testing"

	"pgregory.net/rapid"
)

// TestProperty_LogWindowBounds checks first/last are the min/max of any commit list.
func TestProperty_LogWindowBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		epochs := rapid.SliceOfN(rapid.Int64Range(-1<<40, 1<<40), 1, 50).Draw(t, "epochs")

		lines := make([]string, len(epochs))
		lo, hi := epochs[0], epochs[0]
		for i, e := range epochs {
			lines[i] = logLine(e, "a", "c")
			lo = min(lo, e)
			hi = max(hi, e)
		}

		br, err := parseBranchLog("b", []byte(strings.Join(lines, "\n")))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if br.FirstCommitDate != lo || br.LastCommitDate != hi {
			t.Fatalf("got [%d, %d], want [%d, %d]", br.FirstCommitDate, br.LastCommitDate, lo, hi)
		}
		if br.FirstCommitDate > br.LastCommitDate {
			t.Fatalf("first %d after last %d", br.FirstCommitDate, br.LastCommitDate)
		}
	})
}

// TestProperty_RefsSkipSymbolic checks every symbolic ref is dropped and order is kept.
func TestProperty_RefsSkipSymbolic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		names := rapid.SliceOfNDistinct(rapid.StringMatching(`[a-z]{1,8}`), 0, 20, rapid.ID[string]).Draw(t, "names")
		symbolic := make([]bool, len(names))

		var lines, want []string
		for i, n := range names {
			symbolic[i] = rapid.Bool().Draw(t, "symbolic")
			sym := ""
			if symbolic[i] {
				sym = "refs/heads/target"
			} else {
				want = append(want, n)
			}
			lines = append(lines, refLine("refs/heads/"+n, n, "h", sym))
		}

		refs := parseBranchRefs([]byte(strings.Join(lines, "\n")))
		if len(refs) != len(want) {
			t.Fatalf("got %d refs, want %d", len(refs), len(want))
		}
		for i, r := range refs {
			if r.ShortName != want[i] {
				t.Fatalf("ref %d = %q, want %q", i, r.ShortName, want[i])
			}
		}
	})
}
