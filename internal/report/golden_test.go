package report

import (
	"bytes"
	"flag"
	"os"
	"testing"
)

var update = flag.Bool("update", false, "update golden snapshot")

const goldenFile = "testdata/report_golden.html"

func TestGolden_ReportDocument(t *testing.T) {
	rep := fixedReport()
	got := []byte(HTML(&rep))

	if *update {
		if err := os.WriteFile(goldenFile, got, 0o644); err != nil {
			t.Fatalf("write golden: %v", err)
		}
		t.Logf("updated %s", goldenFile)
		return
	}

	want, err := os.ReadFile(goldenFile)
	if err != nil {
		t.Fatalf("read golden (%s): %v\nRun with: go test ./internal/report -run TestGolden_ReportDocument -args -update", goldenFile, err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("golden mismatch.\n got: %q\nwant: %q\nTip: update with\n  go test ./internal/report -run TestGolden_ReportDocument -count=1 -args -update", got, want)
	}
}
