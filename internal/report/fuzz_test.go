package report

import (
	"strings"
	"testing"
	"time"
)

// FuzzHTML checks that no build value can break out of its text position:
// the region between "Build: #" and the closing tag must stay markup-free.
func FuzzHTML(f *testing.F) {
	f.Add("42")
	f.Add("")
	f.Add("Unknown")
	f.Add(`<script>alert(1)</script>`)
	f.Add(`a&b"c'd`)
	f.Add("multi\nline")

	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	f.Fuzz(func(t *testing.T, build string) {
		rep := New(now, build, nil)
		doc := HTML(&rep)

		const marker = "Build: #"
		i := strings.Index(doc, marker)
		if i < 0 {
			t.Fatalf("no build marker in document:\n%s", doc)
		}
		rest := doc[i+len(marker):]
		j := strings.Index(rest, "</p>")
		if j < 0 {
			t.Fatalf("unterminated build paragraph:\n%s", doc)
		}
		if v := rest[:j]; strings.ContainsAny(v, "<>") {
			t.Fatalf("unescaped markup in build value %q -> %q", build, v)
		}
	})
}
