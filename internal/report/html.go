package report

import (
	"fmt"
	"html"
	"io"
	"os"
	"strings"
)

// DefaultOutPath is where generate writes unless configured otherwise.
const DefaultOutPath = "security-report.html"

// timeLayout matches the CI convention: zero-padded, 24-hour, local zone.
const timeLayout = "2006-01-02 15:04:05"

// HTML renders the report document. Values are escaped before embedding;
// BUILD_NUMBER is CI-controlled in theory but nothing enforces that.
func HTML(r *Report) string {
	var b strings.Builder
	b.WriteString("<html><head><title>DevSecOps Report</title></head><body>\n")
	b.WriteString("<h1>DevSecOps Security Report</h1>\n")
	fmt.Fprintf(&b, "<p>Generated: %s</p><p>Build: #%s</p>\n",
		r.GeneratedAt.Format(timeLayout),
		html.EscapeString(r.Build),
	)
	b.WriteString("<h2>Summary</h2>\n<ul>")
	for _, a := range r.Artifacts {
		fmt.Fprintf(&b, "<li>%s: %s</li>", html.EscapeString(a.Label), html.EscapeString(a.Ref))
	}
	b.WriteString("</ul>\n</body></html>")
	return b.String()
}

// Render writes the report document to w.
func Render(w io.Writer, r *Report) error {
	_, err := io.WriteString(w, HTML(r))
	return err
}

// WriteHTML renders the report to path with create-or-truncate semantics.
// The document is rendered before the file is opened, so a failed write
// never leaves a half-rendered report behind a still-open handle.
func WriteHTML(path string, r *Report) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return Render(f, r)
}
