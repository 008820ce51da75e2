package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/sthuthi2002/DevSecOps-project/internal/report"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := db.CreateSchema(); err != nil {
		t.Fatalf("schema: %v", err)
	}
	return db
}

func sampleReport(id string, at time.Time, build string) report.Report {
	return report.Report{ID: id, GeneratedAt: at, Build: build, Artifacts: report.DefaultArtifacts()}
}

func TestSaveAndLoadReport(t *testing.T) {
	db := newTestDB(t)
	rep := sampleReport("report-a", time.Now(), "42")
	doc := report.HTML(&rep)

	if err := db.SaveReport(&rep, "security-report.html", doc); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := db.LoadReportHTML("report-a")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != doc {
		t.Fatalf("document not returned verbatim.\n got: %q\nwant: %q", got, doc)
	}

	// upsert replaces the document
	rep.Build = "43"
	doc2 := report.HTML(&rep)
	if err := db.SaveReport(&rep, "security-report.html", doc2); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	got, err = db.LoadReportHTML("report-a")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got != doc2 {
		t.Fatalf("upsert did not replace document")
	}
}

func TestLoadReportMissing(t *testing.T) {
	db := newTestDB(t)
	if _, err := db.LoadReportHTML("report-missing"); err == nil {
		t.Fatal("expected error for missing report")
	}
	if _, err := db.LatestReportHTML(); err == nil {
		t.Fatal("expected error for empty store")
	}
}

func TestLatestAndList(t *testing.T) {
	db := newTestDB(t)
	older := sampleReport("report-old", time.Now().Add(-time.Hour), "41")
	newer := sampleReport("report-new", time.Now(), "42")

	for _, r := range []*report.Report{&older, &newer} {
		if err := db.SaveReport(r, "security-report.html", report.HTML(r)); err != nil {
			t.Fatalf("save %s: %v", r.ID, err)
		}
	}

	latest, err := db.LatestReportHTML()
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest != report.HTML(&newer) {
		t.Fatal("latest did not return the newest document")
	}

	rows, err := db.ListReports(10, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows: got %d, want 2", len(rows))
	}
	if rows[0].ID != "report-new" || rows[1].ID != "report-old" {
		t.Fatalf("ordering wrong: %s, %s", rows[0].ID, rows[1].ID)
	}
	if rows[0].Build != "42" || rows[0].OutPath != "security-report.html" {
		t.Fatalf("row fields: %+v", rows[0])
	}
	if rows[0].Bytes != len(report.HTML(&newer)) {
		t.Fatalf("bytes: got %d, want %d", rows[0].Bytes, len(report.HTML(&newer)))
	}

	limited, err := db.ListReports(1, 0)
	if err != nil {
		t.Fatalf("list limit: %v", err)
	}
	if len(limited) != 1 || limited[0].ID != "report-new" {
		t.Fatalf("limit: %+v", limited)
	}
}

func TestUsersAndSessions(t *testing.T) {
	db := newTestDB(t)

	id, err := db.CreateUser("ops", "hash-ops", "admin")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	u, hash, err := db.GetUserByUsername("ops")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if u.ID != id || u.Role != "admin" || hash != "hash-ops" {
		t.Fatalf("user row: %+v hash=%q", u, hash)
	}
	if _, _, err := db.GetUserByUsername("nobody"); err == nil {
		t.Fatal("expected error for unknown user")
	}

	if err := db.CreateSession(id, "tok-live", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("create session: %v", err)
	}
	su, err := db.GetSession("tok-live")
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if su.Username != "ops" {
		t.Fatalf("session user: %+v", su)
	}

	if err := db.CreateSession(id, "tok-dead", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("create expired session: %v", err)
	}
	if _, err := db.GetSession("tok-dead"); err == nil {
		t.Fatal("expired session should not resolve")
	}
	n, err := db.DeleteExpiredSessions()
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if n != 1 {
		t.Fatalf("purge count: got %d, want 1", n)
	}

	if err := db.DeleteSession("tok-live"); err != nil {
		t.Fatalf("delete session: %v", err)
	}
	if _, err := db.GetSession("tok-live"); err == nil {
		t.Fatal("deleted session should not resolve")
	}

	if err := db.LogAudit("ops", "login", "", map[string]any{"ip": "127.0.0.1"}); err != nil {
		t.Fatalf("audit: %v", err)
	}
}
