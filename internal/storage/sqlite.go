package storage

import (
	"database/sql"
	"time"

	_ "modernc.org/sqlite" // CGO-free SQLite driver

	"github.com/sthuthi2002/DevSecOps-project/internal/report"
)

// DB is the concrete storage backed by SQLite.
type DB struct {
	conn *sql.DB
}

// OpenSQLite opens (and creates if missing) a SQLite DB at path.
func OpenSQLite(path string) (*DB, error) {
	// Pragmas via DSN keep it portable with the modernc driver.
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)"
	c, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	return &DB{conn: c}, nil
}

func (db *DB) Close() error { return db.conn.Close() }

// CreateSchema ensures tables exist.
func (db *DB) CreateSchema() error {
	_, err := db.conn.Exec(`
CREATE TABLE IF NOT EXISTS reports (
  id           TEXT PRIMARY KEY,
  generated_at TEXT NOT NULL,   -- RFC3339, UTC
  build        TEXT NOT NULL,
  out_path     TEXT,
  html         TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_reports_generated ON reports(generated_at);

CREATE TABLE IF NOT EXISTS users (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  username TEXT UNIQUE NOT NULL,
  pass_hash TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'viewer',
  created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS sessions (
  token TEXT PRIMARY KEY,
  user_id INTEGER NOT NULL,
  expires_at TEXT NOT NULL,
  created_at TEXT NOT NULL,
  FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS audit (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  ts TEXT NOT NULL,
  username TEXT,
  action TEXT NOT NULL,
  resource TEXT,
  meta_json TEXT
);
`)
	return err
}

// SaveReport upserts a report row together with its rendered document.
func (db *DB) SaveReport(rep *report.Report, outPath, html string) error {
	ts := rep.GeneratedAt.UTC().Format(time.RFC3339Nano)
	_, err := db.conn.Exec(
		`INSERT INTO reports (id, generated_at, build, out_path, html)
         VALUES (?, ?, ?, ?, ?)
         ON CONFLICT(id) DO UPDATE SET generated_at=excluded.generated_at, build=excluded.build, out_path=excluded.out_path, html=excluded.html`,
		rep.ID, ts, rep.Build, outPath, html,
	)
	return err
}

// LoadReportHTML returns the stored document for one report.
func (db *DB) LoadReportHTML(id string) (string, error) {
	var s string
	err := db.conn.QueryRow(`SELECT html FROM reports WHERE id = ?`, id).Scan(&s)
	return s, err
}

// LatestReportHTML returns the most recently generated document.
func (db *DB) LatestReportHTML() (string, error) {
	var s string
	err := db.conn.QueryRow(
		`SELECT html FROM reports ORDER BY generated_at DESC, id DESC LIMIT 1`,
	).Scan(&s)
	return s, err
}
