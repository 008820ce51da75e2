package storage

import "time"

// ReportRow is a lightweight listing row for /reports and the history
// subcommand; the document body stays in the database.
type ReportRow struct {
	ID          string    `json:"id"`
	GeneratedAt time.Time `json:"generated_at"`
	Build       string    `json:"build"`
	OutPath     string    `json:"out_path,omitempty"`
	Bytes       int       `json:"bytes"`
}

// ListReports returns report rows, newest first.
func (db *DB) ListReports(limit, offset int) ([]ReportRow, error) {
	const q = `
		SELECT id, generated_at, COALESCE(build,''), COALESCE(out_path,''), LENGTH(html)
		  FROM reports
		 ORDER BY generated_at DESC, id DESC
		 LIMIT ? OFFSET ?`
	rows, err := db.conn.Query(q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ReportRow
	for rows.Next() {
		var rr ReportRow
		var generatedAt string
		if err := rows.Scan(&rr.ID, &generatedAt, &rr.Build, &rr.OutPath, &rr.Bytes); err != nil {
			return nil, err
		}
		rr.GeneratedAt = parseStored(generatedAt)
		out = append(out, rr)
	}
	return out, rows.Err()
}

// parseStored accepts both nano and second precision RFC3339; rows written
// by older builds used the coarser form.
func parseStored(s string) time.Time {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}
