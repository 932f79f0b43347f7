package main

import (
	"database/sql"
	"encoding/json"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS week_summaries (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		file           TEXT NOT NULL,
		label          TEXT NOT NULL,
		sort_key       REAL NOT NULL,
		total          INTEGER NOT NULL,
		violations     INTEGER NOT NULL,
		non_violations INTEGER NOT NULL,
		per_associate  TEXT DEFAULT '{}',
		per_metric     TEXT DEFAULT '{}',
		loaded_at      DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_week_summaries_file ON week_summaries(file);
	CREATE INDEX IF NOT EXISTS idx_week_summaries_loaded_at ON week_summaries(loaded_at);
	`
	_, err = db.Exec(schema)
	if err != nil {
		return nil, err
	}

	return db, nil
}

// InsertWeekSummary archives one computed weekly summary. Every successful
// load appends a snapshot; the trend view reads the newest snapshot per file.
func InsertWeekSummary(db *sql.DB, ds Dataset, s Summary) error {
	perAssociate, err := json.Marshal(s.PerAssociate)
	if err != nil {
		return err
	}
	perMetric, err := json.Marshal(s.PerMetricType)
	if err != nil {
		return err
	}
	_, err = db.Exec(
		`INSERT INTO week_summaries (file, label, sort_key, total, violations, non_violations, per_associate, per_metric)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ds.File, ds.Label, ds.SortKey, s.Total, s.Violations, s.NonViolations,
		string(perAssociate), string(perMetric),
	)
	return err
}

type WeekTrendPoint struct {
	File          string
	Label         string
	SortKey       float64
	Total         int
	Violations    int
	NonViolations int
	LoadedAt      time.Time
}

// GetWeekTrend returns the newest archived snapshot for each week, in
// chronological order. Weeks with unparseable filenames carry an infinite
// sort key and land at the end.
func GetWeekTrend(db *sql.DB) ([]WeekTrendPoint, error) {
	rows, err := db.Query(
		`SELECT file, label, sort_key, total, violations, non_violations, loaded_at
		 FROM week_summaries
		 WHERE id IN (SELECT MAX(id) FROM week_summaries GROUP BY file)
		 ORDER BY sort_key ASC, file ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []WeekTrendPoint
	for rows.Next() {
		var p WeekTrendPoint
		if err := rows.Scan(&p.File, &p.Label, &p.SortKey, &p.Total, &p.Violations, &p.NonViolations, &p.LoadedAt); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// GetWeekSnapshotCount reports how many snapshots have been archived for a
// file, mostly for the refresh log line.
func GetWeekSnapshotCount(db *sql.DB, file string) (int, error) {
	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM week_summaries WHERE file = ?`, file).Scan(&count)
	return count, err
}
