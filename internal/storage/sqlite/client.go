// Package sqlite persists finished reports so the operator can list and
// re-fetch past runs. The analytics pipeline itself never reads from here.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/contentpulse/backend/internal/report"
	"github.com/contentpulse/backend/pkg/logger"
)

type Client struct {
	db *sql.DB
}

func NewClient(dbPath string) (*Client, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err = db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	logger.Info("SQLite client initialized", zap.String("path", dbPath))

	return &Client{db: db}, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

func (c *Client) InitSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS reports (
		report_id TEXT PRIMARY KEY,
		report_type TEXT NOT NULL,
		tier TEXT NOT NULL,
		total_records INTEGER NOT NULL,
		total_cost REAL NOT NULL,
		partial INTEGER DEFAULT 0,
		generated_at INTEGER NOT NULL,
		payload TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_reports_type ON reports(report_type);
	CREATE INDEX IF NOT EXISTS idx_reports_generated ON reports(generated_at);
	`

	if _, err := c.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Info("SQLite schema initialized")
	return nil
}

// SaveReport stores the full report payload plus the columns the history
// listing needs. Implements report.HistoryStore.
func (c *Client) SaveReport(rep *report.AnalyticsReport) error {
	payload, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	partial := 0
	if rep.Partial {
		partial = 1
	}

	query := `
		INSERT INTO reports (report_id, report_type, tier, total_records, total_cost, partial, generated_at, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = c.db.Exec(
		query,
		rep.ReportID,
		string(rep.ReportType),
		string(rep.Tier),
		rep.Summary.TotalRecords,
		rep.CostAnalysis.TotalCost,
		partial,
		rep.GeneratedAt.Unix(),
		string(payload),
	)
	if err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}

	logger.Debug("Report persisted", zap.String("report_id", rep.ReportID))
	return nil
}

type ReportEntry struct {
	ReportID     string    `json:"reportId"`
	ReportType   string    `json:"reportType"`
	Tier         string    `json:"tier"`
	TotalRecords int       `json:"totalRecords"`
	TotalCost    float64   `json:"totalCost"`
	Partial      bool      `json:"partial"`
	GeneratedAt  time.Time `json:"generatedAt"`
}

func (c *Client) ListReports(limit int) ([]ReportEntry, error) {
	query := `
		SELECT report_id, report_type, tier, total_records, total_cost, partial, generated_at
		FROM reports
		ORDER BY generated_at DESC
		LIMIT ?
	`

	rows, err := c.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var entries []ReportEntry
	for rows.Next() {
		var e ReportEntry
		var partial int
		var generatedAt int64

		err := rows.Scan(&e.ReportID, &e.ReportType, &e.Tier, &e.TotalRecords, &e.TotalCost, &partial, &generatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		e.Partial = partial != 0
		e.GeneratedAt = time.Unix(generatedAt, 0).UTC()
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

func (c *Client) GetReport(reportID string) (*report.AnalyticsReport, error) {
	var payload string
	err := c.db.QueryRow(`SELECT payload FROM reports WHERE report_id = ?`, reportID).Scan(&payload)
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	var rep report.AnalyticsReport
	if err := json.Unmarshal([]byte(payload), &rep); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report payload: %w", err)
	}

	return &rep, nil
}
