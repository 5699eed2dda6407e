package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"SentinelFeed/internal/domain/models"
	drepo "SentinelFeed/internal/domain/repository"
)

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// AlertArchiveSchema returns the DDL for the alert archive table.
func AlertArchiveSchema(database string) []string {
	return []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.alerts (
            alert_id   String,
            product    LowCardinality(String),
            alert_type LowCardinality(String),
            message    String,
            risk_score UInt8,
            risk_band  LowCardinality(String),
            severity   LowCardinality(String),
            ts         DateTime64(3, 'UTC'),
            phone      String,
            location   String,
            user_id    String,
            amount     String,
            mode       LowCardinality(String),
            seen_at    DateTime64(3, 'UTC')
        ) ENGINE = ReplacingMergeTree(seen_at)
        ORDER BY (product, ts, alert_id)`, database),
	}
}

// ClickHouseAlertArchive appends every new alert to <database>.alerts.
type ClickHouseAlertArchive struct {
	db    execer
	table string
	seen  *seenWindow
}

func NewClickHouseAlertArchive(db execer, database string) *ClickHouseAlertArchive {
	return &ClickHouseAlertArchive{
		db:    db,
		table: database + ".alerts",
		seen:  newSeenWindow(defaultSeenWindow),
	}
}

func (s *ClickHouseAlertArchive) Name() string { return "clickhouse" }

func (s *ClickHouseAlertArchive) Consume(ctx context.Context, ev models.FeedEvent) error {
	fresh := s.seen.unseen(ev.NewAlerts)
	if len(fresh) == 0 {
		return nil
	}

	values := make([]string, 0, len(fresh))
	args := make([]interface{}, 0, len(fresh)*14)
	for _, a := range fresh {
		r := newAlertRecord(a, ev.Snapshot)
		values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
		args = append(args,
			r.AlertID,
			string(r.Product),
			string(r.AlertType),
			r.Message,
			uint8(r.RiskScore),
			string(r.RiskBand),
			string(r.Severity),
			r.Timestamp,
			r.Details.Phone,
			r.Details.Location,
			r.Details.UserID,
			r.Details.Amount,
			string(r.Mode),
			r.SeenAt,
		)
	}
	q := fmt.Sprintf("INSERT INTO %s (alert_id, product, alert_type, message, risk_score, risk_band, severity, ts, phone, location, user_id, amount, mode, seen_at) VALUES %s",
		s.table, strings.Join(values, ","))
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("archive alerts: %w", err)
	}
	s.seen.mark(fresh)
	return nil
}

// Close is a no-op; the pool belongs to pkg/clickhouse.Client.
func (s *ClickHouseAlertArchive) Close() error { return nil }

var _ drepo.FeedSink = (*ClickHouseAlertArchive)(nil)
