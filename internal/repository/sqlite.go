// Package repository archives accepted debate records in SQLite.
//
// The archive is a write-side mirror for operators. The engine never reads
// from it, so a restarted process always begins with an empty debate.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/xiaot623/debate/internal/domain"
)

// SQLiteStore archives history records using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens the database at dsn and runs migrations.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	// Keep a single connection to avoid schema/data disappearing across goroutines.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS debate_records (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			record_id TEXT NOT NULL UNIQUE,
			history_seq INTEGER NOT NULL,
			agent_id TEXT NOT NULL,
			round INTEGER NOT NULL,
			action TEXT NOT NULL,
			content TEXT NOT NULL,
			target_agent_id TEXT,
			ts INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_debate_records_agent ON debate_records(agent_id, seq)`,
		`CREATE INDEX IF NOT EXISTS idx_debate_records_history ON debate_records(history_seq, seq)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// AppendRecord archives one accepted record.
func (s *SQLiteStore) AppendRecord(ctx context.Context, rec domain.HistoryRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO debate_records (record_id, history_seq, agent_id, round, action, content, target_agent_id, ts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RecordID, rec.Seq, rec.AgentID, rec.Round, string(rec.Action), rec.Content, nullString(rec.TargetAgentID), rec.Ts,
	)
	if err != nil {
		return fmt.Errorf("failed to append record: %w", err)
	}
	return nil
}

// HandleRecord lets the store act as a record sink.
func (s *SQLiteStore) HandleRecord(ctx context.Context, rec domain.HistoryRecord) error {
	return s.AppendRecord(ctx, rec)
}

// ListRecords returns archived records in debate history order, which may
// differ from the order they reached the archive. A limit <= 0 means no
// limit; otherwise the most recent limit records are returned.
func (s *SQLiteStore) ListRecords(ctx context.Context, limit int) ([]domain.HistoryRecord, error) {
	query := `SELECT record_id, history_seq, agent_id, round, action, content, target_agent_id, ts
		FROM debate_records ORDER BY history_seq ASC, seq ASC`
	args := []any{}
	if limit > 0 {
		query = `SELECT record_id, history_seq, agent_id, round, action, content, target_agent_id, ts FROM (
			SELECT * FROM debate_records ORDER BY history_seq DESC, seq DESC LIMIT ?
		) ORDER BY history_seq ASC, seq ASC`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	records := []domain.HistoryRecord{}
	for rows.Next() {
		var rec domain.HistoryRecord
		var action string
		var target sql.NullString
		if err := rows.Scan(&rec.RecordID, &rec.Seq, &rec.AgentID, &rec.Round, &action, &rec.Content, &target, &rec.Ts); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		rec.Action = domain.Action(action)
		rec.TargetAgentID = target.String
		records = append(records, rec)
	}
	return records, rows.Err()
}

// CountRecords returns the number of archived records.
func (s *SQLiteStore) CountRecords(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM debate_records`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return n, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
