package reminder

import (
	"database/sql"
	"fmt"
	"sync"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps reminders in a SQLite table. It has the same wholesale
// semantics as JSONStore: Save replaces every row in one transaction.
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.SugaredLogger
	mu     sync.Mutex
}

// NewSQLiteStore opens (or creates) the SQLite database at dbPath and
// ensures the reminders table exists.
func NewSQLiteStore(dbPath string, logger *zap.SugaredLogger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL lets the shell read while the scheduler writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	if err := createTable(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db, logger: logger}, nil
}

func createTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS reminders (
			pos               INTEGER PRIMARY KEY,
			id                INTEGER NOT NULL,
			title             TEXT    NOT NULL,
			date              TEXT    NOT NULL,
			completed         INTEGER NOT NULL DEFAULT 0,
			completed_at      TEXT,
			last_howl_time    TEXT,
			last_today_howl   TEXT,
			last_overdue_howl TEXT
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Load() []Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`
		SELECT id, title, date, completed, completed_at, last_howl_time, last_today_howl, last_overdue_howl
		FROM reminders ORDER BY pos ASC
	`)
	if err != nil {
		s.logger.Warnw("failed to query reminders, starting empty", "err", err)
		return []Reminder{}
	}
	defer rows.Close()

	reminders, err := scanReminders(rows)
	if err != nil {
		s.logger.Warnw("failed to scan reminders, starting empty", "err", err)
		return []Reminder{}
	}
	return reminders
}

func (s *SQLiteStore) Save(reminders []Reminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM reminders`); err != nil {
		return fmt.Errorf("failed to clear reminders: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO reminders (pos, id, title, date, completed, completed_at, last_howl_time, last_today_howl, last_overdue_howl)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range reminders {
		if _, err := stmt.Exec(i, r.ID, r.Title, r.Date, r.Completed,
			nullStamp(r.CompletedAt), nullStamp(r.LastHowlTime),
			nullStamp(r.LastTodayHowl), nullStamp(r.LastOverdueHowl)); err != nil {
			return fmt.Errorf("failed to insert reminder %d: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reminders: %w", err)
	}
	return nil
}

// scanReminders reads multiple rows into a slice of Reminder.
func scanReminders(rows *sql.Rows) ([]Reminder, error) {
	reminders := []Reminder{}
	for rows.Next() {
		var r Reminder
		var completedAt, lastHowl, lastToday, lastOverdue sql.NullString

		if err := rows.Scan(&r.ID, &r.Title, &r.Date, &r.Completed,
			&completedAt, &lastHowl, &lastToday, &lastOverdue); err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}

		r.CompletedAt = Stamp(completedAt.String)
		r.LastHowlTime = Stamp(lastHowl.String)
		r.LastTodayHowl = Stamp(lastToday.String)
		r.LastOverdueHowl = Stamp(lastOverdue.String)

		reminders = append(reminders, r)
	}
	return reminders, rows.Err()
}

func nullStamp(s Stamp) sql.NullString {
	return sql.NullString{String: string(s), Valid: s.IsSet()}
}
