package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/yourusername/sticker-favorites-bot/internal/domain/entity"
	"github.com/yourusername/sticker-favorites-bot/internal/domain/repository"
)

type sqliteStickerLogRepository struct {
	db      *sql.DB
	maxSize int
}

// NewSQLiteStickerLogRepository SQLite asosidagi stiker tarixi
func NewSQLiteStickerLogRepository(dbPath string, maxPerUser int) (repository.StickerLogRepository, error) {
	if dbPath == "" {
		return nil, errors.New("db path bo'sh bo'lmasligi kerak")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("db papkasini yaratib bo'lmadi: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite ochilmadi: %w", err)
	}
	// sqlite bitta yozuvchi bilan yaxshi ishlaydi
	db.SetMaxOpenConns(1)

	if err := createStickerSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStickerLogRepository{db: db, maxSize: maxPerUser}, nil
}

func createStickerSchema(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS sticker_records (
	id TEXT PRIMARY KEY,
	user_id INTEGER NOT NULL,
	username TEXT,
	chat_id INTEGER NOT NULL,
	file_id TEXT,
	set_name TEXT,
	outcome TEXT NOT NULL,
	reason TEXT,
	ts TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sticker_records_user_ts ON sticker_records (user_id, ts);
`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("schema yaratib bo'lmadi: %w", err)
	}
	return nil
}

// Save yozuvni saqlash va eski yozuvlarni kesish
func (s *sqliteStickerLogRepository) Save(ctx context.Context, record entity.StickerRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `INSERT OR REPLACE INTO sticker_records (id, user_id, username, chat_id, file_id, set_name, outcome, reason, ts) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.UserID, record.Username, record.ChatID, record.FileID, record.SetName, record.Outcome.String(), record.Reason, record.Timestamp.UTC())
	if err != nil {
		tx.Rollback()
		return err
	}

	if s.maxSize > 0 {
		_, err = tx.ExecContext(ctx, `
DELETE FROM sticker_records
WHERE id IN (
  SELECT id FROM sticker_records
  WHERE user_id = ?
  ORDER BY ts DESC
  LIMIT -1 OFFSET ?
)`, record.UserID, s.maxSize)
		if err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

// ListByUser foydalanuvchi yozuvlari (eski -> yangi)
func (s *sqliteStickerLogRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]entity.StickerRecord, error) {
	query := `SELECT id, user_id, username, chat_id, file_id, set_name, outcome, reason, ts FROM sticker_records WHERE user_id = ? ORDER BY ts DESC`
	args := []any{userID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tmp []entity.StickerRecord
	for rows.Next() {
		var (
			rec     entity.StickerRecord
			outcome string
			ts      time.Time
		)
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Username, &rec.ChatID, &rec.FileID, &rec.SetName, &outcome, &rec.Reason, &ts); err != nil {
			return nil, err
		}
		rec.Outcome, _ = entity.ParseOutcome(outcome)
		rec.Timestamp = ts
		tmp = append(tmp, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// DESC -> ASC, eski->yangi tartib
	for i, j := 0, len(tmp)-1; i < j; i, j = i+1, j-1 {
		tmp[i], tmp[j] = tmp[j], tmp[i]
	}

	return tmp, nil
}

// CountByOutcome natijalar bo'yicha sanash
func (s *sqliteStickerLogRepository) CountByOutcome(ctx context.Context, userID int64) (entity.OutcomeStats, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT outcome, COUNT(*) FROM sticker_records WHERE user_id = ? GROUP BY outcome`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := entity.OutcomeStats{}
	for rows.Next() {
		var (
			name  string
			count int
		)
		if err := rows.Scan(&name, &count); err != nil {
			return nil, err
		}
		if o, ok := entity.ParseOutcome(name); ok {
			stats[o] = count
		}
	}
	return stats, rows.Err()
}

// ClearUser foydalanuvchi tarixini tozalash
func (s *sqliteStickerLogRepository) ClearUser(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sticker_records WHERE user_id = ?`, userID)
	return err
}

func (s *sqliteStickerLogRepository) Close() error {
	return s.db.Close()
}
