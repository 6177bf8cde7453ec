package storage

import (
	"context"
	"sync"

	"github.com/yourusername/sticker-favorites-bot/internal/domain/entity"
	"github.com/yourusername/sticker-favorites-bot/internal/domain/repository"
)

type memoryStickerLogRepository struct {
	mu      sync.RWMutex
	records map[int64][]entity.StickerRecord
	maxSize int
}

// NewMemoryStickerLogRepository in-memory stiker tarixi
func NewMemoryStickerLogRepository(maxPerUser int) repository.StickerLogRepository {
	return &memoryStickerLogRepository{
		records: make(map[int64][]entity.StickerRecord),
		maxSize: maxPerUser,
	}
}

// Save yozuvni saqlash
func (m *memoryStickerLogRepository) Save(ctx context.Context, record entity.StickerRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	recs := append(m.records[record.UserID], record)

	// Maksimal hajmni nazorat qilish
	if m.maxSize > 0 && len(recs) > m.maxSize {
		recs = recs[len(recs)-m.maxSize:]
	}

	m.records[record.UserID] = recs
	return nil
}

// ListByUser foydalanuvchi yozuvlari (eski -> yangi)
func (m *memoryStickerLogRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]entity.StickerRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	recs := m.records[userID]
	if limit > 0 && len(recs) > limit {
		recs = recs[len(recs)-limit:]
	}

	out := make([]entity.StickerRecord, len(recs))
	copy(out, recs)
	return out, nil
}

// CountByOutcome natijalar bo'yicha sanash
func (m *memoryStickerLogRepository) CountByOutcome(ctx context.Context, userID int64) (entity.OutcomeStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := entity.OutcomeStats{}
	for _, r := range m.records[userID] {
		stats[r.Outcome]++
	}
	return stats, nil
}

// ClearUser foydalanuvchi tarixini tozalash
func (m *memoryStickerLogRepository) ClearUser(ctx context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.records, userID)
	return nil
}

func (m *memoryStickerLogRepository) Close() error {
	return nil
}
