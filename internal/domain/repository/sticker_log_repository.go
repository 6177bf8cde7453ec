package repository

import (
	"context"

	"github.com/yourusername/sticker-favorites-bot/internal/domain/entity"
)

// StickerLogRepository qayta ishlangan stikerlar tarixi uchun interface
type StickerLogRepository interface {
	// Save yozuvni saqlash
	Save(ctx context.Context, record entity.StickerRecord) error

	// ListByUser foydalanuvchi yozuvlari, eskidan yangiga. limit <= 0 hammasini qaytaradi
	ListByUser(ctx context.Context, userID int64, limit int) ([]entity.StickerRecord, error)

	// CountByOutcome natijalar bo'yicha sanash
	CountByOutcome(ctx context.Context, userID int64) (entity.OutcomeStats, error)

	// ClearUser foydalanuvchi tarixini o'chirish
	ClearUser(ctx context.Context, userID int64) error

	Close() error
}

// HistoryExporter tarixni fayl ko'rinishiga o'tkazish
type HistoryExporter interface {
	// Export yozuvlarni fayl baytlariga aylantirish
	Export(ctx context.Context, records []entity.StickerRecord) ([]byte, error)

	// FileName yuboriladigan fayl nomi
	FileName(userID int64) string
}
