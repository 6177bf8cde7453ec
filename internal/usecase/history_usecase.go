package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/yourusername/sticker-favorites-bot/internal/domain/entity"
	"github.com/yourusername/sticker-favorites-bot/internal/domain/repository"
)

// ErrNoHistory foydalanuvchida hali yozuv yo'q
var ErrNoHistory = errors.New("no sticker history")

// HistoryUseCase stiker tarixi bilan bog'liq logika
type HistoryUseCase interface {
	// Stats natijalar soni
	Stats(ctx context.Context, userID int64) (entity.OutcomeStats, error)

	// Export tarixni faylga aylantirish, fayl nomi va baytlarini qaytaradi
	Export(ctx context.Context, userID int64) (string, []byte, error)

	// Clear foydalanuvchi tarixini tozalash
	Clear(ctx context.Context, userID int64) error
}

type historyUseCase struct {
	logRepo  repository.StickerLogRepository
	exporter repository.HistoryExporter
}

// NewHistoryUseCase yangi HistoryUseCase yaratish
func NewHistoryUseCase(logRepo repository.StickerLogRepository, exporter repository.HistoryExporter) HistoryUseCase {
	return &historyUseCase{
		logRepo:  logRepo,
		exporter: exporter,
	}
}

// Stats natijalar soni
func (u *historyUseCase) Stats(ctx context.Context, userID int64) (entity.OutcomeStats, error) {
	stats, err := u.logRepo.CountByOutcome(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count records: %w", err)
	}
	return stats, nil
}

// Export tarixni faylga aylantirish
func (u *historyUseCase) Export(ctx context.Context, userID int64) (string, []byte, error) {
	records, err := u.logRepo.ListByUser(ctx, userID, 0)
	if err != nil {
		return "", nil, fmt.Errorf("failed to list records: %w", err)
	}
	if len(records) == 0 {
		return "", nil, ErrNoHistory
	}

	data, err := u.exporter.Export(ctx, records)
	if err != nil {
		return "", nil, fmt.Errorf("failed to export records: %w", err)
	}

	return u.exporter.FileName(userID), data, nil
}

// Clear foydalanuvchi tarixini tozalash
func (u *historyUseCase) Clear(ctx context.Context, userID int64) error {
	return u.logRepo.ClearUser(ctx, userID)
}
