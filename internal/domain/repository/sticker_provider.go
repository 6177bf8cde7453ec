package repository

import (
	"context"

	"github.com/yourusername/sticker-favorites-bot/internal/domain/entity"
)

// FileDownloader Telegram fayllarini yuklab olish uchun interface
type FileDownloader interface {
	// DownloadFile file_id bo'yicha fayl baytlarini olish.
	// Xatolik entity.ErrTransfer ga mos keladi.
	DownloadFile(ctx context.Context, fileID string) ([]byte, error)
}

// StickerSetProvider stiker to'plamlari bilan ishlash uchun interface.
// Barcha xatoliklar entity.ErrProvider ga mos keladi, to'plam topilmasa
// entity.ErrStickerSetNotFound.
type StickerSetProvider interface {
	// UploadStickerFile stiker faylini yuklash, yangi file_id qaytaradi
	UploadStickerFile(ctx context.Context, userID int64, content []byte) (string, error)

	// AddStickerToSet mavjud to'plamga stiker qo'shish
	AddStickerToSet(ctx context.Context, userID int64, name string, sticker entity.InputSticker) error

	// CreateStickerSet yangi to'plam yaratish, stiker birinchi a'zo bo'ladi
	CreateStickerSet(ctx context.Context, userID int64, name, title string, sticker entity.InputSticker) error
}

// Notifier foydalanuvchiga matnli xabar yuborish
type Notifier interface {
	Notify(ctx context.Context, chatID int64, text string) error
}
