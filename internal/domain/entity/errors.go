package entity

import (
	"errors"
	"fmt"
)

// Xatolik turlari - errors.Is() bilan tekshiriladi
var (
	// ErrTransfer fayl yuklab olishdagi xatolik (tarmoq yoki HTTP status)
	ErrTransfer = errors.New("transfer failed")

	// ErrFileTooLarge fayl ruxsat etilgan hajmdan katta
	ErrFileTooLarge = fmt.Errorf("%w: file too large", ErrTransfer)

	// ErrProvider Telegram API xatoligi (upload/add/create)
	ErrProvider = errors.New("provider request failed")

	// ErrStickerSetNotFound to'plam hali mavjud emas
	ErrStickerSetNotFound = fmt.Errorf("%w: sticker set not found", ErrProvider)

	// ErrNotStatic stiker video yoki animatsion, yaroqsiz kirish sifatida qaraladi
	ErrNotStatic = errors.New("sticker is not static")
)

// ProviderError Telegram API qaytargan xatolik.
// Kind tasniflangan sentinel, errors.Is() u orqali ishlaydi.
type ProviderError struct {
	Op          string
	Code        int
	Description string
	Kind        error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s failed: %s (code=%d)", e.Op, e.Description, e.Code)
}

func (e *ProviderError) Unwrap() error {
	if e.Kind == nil {
		return ErrProvider
	}
	return e.Kind
}
