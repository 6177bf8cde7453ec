package tgapi

import (
	"errors"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/yourusername/sticker-favorites-bot/internal/domain/entity"
	"github.com/yourusername/sticker-favorites-bot/internal/infrastructure/scrub"
)

// Telegram "to'plam mavjud emas" deb qaytaradigan kod
const stickerSetInvalid = "STICKERSET_INVALID"

// classify tgbotapi xatoligini entity.ProviderError ga aylantiradi.
// Matn bo'yicha tekshiruv faqat shu yerda, usecase esa errors.Is bilan ishlaydi.
func classify(op string, resp *tgbotapi.APIResponse, err error, token string) error {
	if err == nil {
		return nil
	}

	code, desc, ok := apiError(err)
	if !ok {
		return &entity.ProviderError{
			Op:          op,
			Description: scrub.TokenFromError(err, token).Error(),
			Kind:        entity.ErrProvider,
		}
	}
	if code == 0 && resp != nil {
		code = resp.ErrorCode
	}

	return &entity.ProviderError{
		Op:          op,
		Code:        code,
		Description: desc,
		Kind:        DetectKind(code, desc),
	}
}

func apiError(err error) (int, string, bool) {
	var ptr *tgbotapi.Error
	if errors.As(err, &ptr) {
		return ptr.Code, ptr.Message, true
	}
	var val tgbotapi.Error
	if errors.As(err, &val) {
		return val.Code, val.Message, true
	}
	return 0, "", false
}

// DetectKind Telegram javobini xatolik turiga moslash
func DetectKind(code int, desc string) error {
	if code == http.StatusBadRequest && strings.Contains(strings.ToUpper(desc), stickerSetInvalid) {
		return entity.ErrStickerSetNotFound
	}
	return entity.ErrProvider
}
