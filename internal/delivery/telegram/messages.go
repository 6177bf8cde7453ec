package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/yourusername/sticker-favorites-bot/internal/domain/entity"
)

const welcomeMessage = "Hi, I'm a sticker bot. Send me a sticker and I'll add it to your sticker set."

const helpMessage = `Send me a static sticker and I'll save it to your personal favorites set.
The set is created the first time you send one.

/myset - link to your favorites set
/stats - how many stickers you've saved
/export - your sticker history as an Excel file
/clear - forget your sticker history (the set stays)
/help - this message`

// conversationFrom xabardan suhbat ma'lumotini olish
func conversationFrom(message *tgbotapi.Message) entity.Conversation {
	name := message.From.UserName
	if name == "" {
		name = strings.TrimSpace(message.From.FirstName + " " + message.From.LastName)
	}
	return entity.Conversation{
		User:   entity.User{ID: message.From.ID, Name: name},
		ChatID: message.Chat.ID,
	}
}

// stickerFrom faqat statik stikerlarni qaytaradi, qolgan holatda nil
func stickerFrom(message *tgbotapi.Message) *entity.Sticker {
	st := message.Sticker
	if st == nil || st.IsAnimated || st.FileID == "" {
		return nil
	}
	return &entity.Sticker{
		FileID: st.FileID,
		Emoji:  st.Emoji,
	}
}

// formatStats statistika matni
func formatStats(stats entity.OutcomeStats) string {
	if stats.Total() == 0 {
		return "You haven't sent me any stickers yet."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Stickers saved: %d\n", stats.Saved())
	fmt.Fprintf(&sb, "  added to your set: %d\n", stats[entity.OutcomeAdded])
	fmt.Fprintf(&sb, "  saved while creating the set: %d\n", stats[entity.OutcomeCreated])
	fmt.Fprintf(&sb, "Failed: %d\n", stats[entity.OutcomeFailed])
	fmt.Fprintf(&sb, "Not a sticker: %d", stats[entity.OutcomeInvalid])
	return sb.String()
}
