package usecase

import (
	"strconv"
	"strings"
)

const (
	DefaultSetNameTemplate = "fav{user_id}_by_{bot}"
	DefaultSetTitle        = "My favorites"
	DefaultEmoji           = "❤️"
)

// StickerSettings foydalanuvchi to'plami sozlamalari
type StickerSettings struct {
	NameTemplate string // {user_id} va {bot} o'rniga qiymat qo'yiladi
	Title        string
	DefaultEmoji string
	BotUsername  string
}

// withDefaults bo'sh maydonlarni standart qiymatlar bilan to'ldirish
func (s StickerSettings) withDefaults() StickerSettings {
	if s.NameTemplate == "" {
		s.NameTemplate = DefaultSetNameTemplate
	}
	if s.Title == "" {
		s.Title = DefaultSetTitle
	}
	if s.DefaultEmoji == "" {
		s.DefaultEmoji = DefaultEmoji
	}
	return s
}

// ExpandSetName shablondan foydalanuvchi to'plami nomini yasash.
// Telegram nomi "_by_<bot>" bilan tugashi shart, shuning uchun {bot} kichik harfda.
func ExpandSetName(template string, userID int64, botUsername string) string {
	r := strings.NewReplacer(
		"{user_id}", strconv.FormatInt(userID, 10),
		"{bot}", strings.ToLower(botUsername),
	)
	return r.Replace(template)
}

// SetLink to'plamni ochish uchun havola
func SetLink(name string) string {
	return "https://t.me/addstickers/" + name
}
