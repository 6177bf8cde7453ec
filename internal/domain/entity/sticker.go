package entity

// StickerFormatStatic yagona qo'llab-quvvatlanadigan format
const StickerFormatStatic = "static"

// User xabar yuborgan foydalanuvchi
type User struct {
	ID   int64
	Name string
}

// Conversation bitta kiruvchi xabardan olingan suhbat ma'lumoti
type Conversation struct {
	User   User
	ChatID int64
}

// UserID foydalanuvchi ID si
func (c Conversation) UserID() int64 {
	return c.User.ID
}

// Username foydalanuvchi nomi
func (c Conversation) Username() string {
	return c.User.Name
}

// Sticker foydalanuvchi yuborgan stiker. Content faqat yuklab olingandan keyin to'ladi.
type Sticker struct {
	FileID  string
	Emoji   string
	Content []byte
}

// InputSticker to'plamga qo'shiladigan (yoki to'plamni boshlaydigan) stiker
type InputSticker struct {
	FileID    string
	Format    string
	EmojiList []string
}
