package entity

import "time"

// StickerRecord qayta ishlangan stiker tarixi yozuvi
type StickerRecord struct {
	ID        string
	UserID    int64
	Username  string
	ChatID    int64
	FileID    string
	SetName   string
	Outcome   Outcome
	Reason    string // xatolik sababi, faqat OutcomeFailed uchun
	Timestamp time.Time
}

// OutcomeStats foydalanuvchi bo'yicha natijalar soni
type OutcomeStats map[Outcome]int

// Saved to'plamga tushgan stikerlar soni
func (s OutcomeStats) Saved() int {
	return s[OutcomeAdded] + s[OutcomeCreated]
}

// Total barcha yozuvlar soni
func (s OutcomeStats) Total() int {
	total := 0
	for _, n := range s {
		total += n
	}
	return total
}
