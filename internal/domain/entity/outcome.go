package entity

// Outcome stikerni qayta ishlash natijasi
type Outcome int

const (
	OutcomeInvalid Outcome = iota
	OutcomeAdded
	OutcomeCreated
	OutcomeFailed
)

const (
	MessageInvalid = "Please send a sticker"
	MessageAdded   = "Sticker added to your set!"
	MessageCreated = "Sticker set created and the sticker added to your set!"
	MessageFailed  = "Failed to add sticker to your set!"
)

// Message foydalanuvchiga yuboriladigan javob matni
func (o Outcome) Message() string {
	switch o {
	case OutcomeAdded:
		return MessageAdded
	case OutcomeCreated:
		return MessageCreated
	case OutcomeFailed:
		return MessageFailed
	default:
		return MessageInvalid
	}
}

// String log va saqlash uchun
func (o Outcome) String() string {
	switch o {
	case OutcomeInvalid:
		return "invalid"
	case OutcomeAdded:
		return "added"
	case OutcomeCreated:
		return "created"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ParseOutcome String() qiymatidan Outcome ni tiklash
func ParseOutcome(s string) (Outcome, bool) {
	for _, o := range []Outcome{OutcomeInvalid, OutcomeAdded, OutcomeCreated, OutcomeFailed} {
		if o.String() == s {
			return o, true
		}
	}
	return OutcomeInvalid, false
}
