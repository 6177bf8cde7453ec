// Package scrub xatolik matnlaridan bot tokenini olib tashlaydi.
package scrub

import "strings"

// TokenFromError xatolik matnidagi tokenni [REDACTED] bilan almashtiradi.
// net/http xatoliklari URL ni (token bilan) o'z ichiga oladi.
// errors.Is/As uchun asl zanjir Unwrap orqali saqlanadi.
func TokenFromError(err error, token string) error {
	if err == nil || token == "" {
		return err
	}
	msg := err.Error()
	if !strings.Contains(msg, token) {
		return err
	}
	return &scrubbedError{
		msg: strings.ReplaceAll(msg, token, "[REDACTED]"),
		err: err,
	}
}

type scrubbedError struct {
	msg string
	err error
}

func (e *scrubbedError) Error() string { return e.msg }
func (e *scrubbedError) Unwrap() error { return e.err }
