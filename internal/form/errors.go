package form

import "fmt"

// Коды ошибок валидации, уходят на границу API как есть
const (
	ErrRequired  = "required"
	ErrBadFormat = "bad_format"
)

// ValidationError — плохой или пустой ввод формы: имя поля плюс причина.
// Первая же ошибка прерывает отправку, частичных вставок не бывает.
type ValidationError struct {
	Code    string `json:"code"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	if e.Code == ErrRequired {
		return fmt.Sprintf("empty field %s", e.Field)
	}
	return fmt.Sprintf("bad format %s", e.Field)
}

func required(field string) *ValidationError {
	return &ValidationError{Code: ErrRequired, Field: field, Message: "Field '" + field + "' must not be empty"}
}

func badFormat(field, why string) *ValidationError {
	return &ValidationError{Code: ErrBadFormat, Field: field, Message: "Field '" + field + "' " + why}
}
