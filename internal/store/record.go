package store

import (
	"fmt"
	"time"
)

// FieldValue — одно поле строки
type FieldValue struct {
	Name  string
	Value any
}

// Record — упорядоченный набор полей одной строки: либо собранная
// формой запись для вставки, либо строка выдачи для удаления/замены.
// Порядок полей определяет порядок колонок в INSERT.
type Record []FieldValue

// Get возвращает значение поля по имени
func (r Record) Get(name string) (any, bool) {
	for _, fv := range r {
		if fv.Name == name {
			return fv.Value, true
		}
	}
	return nil, false
}

// Names — имена полей в порядке записи
func (r Record) Names() []string {
	out := make([]string, 0, len(r))
	for _, fv := range r {
		out = append(out, fv.Name)
	}
	return out
}

// Values — значения полей в порядке записи
func (r Record) Values() []any {
	out := make([]any, 0, len(r))
	for _, fv := range r {
		out = append(out, fv.Value)
	}
	return out
}

// Stringify приводит значение из драйвера к строке выдачи.
// Времена — в формате форм ("2006-01-02 15:04:05"), как в документе.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case time.Time:
		return t.Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprintf("%v", t)
	}
}
