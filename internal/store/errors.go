package store

import "fmt"

// Коды ошибок для границы API
const (
	ErrCodeDatabase   = "db_error"
	ErrCodeMissingKey = "missing_key"
)

// DatabaseError — любой отказ базы (связность, constraint, кривой SQL).
// К моменту возврата транзакция уже откачена: соединение пригодно
// для следующего оператора.
type DatabaseError struct {
	Op    string // insert | select | search | delete | update | choices
	Table string
	Err   error
}

func (e *DatabaseError) Error() string {
	return fmt.Sprintf("database %s on %q: %v", e.Op, e.Table, e.Err)
}

func (e *DatabaseError) Unwrap() error { return e.Err }

// MissingKeyError — удаление запрошено, но в строке нет значения
// одной из ключевых колонок delete_map.
type MissingKeyError struct {
	Table string
	Key   string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("delete from %q: key column %q has no value", e.Table, e.Key)
}
