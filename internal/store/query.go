package store

import (
	"fmt"
	"strings"

	"vokzal/internal/meta"
)

// Построители текста SQL. Идентификаторы таблиц и колонок приходят
// из провалидированных на загрузке метаданных (allowlist в meta.Lint),
// все значения — только через позиционные параметры $n.

// BuildInsert собирает INSERT по полям записи
func BuildInsert(table string, rec Record) (string, []any) {
	names := rec.Names()
	placeholders := make([]string, len(names))
	for i := range names {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(names, ", "), strings.Join(placeholders, ", "))
	return q, rec.Values()
}

// BuildDelete собирает DELETE по всем ключам delete_map (AND).
// Отсутствующее значение ключа — MissingKeyError, запрос не собирается.
func BuildDelete(dm meta.DeleteMap, rec Record) (string, []any, error) {
	conds := make([]string, 0, len(dm.Keys))
	args := make([]any, 0, len(dm.Keys))
	for i, key := range dm.Keys {
		v, ok := rec.Get(key)
		if !ok || v == nil {
			return "", nil, &MissingKeyError{Table: dm.Table, Key: key}
		}
		conds = append(conds, fmt.Sprintf("%s = $%d", key, i+1))
		args = append(args, v)
	}
	q := fmt.Sprintf("DELETE FROM %s WHERE %s", dm.Table, strings.Join(conds, " AND "))
	return q, args, nil
}

// BuildSelectAll — полная выдача таблицы
func BuildSelectAll(table string) string {
	return fmt.Sprintf("SELECT * FROM %s", table)
}

// BuildSearch — поиск подстроки без учёта регистра по всем колонкам.
// Пустой паттерн эквивалентен полной выдаче.
func BuildSearch(table, pattern string, columns []string) (string, []any) {
	if strings.TrimSpace(pattern) == "" || len(columns) == 0 {
		return BuildSelectAll(table), nil
	}
	conds := make([]string, 0, len(columns))
	args := make([]any, 0, len(columns))
	for i, col := range columns {
		conds = append(conds, fmt.Sprintf("CAST(%s AS TEXT) ILIKE $%d", col, i+1))
		args = append(args, "%"+pattern+"%")
	}
	q := fmt.Sprintf("SELECT * FROM %s WHERE %s", table, strings.Join(conds, " OR "))
	return q, args
}

// BuildChoices — живой запрос значений для dropdown
func BuildChoices(sourceTable, sourceColumn string) string {
	return fmt.Sprintf("SELECT %s FROM %s", sourceColumn, sourceTable)
}
