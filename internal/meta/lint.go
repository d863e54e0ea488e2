package meta

import (
	"fmt"
	"regexp"
	"strings"
)

type Issue struct {
	Table   string `json:"table"`
	Field   string `json:"field,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Идентификаторы таблиц/колонок приходят из конфигурационного документа
// и попадают в текст SQL без экранирования. Поэтому allowlist проверяется
// один раз здесь, а не на каждом запросе.
var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func badIdent(s string) bool { return !identRe.MatchString(s) }

// Lint проверяет базовые противоречия в документе метаданных.
// Существование source_table в БД здесь не проверяется: по контракту
// это ошибка времени выполнения, а не загрузки.
func (c *Catalog) Lint() []Issue {
	var issues []Issue

	add := func(table, field, code, msg string) {
		issues = append(issues, Issue{Table: table, Field: field, Code: code, Message: msg})
	}

	for _, name := range c.order {
		t := c.tables[name]

		if badIdent(name) {
			add(name, "", "bad_identifier", fmt.Sprintf("table name %q is not a valid SQL identifier", name))
		}
		if t.MainTable != "" && badIdent(t.MainTable) {
			add(name, "", "bad_identifier", fmt.Sprintf("main_table %q is not a valid SQL identifier", t.MainTable))
		}
		if len(t.Fields) == 0 {
			add(name, "", "no_fields", "table has no fields")
		}

		for _, f := range t.Fields {
			if badIdent(f.Name) {
				add(name, f.Name, "bad_identifier", fmt.Sprintf("field name %q is not a valid SQL identifier", f.Name))
			}

			known := false
			for _, it := range KnownInputTypes {
				if f.Input == it {
					known = true
					break
				}
			}
			if !known {
				add(name, f.Name, "input_type_unknown",
					fmt.Sprintf("unknown input_type %q (allowed: text|number|dropdown|datetime|staff_inn|station_inn|gender_dropdown)", f.Input))
			}

			if f.Input == InputDropdown {
				if f.SourceTable == "" || f.SourceColumn == "" {
					add(name, f.Name, "dropdown_source_missing", "dropdown field needs source_table and source_column")
				} else {
					if badIdent(f.SourceTable) {
						add(name, f.Name, "bad_identifier", fmt.Sprintf("source_table %q is not a valid SQL identifier", f.SourceTable))
					}
					if badIdent(f.SourceColumn) {
						add(name, f.Name, "bad_identifier", fmt.Sprintf("source_column %q is not a valid SQL identifier", f.SourceColumn))
					}
				}
			}
		}

		// delete_map: непустой набор ключей, каждый ключ — объявленное поле
		if t.DeleteMap.Table == "" && len(t.DeleteMap.Keys) == 0 {
			add(name, "", "delete_map_missing", "table has no delete_map")
			continue
		}
		if t.DeleteMap.Table == "" || badIdent(t.DeleteMap.Table) {
			add(name, "", "bad_identifier", fmt.Sprintf("delete_map.table %q is not a valid SQL identifier", t.DeleteMap.Table))
		}
		if len(t.DeleteMap.Keys) == 0 {
			add(name, "", "delete_keys_empty", "delete_map.keys must not be empty")
		}
		for _, k := range t.DeleteMap.Keys {
			if badIdent(k) {
				add(name, k, "bad_identifier", fmt.Sprintf("delete key %q is not a valid SQL identifier", k))
				continue
			}
			if _, ok := t.FieldByName(k); !ok {
				add(name, k, "delete_key_unknown", fmt.Sprintf("delete key %q is not a field of %q", k, name))
			}
		}
	}

	return issues
}

func joinIssues(issues []Issue) string {
	parts := make([]string, 0, len(issues))
	for _, it := range issues {
		where := it.Table
		if it.Field != "" {
			where += "." + it.Field
		}
		parts = append(parts, fmt.Sprintf("%s: %s", where, it.Message))
	}
	return strings.Join(parts, "; ")
}
