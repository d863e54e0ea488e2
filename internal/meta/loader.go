package meta

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Catalog — документ метаданных, загруженный один раз на старте.
// После загрузки только чтение; горячая замена делается подменой
// целого каталога, не мутацией.
type Catalog struct {
	tables map[string]*Table
	order  []string // порядок объявления таблиц в документе
}

// Load читает table_metadata.json и прогоняет линтер.
// Любая проблема в документе — фатальная ошибка загрузки.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if issues := c.Lint(); len(issues) > 0 {
		return nil, fmt.Errorf("metadata %s has blocking issues: %s", path, joinIssues(issues))
	}
	return c, nil
}

// Parse разбирает документ потоково, чтобы сохранить порядок таблиц
// и порядок полей (map в encoding/json порядок теряет).
func Parse(data []byte) (*Catalog, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	if err := expectDelim(dec, '{'); err != nil {
		return nil, fmt.Errorf("document must be an object: %w", err)
	}

	c := &Catalog{tables: make(map[string]*Table)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, _ := tok.(string)

		var raw tableDoc
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("table %q: %w", name, err)
		}
		if _, dup := c.tables[name]; dup {
			return nil, fmt.Errorf("duplicate table %q", name)
		}

		t := &Table{Name: name, MainTable: strings.TrimSpace(raw.MainTable)}
		if t.Fields, err = parseFields(raw.Fields); err != nil {
			return nil, fmt.Errorf("table %q: %w", name, err)
		}
		if raw.DeleteMap != nil {
			t.DeleteMap = DeleteMap{
				Table: strings.TrimSpace(raw.DeleteMap.Table),
				Keys:  append([]string(nil), raw.DeleteMap.Keys...),
			}
		}
		c.tables[name] = t
		c.order = append(c.order, name)
	}
	// закрывающая '}'
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return c, nil
}

type tableDoc struct {
	MainTable string          `json:"main_table"`
	Fields    json.RawMessage `json:"fields"`
	DeleteMap *deleteMapDoc   `json:"delete_map"`
}

type deleteMapDoc struct {
	Table string   `json:"table"`
	Keys  []string `json:"keys"`
}

type fieldDoc struct {
	Description  string `json:"description"`
	InputType    string `json:"input_type"`
	SourceTable  string `json:"source_table"`
	SourceColumn string `json:"source_column"`
}

func parseFields(raw json.RawMessage) ([]Field, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("missing \"fields\"")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := expectDelim(dec, '{'); err != nil {
		return nil, fmt.Errorf("\"fields\" must be an object: %w", err)
	}

	var fields []Field
	seen := map[string]struct{}{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, _ := tok.(string)

		var fd fieldDoc
		if err := dec.Decode(&fd); err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("duplicate field %q", name)
		}
		seen[name] = struct{}{}

		it := strings.TrimSpace(fd.InputType)
		if it == "" {
			it = string(InputText) // как в исходном документе: text по умолчанию
		}
		fields = append(fields, Field{
			Name:         name,
			Description:  fd.Description,
			Input:        InputType(it),
			SourceTable:  strings.TrimSpace(fd.SourceTable),
			SourceColumn: strings.TrimSpace(fd.SourceColumn),
		})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return fields, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	d, ok := tok.(json.Delim)
	if !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

// Tables возвращает имена таблиц в порядке объявления (для селектора)
func (c *Catalog) Tables() []string {
	return append([]string(nil), c.order...)
}

// Describe возвращает дескриптор таблицы
func (c *Catalog) Describe(table string) (*Table, error) {
	t, ok := c.tables[table]
	if !ok {
		return nil, &NotFoundError{Table: table}
	}
	return t, nil
}

// FieldsOf возвращает упорядоченный список полей таблицы
func (c *Catalog) FieldsOf(table string) ([]Field, error) {
	t, err := c.Describe(table)
	if err != nil {
		return nil, err
	}
	return t.Fields, nil
}
