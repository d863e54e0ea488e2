package store

import (
	"context"
	"database/sql"
	"sync"

	"vokzal/internal/meta"
)

// MetaSource отдаёт дескриптор таблицы. Реализуется каталогом метаданных
// (через своп-указатель в api) и стабами в тестах.
type MetaSource interface {
	Describe(table string) (*meta.Table, error)
}

// Store исполняет CRUD поверх одного живого соединения.
// Каждый пишущий оператор — отдельная транзакция: commit при успехе,
// rollback и DatabaseError при любом отказе, без повторов.
type Store struct {
	db   *sql.DB
	meta MetaSource

	mu sync.Mutex
	// колонки последнего describe по таблице — по ним строится поиск
	lastCols map[string][]string
}

func New(db *sql.DB, m MetaSource) *Store {
	return &Store{db: db, meta: m, lastCols: make(map[string][]string)}
}

// DB отдаёт соединение для отчётных запросов
func (s *Store) DB() *sql.DB { return s.db }

// Insert пишет запись в main_table дескриптора (по умолчанию — сама таблица)
func (s *Store) Insert(ctx context.Context, table string, rec Record) error {
	t, err := s.meta.Describe(table)
	if err != nil {
		return err
	}
	q, args := BuildInsert(t.InsertTable(), rec)
	return s.execTx(ctx, "insert", table, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, q, args...)
		return err
	})
}

// Delete удаляет строку по всем ключам delete_map
func (s *Store) Delete(ctx context.Context, table string, rec Record) error {
	t, err := s.meta.Describe(table)
	if err != nil {
		return err
	}
	q, args, err := BuildDelete(t.DeleteMap, rec)
	if err != nil {
		return err
	}
	return s.execTx(ctx, "delete", table, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, q, args...)
		return err
	})
}

// Update — редактирование как удаление старой строки плюс вставка новой,
// обе в одной транзакции: отказ вставки возвращает старую строку на место.
func (s *Store) Update(ctx context.Context, table string, oldRec, newRec Record) error {
	t, err := s.meta.Describe(table)
	if err != nil {
		return err
	}
	delQ, delArgs, err := BuildDelete(t.DeleteMap, oldRec)
	if err != nil {
		return err
	}
	insQ, insArgs := BuildInsert(t.InsertTable(), newRec)

	return s.execTx(ctx, "update", table, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, delQ, delArgs...); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, insQ, insArgs...)
		return err
	})
}

// SelectAll возвращает колонки в позиционном порядке и все строки таблицы
func (s *Store) SelectAll(ctx context.Context, table string) ([]string, [][]string, error) {
	if _, err := s.meta.Describe(table); err != nil {
		return nil, nil, err
	}
	return s.query(ctx, "select", table, BuildSelectAll(table), nil)
}

// Search ищет подстроку по колонкам последнего describe таблицы.
// Пустой паттерн ведёт себя как SelectAll.
func (s *Store) Search(ctx context.Context, table, pattern string) ([]string, [][]string, error) {
	if _, err := s.meta.Describe(table); err != nil {
		return nil, nil, err
	}
	cols, err := s.Columns(ctx, table)
	if err != nil {
		return nil, nil, err
	}
	q, args := BuildSearch(table, pattern, cols)
	return s.query(ctx, "search", table, q, args)
}

// Columns возвращает колонки таблицы: из кэша последнего describe
// или, если его ещё не было, пустым запросом
func (s *Store) Columns(ctx context.Context, table string) ([]string, error) {
	s.mu.Lock()
	cached := s.lastCols[table]
	s.mu.Unlock()
	if len(cached) > 0 {
		return cached, nil
	}

	rows, err := s.db.QueryContext(ctx, BuildSelectAll(table)+" LIMIT 0")
	if err != nil {
		return nil, &DatabaseError{Op: "select", Table: table, Err: err}
	}
	defer rows.Close()
	cols, err := rows.Columns()
	if err != nil {
		return nil, &DatabaseError{Op: "select", Table: table, Err: err}
	}
	s.rememberCols(table, cols)
	return cols, nil
}

// Choices — актуальные значения source_column для dropdown.
// Не кэшируется: список может меняться между открытиями формы.
func (s *Store) Choices(ctx context.Context, sourceTable, sourceColumn string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, BuildChoices(sourceTable, sourceColumn))
	if err != nil {
		return nil, &DatabaseError{Op: "choices", Table: sourceTable, Err: err}
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v any
		if err := rows.Scan(&v); err != nil {
			return nil, &DatabaseError{Op: "choices", Table: sourceTable, Err: err}
		}
		out = append(out, Stringify(v))
	}
	if err := rows.Err(); err != nil {
		return nil, &DatabaseError{Op: "choices", Table: sourceTable, Err: err}
	}
	return out, nil
}

func (s *Store) query(ctx context.Context, op, table, q string, args []any) ([]string, [][]string, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, nil, &DatabaseError{Op: op, Table: table, Err: err}
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, &DatabaseError{Op: op, Table: table, Err: err}
	}
	s.rememberCols(table, cols)

	var out [][]string
	for rows.Next() {
		raw := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, &DatabaseError{Op: op, Table: table, Err: err}
		}
		row := make([]string, len(cols))
		for i, v := range raw {
			row[i] = Stringify(v)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, &DatabaseError{Op: op, Table: table, Err: err}
	}
	return cols, out, nil
}

func (s *Store) execTx(ctx context.Context, op, table string, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &DatabaseError{Op: op, Table: table, Err: err}
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return &DatabaseError{Op: op, Table: table, Err: err}
	}
	if err := tx.Commit(); err != nil {
		_ = tx.Rollback()
		return &DatabaseError{Op: op, Table: table, Err: err}
	}
	return nil
}

func (s *Store) rememberCols(table string, cols []string) {
	s.mu.Lock()
	s.lastCols[table] = append([]string(nil), cols...)
	s.mu.Unlock()
}
