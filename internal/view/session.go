package view

import (
	"context"
	"sort"
	"sync"
)

// State — состояние просмотра таблицы
type State string

const (
	StateUnloaded State = "unloaded"
	StateLoaded   State = "loaded"
	StateFiltered State = "filtered"
)

// RowSource отдаёт строки выдачи; реализуется store.Store
type RowSource interface {
	SelectAll(ctx context.Context, table string) ([]string, [][]string, error)
	Search(ctx context.Context, table, pattern string) ([]string, [][]string, error)
}

// Session — явный объект состояния просмотра вместо глобальных
// переменных: текущая таблица, фильтр, показанные строки и сортировка.
// Unloaded -> Loaded(table) -> Filtered(table, pattern) и обратно
// при очистке поиска или смене таблицы.
type Session struct {
	src RowSource

	mu       sync.Mutex
	table    string
	pattern  string
	cols     []string
	rows     [][]string
	sortCol  string // активная колонка сортировки; радиокнопочная семантика
	sortDesc bool
}

func NewSession(src RowSource) *Session {
	return &Session{src: src}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.table == "":
		return StateUnloaded
	case s.pattern != "":
		return StateFiltered
	default:
		return StateLoaded
	}
}

// Load загружает все строки таблицы; фильтр и сортировка сбрасываются
func (s *Session) Load(ctx context.Context, table string) error {
	cols, rows, err := s.src.SelectAll(ctx, table)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.table, s.pattern = table, ""
	s.cols, s.rows = cols, rows
	s.sortCol, s.sortDesc = "", false
	s.mu.Unlock()
	return nil
}

// Search фильтрует текущую таблицу; пустой паттерн возвращает в Loaded
func (s *Session) Search(ctx context.Context, pattern string) error {
	s.mu.Lock()
	table := s.table
	s.mu.Unlock()
	if table == "" {
		return nil // нечего искать до выбора таблицы
	}
	if pattern == "" {
		return s.Load(ctx, table)
	}
	cols, rows, err := s.src.Search(ctx, table, pattern)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.pattern = pattern
	s.cols, s.rows = cols, rows
	s.sortCol, s.sortDesc = "", false
	s.mu.Unlock()
	return nil
}

// Reload перечитывает текущую выдачу (после insert/delete/update)
func (s *Session) Reload(ctx context.Context) error {
	s.mu.Lock()
	table, pattern := s.table, s.pattern
	s.mu.Unlock()
	if table == "" {
		return nil
	}
	if pattern != "" {
		return s.Search(ctx, pattern)
	}
	return s.Load(ctx, table)
}

// ToggleSort — клик по заголовку: у активной колонки переворачивается
// направление, у остальных флаг сбрасывается (активна максимум одна).
// Запрос не переисполняется — сортируются только показанные строки.
func (s *Session) ToggleSort(column string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, c := range s.cols {
		if c == column {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}

	if s.sortCol == column {
		s.sortDesc = !s.sortDesc
	} else {
		s.sortCol, s.sortDesc = column, true
	}

	desc := s.sortDesc
	sort.SliceStable(s.rows, func(i, j int) bool {
		a, b := s.rows[i][idx], s.rows[j][idx]
		if desc {
			return a > b
		}
		return a < b
	})
}

// Table — выбранная таблица ("" до первой загрузки)
func (s *Session) Table() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table
}

// Columns — колонки текущей выдачи в позиционном порядке
func (s *Session) Columns() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.cols...)
}

// Rows — показанные строки (с учётом локальной сортировки)
func (s *Session) Rows() [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]string, len(s.rows))
	for i, r := range s.rows {
		out[i] = append([]string(nil), r...)
	}
	return out
}

// SortState — активная колонка и направление (для заголовков таблицы)
func (s *Session) SortState() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortCol, s.sortDesc
}
