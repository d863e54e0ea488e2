package report

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"path/filepath"

	"vokzal/internal/store"
)

// ErrNoData — запрос отчёта не вернул строк: операция прерывается,
// файл не пишется, оператору уходит уведомление.
var ErrNoData = errors.New("no data for the selected filters")

// Querier — то, что умеет исполнить отчётный запрос (*sql.DB подходит)
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Generator исполняет три фиксированных агрегатных шаблона и рендерит
// результат в PDF с фиксированным именем файла по виду отчёта.
// Ошибка записи файла сообщается, не повторяется.
type Generator struct {
	DB      Querier
	OutDir  string // куда писать PDF (по умолчанию — рабочий стол)
	FontDir string // где искать кириллический TTF
}

// Route — отчёт "среднее время в пути для маршрутов"
func (g *Generator) Route(ctx context.Context, p RouteParams) (string, error) {
	q, args, err := BuildRouteQuery(p)
	if err != nil {
		return "", err
	}
	return g.run(ctx, KindRoutes, q, args, 4)
}

// Popular — отчёт "популярные направления маршрутов"
func (g *Generator) Popular(ctx context.Context, p PopularParams) (string, error) {
	q, args, err := BuildPopularQuery(p)
	if err != nil {
		return "", err
	}
	return g.run(ctx, KindPopular, q, args, 4)
}

// Brigades — отчёт "используемость бригад"
func (g *Generator) Brigades(ctx context.Context, p BrigadeParams) (string, error) {
	q, args, err := BuildBrigadeQuery(p)
	if err != nil {
		return "", err
	}
	return g.run(ctx, KindBrigades, q, args, 3)
}

// Path — фиксированный путь выходного файла по виду отчёта
func (g *Generator) Path(kind Kind) string {
	return filepath.Join(g.OutDir, FileName(kind))
}

func (g *Generator) run(ctx context.Context, kind Kind, q string, args []any, width int) (string, error) {
	data, err := g.fetch(ctx, q, args, width)
	if err != nil {
		return "", fmt.Errorf("%s report: %w", kind, err)
	}
	if len(data) == 0 {
		return "", ErrNoData
	}

	path := g.Path(kind)
	if err := renderPDF(path, kind, data, g.FontDir); err != nil {
		return "", err
	}
	log.Printf("report %s: %d rows -> %s", kind, len(data), path)
	return path, nil
}

func (g *Generator) fetch(ctx context.Context, q string, args []any, width int) ([][]string, error) {
	rows, err := g.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		raw := make([]any, width)
		ptrs := make([]any, width)
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make([]string, width)
		for i, v := range raw {
			row[i] = store.Stringify(v)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
