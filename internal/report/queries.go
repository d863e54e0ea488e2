package report

import "fmt"

// Kind — вид отчёта; их ровно три, определения фиксированы
type Kind string

const (
	KindRoutes   Kind = "routes"             // среднее время в пути для маршрутов
	KindPopular  Kind = "popular_directions" // популярные направления
	KindBrigades Kind = "brigade_usage"      // используемость бригад
)

// FileName — фиксированное имя выходного файла по виду отчёта
func FileName(kind Kind) string {
	switch kind {
	case KindRoutes:
		return "route_report.pdf"
	case KindPopular:
		return "popular_directions_report.pdf"
	case KindBrigades:
		return "brigade_usage_report.pdf"
	}
	return ""
}

// Ключи сортировки отчётов
const (
	OrderAsc        = "ASC"
	OrderDesc       = "DESC"
	OrderByCount    = "count"
	OrderByDuration = "duration"
	OrderByExp      = "experience"
)

// RouteParams — отчёт 1: вокзал отправления + диапазон времени отправления
type RouteParams struct {
	DepartureStation string `json:"departure_station"`
	From             string `json:"from"` // "2006-01-02 15:04:05"
	To               string `json:"to"`
	Order            string `json:"order"` // ASC | DESC по среднему времени
}

// PopularParams — отчёт 2: только диапазон времени отправления
type PopularParams struct {
	From    string `json:"from"`
	To      string `json:"to"`
	OrderBy string `json:"order_by"` // count | duration, оба по убыванию
}

// BrigadeParams — отчёт 3: минимальный стаж + диапазон времени
type BrigadeParams struct {
	MinExperience int    `json:"min_experience"`
	From          string `json:"from"`
	To            string `json:"to"`
	OrderBy       string `json:"order_by"` // count | experience, оба по убыванию
}

// ORDER BY склеивается из фиксированных фрагментов по ключу сортировки,
// никогда из пользовательского текста.

// BuildRouteQuery — группировка по паре вокзалов, среднее время в часах
// (2 знака) и число рейсов
func BuildRouteQuery(p RouteParams) (string, []any, error) {
	dir := p.Order
	if dir == "" {
		dir = OrderAsc
	}
	if dir != OrderAsc && dir != OrderDesc {
		return "", nil, fmt.Errorf("route report: bad order %q", p.Order)
	}
	q := `
SELECT
    s1.name AS departure_station,
    s2.name AS arrival_station,
    ROUND(AVG(EXTRACT(EPOCH FROM (r.arrival_time - r.departure_time)) / 3600), 2) AS avg_travel_time_hours,
    COUNT(*) AS route_count
FROM routes r
JOIN stations s1 ON r.departure_station_code = s1.station_code
JOIN stations s2 ON r.arrival_station_code = s2.station_code
WHERE r.departure_time BETWEEN $1 AND $2
  AND s1.name = $3
GROUP BY s1.name, s2.name
ORDER BY avg_travel_time_hours ` + dir
	return q, []any{p.From, p.To, p.DepartureStation}, nil
}

// BuildPopularQuery — группировка по паре вокзалов, число рейсов
// и суммарное время в часах
func BuildPopularQuery(p PopularParams) (string, []any, error) {
	var order string
	switch p.OrderBy {
	case "", OrderByCount:
		order = "route_count DESC, total_travel_time_hours DESC"
	case OrderByDuration:
		order = "total_travel_time_hours DESC, route_count DESC"
	default:
		return "", nil, fmt.Errorf("popular directions report: bad order_by %q", p.OrderBy)
	}
	q := `
SELECT
    s1.name AS departure_station,
    s2.name AS arrival_station,
    COUNT(r.route_code) AS route_count,
    ROUND(SUM(EXTRACT(EPOCH FROM (r.arrival_time - r.departure_time))) / 3600, 2) AS total_travel_time_hours
FROM routes r
JOIN stations s1 ON r.departure_station_code = s1.station_code
JOIN stations s2 ON r.arrival_station_code = s2.station_code
WHERE r.departure_time BETWEEN $1 AND $2
GROUP BY s1.name, s2.name
ORDER BY ` + order
	return q, []any{p.From, p.To}, nil
}

// BuildBrigadeQuery — группировка по бригаде, число рейсов и средний
// стаж сотрудников (2 знака) с отсечкой по минимальному стажу
func BuildBrigadeQuery(p BrigadeParams) (string, []any, error) {
	var order string
	switch p.OrderBy {
	case "", OrderByCount:
		order = "route_count DESC, avg_experience_years DESC"
	case OrderByExp:
		order = "avg_experience_years DESC, route_count DESC"
	default:
		return "", nil, fmt.Errorf("brigade usage report: bad order_by %q", p.OrderBy)
	}
	q := `
SELECT
    b.name AS brigade_name,
    COUNT(rb.route_code) AS route_count,
    ROUND(AVG(s.experience_years), 2) AS avg_experience_years
FROM route_brigades rb
JOIN brigades b ON rb.brigade_code = b.brigade_code
JOIN staff s ON s.brigade_code = b.brigade_code
WHERE s.experience_years >= $1
  AND rb.route_code IN (
      SELECT route_code
      FROM routes
      WHERE departure_time BETWEEN $2 AND $3
  )
GROUP BY b.name
ORDER BY ` + order
	return q, []any{p.MinExperience, p.From, p.To}, nil
}
