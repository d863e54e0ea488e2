package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileName(t *testing.T) {
	assert.Equal(t, "route_report.pdf", FileName(KindRoutes))
	assert.Equal(t, "popular_directions_report.pdf", FileName(KindPopular))
	assert.Equal(t, "brigade_usage_report.pdf", FileName(KindBrigades))
	assert.Empty(t, FileName(Kind("weekly")))
}

func TestBuildRouteQuery(t *testing.T) {
	p := RouteParams{
		DepartureStation: "Казанский",
		From:             "2024-01-01 00:00:00",
		To:               "2024-12-31 23:59:59",
	}

	q, args, err := BuildRouteQuery(p)
	require.NoError(t, err)
	assert.Contains(t, q, "ROUND(AVG(EXTRACT(EPOCH FROM (r.arrival_time - r.departure_time)) / 3600), 2)")
	assert.Contains(t, q, "r.departure_time BETWEEN $1 AND $2")
	assert.Contains(t, q, "s1.name = $3")
	// направление по умолчанию — по возрастанию
	assert.Contains(t, q, "ORDER BY avg_travel_time_hours ASC")
	assert.Equal(t, []any{p.From, p.To, p.DepartureStation}, args)

	p.Order = OrderDesc
	q, _, err = BuildRouteQuery(p)
	require.NoError(t, err)
	assert.Contains(t, q, "ORDER BY avg_travel_time_hours DESC")

	// ORDER BY собирается из фиксированных фрагментов, чужой текст — ошибка
	p.Order = "ASC; DROP TABLE routes"
	_, _, err = BuildRouteQuery(p)
	assert.Error(t, err)
}

func TestBuildPopularQuery(t *testing.T) {
	p := PopularParams{From: "2024-01-01 00:00:00", To: "2024-12-31 23:59:59"}

	q, args, err := BuildPopularQuery(p)
	require.NoError(t, err)
	assert.Contains(t, q, "COUNT(r.route_code) AS route_count")
	assert.Contains(t, q, "ORDER BY route_count DESC, total_travel_time_hours DESC")
	assert.Equal(t, []any{p.From, p.To}, args)

	p.OrderBy = OrderByDuration
	q, _, err = BuildPopularQuery(p)
	require.NoError(t, err)
	assert.Contains(t, q, "ORDER BY total_travel_time_hours DESC, route_count DESC")

	p.OrderBy = "name"
	_, _, err = BuildPopularQuery(p)
	assert.Error(t, err)
}

func TestBuildBrigadeQuery(t *testing.T) {
	p := BrigadeParams{MinExperience: 5, From: "2024-01-01 00:00:00", To: "2024-12-31 23:59:59"}

	q, args, err := BuildBrigadeQuery(p)
	require.NoError(t, err)
	assert.Contains(t, q, "s.experience_years >= $1")
	assert.Contains(t, q, "WHERE departure_time BETWEEN $2 AND $3")
	assert.Contains(t, q, "ORDER BY route_count DESC, avg_experience_years DESC")
	assert.Equal(t, []any{5, p.From, p.To}, args)

	p.OrderBy = OrderByExp
	q, _, err = BuildBrigadeQuery(p)
	require.NoError(t, err)
	assert.Contains(t, q, "ORDER BY avg_experience_years DESC, route_count DESC")

	p.OrderBy = "salary"
	_, _, err = BuildBrigadeQuery(p)
	assert.Error(t, err)
}
