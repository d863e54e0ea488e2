package api

import (
	"net/http"
	"os"

	"vokzal/internal/form"
	"vokzal/internal/report"

	"github.com/gin-gonic/gin"
)

// ===== REPORT HANDLERS =====
// Каждый отчёт — фиксированный шаблон; пустая выборка прерывает
// операцию без записи файла.

// POST /api/reports/routes
func RouteReportHandler(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		var p report.RouteParams
		if err := c.ShouldBindJSON(&p); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
			return
		}
		if !normalizeRange(c, &p.From, &p.To) {
			return
		}
		path, err := s.Reports.Route(c.Request.Context(), p)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "file": path, "name": report.FileName(report.KindRoutes)})
	}
}

// POST /api/reports/popular_directions
func PopularReportHandler(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		var p report.PopularParams
		if err := c.ShouldBindJSON(&p); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
			return
		}
		if !normalizeRange(c, &p.From, &p.To) {
			return
		}
		path, err := s.Reports.Popular(c.Request.Context(), p)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "file": path, "name": report.FileName(report.KindPopular)})
	}
}

// POST /api/reports/brigade_usage
func BrigadeReportHandler(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		var p report.BrigadeParams
		if err := c.ShouldBindJSON(&p); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
			return
		}
		if p.MinExperience < 0 || p.MinExperience > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "min_experience must be between 0 and 100"})
			return
		}
		if !normalizeRange(c, &p.From, &p.To) {
			return
		}
		path, err := s.Reports.Brigades(c.Request.Context(), p)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "file": path, "name": report.FileName(report.KindBrigades)})
	}
}

// GET /api/reports/:kind/file — отдать сформированный PDF
func ReportFileHandler(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		kind := report.Kind(c.Param("kind"))
		name := report.FileName(kind)
		if name == "" {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown report kind"})
			return
		}
		path := s.Reports.Path(kind)
		if _, err := os.Stat(path); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "report is not generated yet"})
			return
		}
		c.FileAttachment(path, name)
	}
}

// диапазон времени отправления обязателен и нормализуется до
// "2006-01-02 15:04:05"; false — ответ уже отправлен
func normalizeRange(c *gin.Context, from, to *string) bool {
	f, okF := form.NormalizeDatetime(*from)
	t, okT := form.NormalizeDatetime(*to)
	if !okF || !okT {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from/to must be datetimes like 2006-01-02 15:04:05"})
		return false
	}
	*from, *to = f, t
	return true
}
