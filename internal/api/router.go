// api/router.go
package api

import (
	"github.com/gin-gonic/gin"
)

// NewRouter собирает все маршруты поверх готового Server
func NewRouter(s *Server) *gin.Engine {
	r := gin.Default()

	apiGroup := r.Group("/api")
	{
		// метаданные
		apiGroup.GET("/tables", TablesHandler(s))
		apiGroup.GET("/tables/:table/describe", DescribeHandler(s))
		apiGroup.GET("/tables/:table/form", FormHandler(s))

		// выдача и действия над строками
		apiGroup.GET("/tables/:table/rows", RowsHandler(s))
		apiGroup.POST("/tables/:table/rows", SubmitHandler(s))
		apiGroup.PUT("/tables/:table/rows", UpdateHandler(s))
		apiGroup.POST("/tables/:table/rows/delete", DeleteHandler(s))
		apiGroup.POST("/tables/:table/sort", SortHandler(s))

		// отчёты
		apiGroup.POST("/reports/routes", RouteReportHandler(s))
		apiGroup.POST("/reports/popular_directions", PopularReportHandler(s))
		apiGroup.POST("/reports/brigade_usage", BrigadeReportHandler(s))
		apiGroup.GET("/reports/:kind/file", ReportFileHandler(s))

		// администрирование
		apiGroup.POST("/admin/reload", AdminReloadHandler(s))
	}

	return r
}

func RunServer(addr string, s *Server) error {
	return NewRouter(s).Run(addr)
}
