package api

import (
	"net/http"

	"vokzal/internal/meta"

	"github.com/gin-gonic/gin"
)

// ===== META HANDLERS =====

type metaField struct {
	Name         string `json:"name"`
	Label        string `json:"label"`
	Input        string `json:"input"`
	SourceTable  string `json:"source_table,omitempty"`
	SourceColumn string `json:"source_column,omitempty"`
}

type metaTable struct {
	Table     string      `json:"table"`
	MainTable string      `json:"main_table"`
	Fields    []metaField `json:"fields"`
	DeleteMap gin.H       `json:"delete_map"`
}

// GET /api/tables — имена таблиц для селектора
func TablesHandler(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"tables": s.Tables()})
	}
}

// GET /api/tables/:table/describe — дескриптор таблицы
func DescribeHandler(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		t, err := s.Describe(c.Param("table"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, toMetaTable(t))
	}
}

func toMetaTable(t *meta.Table) metaTable {
	fields := make([]metaField, 0, len(t.Fields))
	for _, f := range t.Fields {
		fields = append(fields, metaField{
			Name:         f.Name,
			Label:        f.Description,
			Input:        string(f.Input),
			SourceTable:  f.SourceTable,
			SourceColumn: f.SourceColumn,
		})
	}
	return metaTable{
		Table:     t.Name,
		MainTable: t.InsertTable(),
		Fields:    fields,
		DeleteMap: gin.H{"table": t.DeleteMap.Table, "keys": t.DeleteMap.Keys},
	}
}
