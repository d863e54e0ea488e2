package api

import (
	"net/http"
	"strings"

	"vokzal/internal/meta"
	"vokzal/internal/reference"

	"github.com/gin-gonic/gin"
)

type reloadReq struct {
	MetadataPath string `json:"metadata_path"` // путь к table_metadata.json
	EnumsDir     string `json:"enums_dir"`     // директория со справочниками
}

// POST /api/admin/reload — перечитать документы метаданных.
// Новый каталог линтуется до подмены; операции в полёте дочитывают
// старый снимок, подмена атомарна.
func AdminReloadHandler(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req reloadReq
		if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
			return
		}

		metaPath := strings.TrimSpace(req.MetadataPath)
		if metaPath == "" {
			metaPath = s.MetadataPath
		}
		enumsDir := strings.TrimSpace(req.EnumsDir)
		if enumsDir == "" {
			enumsDir = s.EnumsDir
		}

		// Load сам прогоняет линтер; кривой документ не подменяет рабочий
		catalog, err := meta.Load(metaPath)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "metadata load error", "details": err.Error()})
			return
		}
		enums, err := reference.LoadEnumCatalog(enumsDir)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "enum load error", "details": err.Error()})
			return
		}

		s.swap(catalog, enums)

		c.JSON(http.StatusOK, gin.H{
			"ok":         true,
			"metadata":   metaPath,
			"enumsDir":   enumsDir,
			"tables":     len(catalog.Tables()),
			"enumGroups": len(enums),
		})
	}
}
