package pg

import (
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vokzal/internal/meta"
)

var relationRe = regexp.MustCompile(`(?i)create (?:table if not exists|or replace view) (\w+)`)

// Каждая таблица поставляемого документа метаданных читается по своему
// логическому имени, поэтому DDL обязан создать одноимённое отношение
// (таблицу или представление поверх main_table).
func TestDomainDDLCoversMetadataDocument(t *testing.T) {
	doc, err := meta.Load(filepath.Join("..", "..", "metadata", "table_metadata.json"))
	require.NoError(t, err)

	created := map[string]bool{}
	for _, sqlText := range DomainDDL() {
		for _, m := range relationRe.FindAllStringSubmatch(sqlText, -1) {
			created[m[1]] = true
		}
	}

	for _, name := range doc.Tables() {
		assert.True(t, created[name], "metadata table %q has no relation in DomainDDL", name)

		tbl, err := doc.Describe(name)
		require.NoError(t, err)
		// целевые отношения вставки и удаления тоже должны существовать
		assert.True(t, created[tbl.InsertTable()], "insert target %q of %q has no relation in DomainDDL", tbl.InsertTable(), name)
		assert.True(t, created[tbl.DeleteMap.Table], "delete target %q of %q has no relation in DomainDDL", tbl.DeleteMap.Table, name)
	}
}
