package reference

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnumCatalogMissingDir(t *testing.T) {
	// отсутствие папки — не ошибка, остаётся встроенный справочник пола
	catalog, err := LoadEnumCatalog(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)

	gender, ok := catalog[GenderCatalog]
	require.True(t, ok)
	assert.Equal(t, []string{"M", "F"}, gender.Codes())
}

func TestLoadEnumCatalogFromYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gender.yaml"), []byte(
		"name: gender\nitems:\n  - code: \"M\"\n    name: \"Мужской\"\n  - code: \"F\"\n    name: \"Женский\"\n  - code: \"N\"\n    name: \"Не указан\"\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wagon_class.yml"), []byte(
		"items:\n  - code: \"cupe\"\n    name: \"Купе\"\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	catalog, err := LoadEnumCatalog(dir)
	require.NoError(t, err)

	// файл перекрывает встроенный справочник
	gender := catalog[GenderCatalog]
	assert.Equal(t, []string{"M", "F", "N"}, gender.Codes())
	assert.True(t, gender.Has("N"))
	assert.False(t, gender.Has("X"))

	// имя без поля name берётся из имени файла
	wagon, ok := catalog["wagon_class"]
	require.True(t, ok)
	assert.Equal(t, []string{"cupe"}, wagon.Codes())

	_, ok = catalog["notes"]
	assert.False(t, ok)
}

func TestLoadEnumCatalogBadYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("{未"), 0o644))

	_, err := LoadEnumCatalog(dir)
	assert.Error(t, err)
}
