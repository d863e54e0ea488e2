package reference

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// GenderCatalog — имя справочника для полей gender_dropdown
const GenderCatalog = "gender"

// DefaultGender — встроенный справочник пола. Используется, когда
// в каталоге нет файла gender.yaml: форма обязана работать и без него.
func DefaultGender() EnumDirectory {
	return EnumDirectory{
		Name: GenderCatalog,
		Items: []EnumItem{
			{Code: "M", Name: "Мужской"},
			{Code: "F", Name: "Женский"},
		},
	}
}

// LoadEnumCatalog читает все справочники из папки reference/enums/.
// Отсутствие папки — не ошибка: остаются встроенные справочники.
func LoadEnumCatalog(dir string) (map[string]EnumDirectory, error) {
	result := map[string]EnumDirectory{
		GenderCatalog: DefaultGender(),
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return result, nil
		}
		return nil, err
	}
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		if !strings.HasSuffix(file.Name(), ".yaml") && !strings.HasSuffix(file.Name(), ".yml") {
			continue
		}
		path := filepath.Join(dir, file.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		var enumDir EnumDirectory
		if err := yaml.Unmarshal(data, &enumDir); err != nil {
			return nil, err
		}
		// Имя справочника — из enumDir.Name или из имени файла
		enumName := enumDir.Name
		if enumName == "" {
			enumName = strings.TrimSuffix(file.Name(), filepath.Ext(file.Name()))
		}
		result[enumName] = enumDir
	}
	return result, nil
}
