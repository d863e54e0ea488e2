package meta

import "fmt"

// InputType — закрытый набор видов ввода для поля формы
type InputType string

const (
	InputText       InputType = "text"
	InputNumber     InputType = "number"
	InputDropdown   InputType = "dropdown"
	InputDatetime   InputType = "datetime"
	InputStaffINN   InputType = "staff_inn"
	InputStationINN InputType = "station_inn"
	InputGender     InputType = "gender_dropdown"
)

// KnownInputTypes — для линтера и исчерпывающих switch'ей
var KnownInputTypes = []InputType{
	InputText, InputNumber, InputDropdown, InputDatetime,
	InputStaffINN, InputStationINN, InputGender,
}

// Field описывает одно редактируемое поле таблицы
type Field struct {
	Name        string
	Description string // подпись в форме
	Input       InputType
	// для dropdown: откуда брать допустимые значения
	SourceTable  string
	SourceColumn string
}

// DeleteMap — {таблица, ключевые колонки} для идентификации строки
// при удалении/замене. Никакого предположения о primary key:
// составной естественный ключ задаётся метаданными.
type DeleteMap struct {
	Table string
	Keys  []string
}

// Table описывает одну логическую таблицу: упорядоченные поля,
// целевую таблицу вставки и ключи удаления.
type Table struct {
	Name      string
	MainTable string // куда писать INSERT; пусто = Name
	Fields    []Field
	DeleteMap DeleteMap
}

// InsertTable возвращает целевую таблицу для INSERT
func (t *Table) InsertTable() string {
	if t.MainTable != "" {
		return t.MainTable
	}
	return t.Name
}

// FieldByName возвращает поле по имени (поля упорядочены, их немного)
func (t *Table) FieldByName(name string) (Field, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// NotFoundError — таблица не объявлена в документе метаданных
type NotFoundError struct {
	Table string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("table %q is not described in metadata", e.Table)
}
