package form

import (
	"context"
	"strings"

	"vokzal/internal/meta"
	"vokzal/internal/reference"
	"vokzal/internal/store"
)

// StaffCountField — служебное поле формы ростера: сколько сотрудников
// добавить следом. Полем таблицы не является и в запись не попадает.
const StaffCountField = "staff_count"

const maxStaffCount = 100

// MetaSource — дескрипторы таблиц (каталог метаданных или стаб в тестах)
type MetaSource interface {
	Describe(table string) (*meta.Table, error)
}

// ChoiceSource — живые значения для dropdown; реализуется store.Store
type ChoiceSource interface {
	Choices(ctx context.Context, sourceTable, sourceColumn string) ([]string, error)
}

// Engine переводит дескриптор таблицы в форму и проверенную запись.
// Имена таблиц спецслучая ростера — конфигурация, не захардкоженные
// сравнения строк.
type Engine struct {
	Meta    MetaSource
	Choices ChoiceSource
	Enums   map[string]reference.EnumDirectory

	// спецслучай: добавление строки в таблицу-ростер открывает N форм
	// сотрудников с предзаполненной бригадой
	RosterTable  string // таблица-ростер ("brigade_routes")
	StaffTable   string // форма сотрудника ("staff_details")
	BrigadeField string // поле бригады, общее для обеих форм
}

// Имена спецслучая в поставляемом документе метаданных
const (
	DefaultRosterTable  = "brigade_routes"
	DefaultStaffTable   = "staff_details"
	DefaultBrigadeField = "brigade_code"
)

// NewEngine собирает движок с именами ростера по умолчанию
func NewEngine(m MetaSource, ch ChoiceSource, enums map[string]reference.EnumDirectory) *Engine {
	return &Engine{
		Meta:         m,
		Choices:      ch,
		Enums:        enums,
		RosterTable:  DefaultRosterTable,
		StaffTable:   DefaultStaffTable,
		BrigadeField: DefaultBrigadeField,
	}
}

// Field — одно поле построенной формы
type Field struct {
	Name    string         `json:"name"`
	Label   string         `json:"label"`
	Input   meta.InputType `json:"input"`
	Choices []string       `json:"choices,omitempty"`
	Value   string         `json:"value,omitempty"`
}

// Form — что отдаётся поверхности отображения
type Form struct {
	Table      string  `json:"table"`
	Index      int     `json:"index,omitempty"` // номер формы сотрудника (1..N)
	Fields     []Field `json:"fields"`
	StaffCount bool    `json:"staff_count,omitempty"` // форма несёт доп. поле staff_count
}

// Build собирает форму добавления/редактирования: для каждого поля —
// дисциплина ввода по input_type, для dropdown — живые значения
// source_column (без кэша: списки меняются между открытиями).
// current — значения строки при редактировании, может быть nil.
func (e *Engine) Build(ctx context.Context, table string, current map[string]string) (*Form, error) {
	t, err := e.Meta.Describe(table)
	if err != nil {
		return nil, err
	}

	f := &Form{Table: table}
	for _, fd := range t.Fields {
		ff := Field{Name: fd.Name, Label: fd.Description, Input: fd.Input, Value: current[fd.Name]}
		switch fd.Input {
		case meta.InputDropdown:
			choices, err := e.Choices.Choices(ctx, fd.SourceTable, fd.SourceColumn)
			if err != nil {
				return nil, err
			}
			ff.Choices = choices
		case meta.InputGender:
			ff.Choices = e.genderCodes()
		}
		f.Fields = append(f.Fields, ff)
	}
	if table == e.RosterTable {
		f.StaffCount = true
	}
	return f, nil
}

// Validate проверяет ввод в порядке полей дескриптора: сначала
// заполненность, затем формат. Первое несошедшееся поле прерывает
// отправку. Возвращает упорядоченную запись для вставки и staff_count
// (ненулевой только у ростера).
func (e *Engine) Validate(ctx context.Context, table string, input map[string]string) (store.Record, int, error) {
	t, err := e.Meta.Describe(table)
	if err != nil {
		return nil, 0, err
	}

	var rec store.Record
	for _, fd := range t.Fields {
		raw := strings.TrimSpace(input[fd.Name])
		if raw == "" {
			return nil, 0, required(fd.Name)
		}
		v, verr := e.checkValue(ctx, fd, raw)
		if verr != nil {
			return nil, 0, verr
		}
		rec = append(rec, store.FieldValue{Name: fd.Name, Value: v})
	}

	staffCount := 0
	if table == e.RosterTable {
		raw := strings.TrimSpace(input[StaffCountField])
		if raw != "" {
			n, ok := parseInt(raw)
			if !ok || n < 0 || n > maxStaffCount {
				return nil, 0, badFormat(StaffCountField, "must be an integer between 0 and 100")
			}
			staffCount = int(n)
		}
	}
	return rec, staffCount, nil
}

// StaffForms строит count форм сотрудника; поле бригады в каждой —
// dropdown с единственным значением только что добавленной бригады.
// Отправка каждой формы независима: отказ i-й не откатывает строку
// ростера и формы 1..i-1.
func (e *Engine) StaffForms(ctx context.Context, count int, brigade string) ([]*Form, error) {
	forms := make([]*Form, 0, count)
	for i := 1; i <= count; i++ {
		f, err := e.buildStaffForm(ctx, i, brigade)
		if err != nil {
			return nil, err
		}
		forms = append(forms, f)
	}
	return forms, nil
}

func (e *Engine) buildStaffForm(ctx context.Context, index int, brigade string) (*Form, error) {
	t, err := e.Meta.Describe(e.StaffTable)
	if err != nil {
		return nil, err
	}
	f := &Form{Table: e.StaffTable, Index: index}
	for _, fd := range t.Fields {
		ff := Field{Name: fd.Name, Label: fd.Description, Input: fd.Input}
		switch {
		case fd.Name == e.BrigadeField:
			ff.Choices = []string{brigade}
			ff.Value = brigade
		case fd.Input == meta.InputDropdown:
			choices, err := e.Choices.Choices(ctx, fd.SourceTable, fd.SourceColumn)
			if err != nil {
				return nil, err
			}
			ff.Choices = choices
		case fd.Input == meta.InputGender:
			ff.Choices = e.genderCodes()
		}
		f.Fields = append(f.Fields, ff)
	}
	return f, nil
}

// checkValue — проверка формата по виду ввода; значение уже непустое
func (e *Engine) checkValue(ctx context.Context, fd meta.Field, raw string) (any, *ValidationError) {
	switch fd.Input {
	case meta.InputText:
		return raw, nil
	case meta.InputNumber:
		n, ok := parseInt(raw)
		if !ok {
			return nil, badFormat(fd.Name, "must be an integer")
		}
		return n, nil
	case meta.InputStaffINN:
		if !staffINNRe.MatchString(raw) {
			return nil, badFormat(fd.Name, "must be exactly 12 digits")
		}
		return raw, nil
	case meta.InputStationINN:
		if !stationINNRe.MatchString(raw) {
			return nil, badFormat(fd.Name, "must be exactly 10 digits")
		}
		return raw, nil
	case meta.InputDatetime:
		norm, ok := NormalizeDatetime(raw)
		if !ok {
			return nil, badFormat(fd.Name, "must be a datetime like 2006-01-02 15:04:05")
		}
		return norm, nil
	case meta.InputGender:
		if !e.genderDir().Has(raw) {
			return nil, badFormat(fd.Name, "must be one of the gender codes")
		}
		return raw, nil
	case meta.InputDropdown:
		choices, err := e.Choices.Choices(ctx, fd.SourceTable, fd.SourceColumn)
		if err != nil {
			return nil, badFormat(fd.Name, "choice list unavailable: "+err.Error())
		}
		for _, c := range choices {
			if c == raw {
				return raw, nil
			}
		}
		return nil, badFormat(fd.Name, "is not one of the allowed values")
	default:
		// линтер метаданных не пропускает неизвестные виды; как и в
		// исходном документе, трактуем как свободный текст
		return raw, nil
	}
}

func (e *Engine) genderDir() reference.EnumDirectory {
	if d, ok := e.Enums[reference.GenderCatalog]; ok && len(d.Items) > 0 {
		return d
	}
	return reference.DefaultGender()
}

func (e *Engine) genderCodes() []string { return e.genderDir().Codes() }
