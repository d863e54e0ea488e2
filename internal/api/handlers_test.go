package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vokzal/internal/meta"
	"vokzal/internal/reference"
	"vokzal/internal/report"
)

func init() { gin.SetMode(gin.TestMode) }

const testMetadata = `{
    "stations": {
        "fields": {
            "station_code": {"description": "Код вокзала", "input_type": "number"},
            "name": {"description": "Название", "input_type": "text"},
            "inn": {"description": "ИНН", "input_type": "station_inn"}
        },
        "delete_map": {"table": "stations", "keys": ["station_code"]}
    },
    "brigades": {
        "fields": {
            "brigade_code": {"description": "Код бригады", "input_type": "number"},
            "name": {"description": "Название", "input_type": "text"}
        },
        "delete_map": {"table": "brigades", "keys": ["brigade_code"]}
    }
}`

// rowStub подменяет хранилище для сессий просмотра
type rowStub struct {
	rows [][]string
}

func (r *rowStub) SelectAll(_ context.Context, _ string) ([]string, [][]string, error) {
	return []string{"station_code", "name", "inn"}, r.rows, nil
}

func (r *rowStub) Search(_ context.Context, _, pattern string) ([]string, [][]string, error) {
	var out [][]string
	for _, row := range r.rows {
		for _, cell := range row {
			if strings.Contains(strings.ToLower(cell), strings.ToLower(pattern)) {
				out = append(out, row)
				break
			}
		}
	}
	return []string{"station_code", "name", "inn"}, out, nil
}

func testServer(t *testing.T) (*Server, *gin.Engine) {
	t.Helper()
	catalog, err := meta.Parse([]byte(testMetadata))
	require.NoError(t, err)

	enums := map[string]reference.EnumDirectory{
		reference.GenderCatalog: reference.DefaultGender(),
	}
	s := NewServer(catalog, enums, "metadata/table_metadata.json", "reference/enums")
	s.Sessions = NewSessionRegistry(&rowStub{rows: [][]string{
		{"2", "Московский", "0987654321"},
		{"1", "Казанский", "1234567890"},
	}})
	return s, NewRouter(s)
}

func do(r *gin.Engine, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestTablesEndpoint(t *testing.T) {
	_, r := testServer(t)

	w := do(r, http.MethodGet, "/api/tables", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Tables []string `json:"tables"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"stations", "brigades"}, resp.Tables)
}

func TestDescribeEndpoint(t *testing.T) {
	_, r := testServer(t)

	w := do(r, http.MethodGet, "/api/tables/stations/describe", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp metaTable
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "stations", resp.Table)
	require.Len(t, resp.Fields, 3)
	assert.Equal(t, "station_inn", resp.Fields[2].Input)

	w = do(r, http.MethodGet, "/api/tables/ghosts/describe", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "not_found")
}

func TestFormEndpoint(t *testing.T) {
	_, r := testServer(t)

	w := do(r, http.MethodGet, "/api/tables/stations/form?station_code=7", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Table  string `json:"table"`
		Fields []struct {
			Name  string `json:"name"`
			Label string `json:"label"`
			Value string `json:"value"`
		} `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "stations", resp.Table)
	require.Len(t, resp.Fields, 3)
	// подписи — из описаний полей, префилл — из query
	assert.Equal(t, "Код вокзала", resp.Fields[0].Label)
	assert.Equal(t, "7", resp.Fields[0].Value)
}

func TestRowsAndSearch(t *testing.T) {
	_, r := testServer(t)

	w := do(r, http.MethodGet, "/api/tables/stations/rows", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	sid := w.Header().Get("X-Session-Id")
	require.NotEmpty(t, sid)
	assert.Equal(t, "2", w.Header().Get("X-Total-Count"))

	var resp struct {
		State   string     `json:"state"`
		Rows    [][]string `json:"rows"`
		Columns []string   `json:"columns"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "loaded", resp.State)
	assert.Len(t, resp.Rows, 2)

	hdr := map[string]string{"X-Session-Id": sid}
	w = do(r, http.MethodGet, "/api/tables/stations/rows?q=каз", "", hdr)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "filtered", resp.State)
	assert.Len(t, resp.Rows, 1)

	// пустой q возвращает полную выдачу
	w = do(r, http.MethodGet, "/api/tables/stations/rows?q=", "", hdr)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "loaded", resp.State)
	assert.Len(t, resp.Rows, 2)
}

func TestSortEndpoint(t *testing.T) {
	_, r := testServer(t)

	w := do(r, http.MethodGet, "/api/tables/stations/rows", "", nil)
	sid := w.Header().Get("X-Session-Id")
	hdr := map[string]string{"X-Session-Id": sid}

	var resp struct {
		Rows [][]string `json:"rows"`
		Sort struct {
			Column string `json:"column"`
			Desc   bool   `json:"desc"`
		} `json:"sort"`
	}

	// первый клик — по убыванию
	w = do(r, http.MethodPost, "/api/tables/stations/sort", `{"column":"station_code"}`, hdr)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "station_code", resp.Sort.Column)
	assert.True(t, resp.Sort.Desc)
	assert.Equal(t, "2", resp.Rows[0][0])

	// повторный клик переворачивает направление
	w = do(r, http.MethodPost, "/api/tables/stations/sort", `{"column":"station_code"}`, hdr)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Sort.Desc)
	assert.Equal(t, "1", resp.Rows[0][0])

	w = do(r, http.MethodPost, "/api/tables/stations/sort", `{}`, hdr)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitValidationError(t *testing.T) {
	_, r := testServer(t)

	// пустое обязательное поле: 400 с кодом required, вставки нет
	w := do(r, http.MethodPost, "/api/tables/stations/rows",
		`{"station_code":"1","name":"","inn":"1234567890"}`, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Errors []struct {
			Code  string `json:"code"`
			Field string `json:"field"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "required", resp.Errors[0].Code)
	assert.Equal(t, "name", resp.Errors[0].Field)

	// плохой формат ИНН
	w = do(r, http.MethodPost, "/api/tables/stations/rows",
		`{"station_code":"1","name":"X","inn":"123"}`, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "bad_format", resp.Errors[0].Code)
	assert.Equal(t, "inn", resp.Errors[0].Field)

	// незнакомая таблица
	w = do(r, http.MethodPost, "/api/tables/ghosts/rows", `{"a":"b"}`, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReportFileEndpoint(t *testing.T) {
	s, r := testServer(t)
	dir := t.TempDir()
	s.Reports = &report.Generator{OutDir: dir}

	w := do(r, http.MethodGet, "/api/reports/weekly/file", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// отчёт ещё не формировался
	w = do(r, http.MethodGet, "/api/reports/routes/file", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "route_report.pdf"), []byte("%PDF-1.4"), 0o644))
	w = do(r, http.MethodGet, "/api/reports/routes/file", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "route_report.pdf")
	assert.Equal(t, "%PDF-1.4", w.Body.String())
}

func TestReportParamsValidation(t *testing.T) {
	s, r := testServer(t)
	s.Reports = &report.Generator{OutDir: t.TempDir()}

	// кривой диапазон отбрасывается до запроса в базу
	w := do(r, http.MethodPost, "/api/reports/routes",
		`{"departure_station":"Казанский","from":"вчера","to":"2024-12-31"}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/api/reports/brigade_usage",
		`{"min_experience":101,"from":"2024-01-01","to":"2024-12-31"}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "min_experience")
}

func TestAdminReload(t *testing.T) {
	s, r := testServer(t)
	dir := t.TempDir()

	// кривой документ не подменяет рабочий снимок
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"t": {"fields": {"a": {"input_type": "checkbox"}}}}`), 0o644))
	w := do(r, http.MethodPost, "/api/admin/reload", `{"metadata_path":"`+bad+`"}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"stations", "brigades"}, s.Tables())

	good := filepath.Join(dir, "good.json")
	require.NoError(t, os.WriteFile(good, []byte(`{
        "depots": {
            "fields": {"depot_code": {"description": "Код депо", "input_type": "number"}},
            "delete_map": {"table": "depots", "keys": ["depot_code"]}
        }
    }`), 0o644))
	w = do(r, http.MethodPost, "/api/admin/reload", `{"metadata_path":"`+good+`"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"depots"}, s.Tables())
}

func TestSessionRegistryReuse(t *testing.T) {
	reg := NewSessionRegistry(&rowStub{})

	s1, id1 := reg.Get("")
	require.NotEmpty(t, id1)

	s2, id2 := reg.Get(id1)
	assert.Equal(t, id1, id2)
	assert.Same(t, s1, s2)

	s3, id3 := reg.Get("unknown-id")
	assert.NotEqual(t, id1, id3)
	assert.NotSame(t, s1, s3)
}

func TestSessionRegistryEvictsOldest(t *testing.T) {
	reg := NewSessionRegistry(&rowStub{})

	_, first := reg.Get("")
	for i := 0; i < maxSessions+5; i++ {
		reg.Get("")
	}
	assert.LessOrEqual(t, len(reg.sessions), maxSessions)

	// старейшая сессия вытеснена: её id теперь заводит новую
	_, again := reg.Get(first)
	assert.NotEqual(t, first, again)

	// свежая сессия переживает вытеснение
	_, last := reg.Get("")
	got, id := reg.Get(last)
	assert.Equal(t, last, id)
	assert.NotNil(t, got)
}
