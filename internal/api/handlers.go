package api

import (
	"net/http"
	"strconv"

	"vokzal/internal/store"

	"github.com/gin-gonic/gin"
)

// GET /api/tables/:table/rows?q=...
// Выбор таблицы загружает все строки; непустой q фильтрует подстрокой
// по всем колонкам, пустой q возвращает полную выдачу.
func RowsHandler(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		table := c.Param("table")
		sess := s.session(c)

		if sess.Table() != table {
			if err := sess.Load(c.Request.Context(), table); err != nil {
				respondErr(c, err)
				return
			}
		}
		if q, has := c.GetQuery("q"); has {
			if err := sess.Search(c.Request.Context(), q); err != nil {
				respondErr(c, err)
				return
			}
		}

		c.Header("X-Total-Count", strconv.Itoa(len(sess.Rows())))
		c.JSON(http.StatusOK, rowsPayload(sess))
	}
}

// POST /api/tables/:table/sort {"column": "..."}
// Радиокнопочная семантика: активна максимум одна колонка, повторный
// клик меняет направление. Запрос в базу не переисполняется.
func SortHandler(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		table := c.Param("table")
		var req struct {
			Column string `json:"column"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Column == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
			return
		}

		sess := s.session(c)
		if sess.Table() != table {
			if err := sess.Load(c.Request.Context(), table); err != nil {
				respondErr(c, err)
				return
			}
		}
		sess.ToggleSort(req.Column)
		c.JSON(http.StatusOK, rowsPayload(sess))
	}
}

// GET /api/tables/:table/form
// Форма добавления/редактирования: query-параметры — текущие значения
// строки при редактировании. Dropdown-списки запрашиваются живьём.
func FormHandler(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		current := map[string]string{}
		for key, vals := range c.Request.URL.Query() {
			if len(vals) > 0 {
				current[key] = vals[0]
			}
		}
		f, err := s.Engine().Build(c.Request.Context(), c.Param("table"), current)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, f)
	}
}

// POST /api/tables/:table/rows — отправка формы добавления.
// Для таблицы-ростера в ответ кладутся формы сотрудников: их отправка
// независима, отказ одной не трогает уже записанную строку ростера.
func SubmitHandler(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		table := c.Param("table")
		var input map[string]string
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
			return
		}

		engine := s.Engine()
		rec, staffCount, err := engine.Validate(c.Request.Context(), table, input)
		if err != nil {
			respondErr(c, err)
			return
		}
		if err := s.Store.Insert(c.Request.Context(), table, rec); err != nil {
			respondErr(c, err)
			return
		}

		out := gin.H{"ok": true}
		if staffCount > 0 {
			brigade := ""
			if v, ok := rec.Get(engine.BrigadeField); ok {
				brigade = store.Stringify(v)
			}
			forms, err := engine.StaffForms(c.Request.Context(), staffCount, brigade)
			if err != nil {
				// строка ростера уже записана; формы просто не открылись
				out["staff_forms_error"] = err.Error()
			} else {
				out["staff_forms"] = forms
			}
		}

		sess := s.session(c)
		if sess.Table() == table {
			if err := sess.Reload(c.Request.Context()); err != nil {
				respondErr(c, err)
				return
			}
		}
		c.JSON(http.StatusCreated, out)
	}
}

// PUT /api/tables/:table/rows {"old": {...}, "new": {...}}
// Редактирование: удаление старой строки по ключам delete_map плюс
// вставка новой, обе в одной транзакции.
func UpdateHandler(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		table := c.Param("table")
		var req struct {
			Old map[string]string `json:"old"`
			New map[string]string `json:"new"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Old == nil || req.New == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
			return
		}

		newRec, _, err := s.Engine().Validate(c.Request.Context(), table, req.New)
		if err != nil {
			respondErr(c, err)
			return
		}
		if err := s.Store.Update(c.Request.Context(), table, recordFromMap(req.Old), newRec); err != nil {
			respondErr(c, err)
			return
		}

		sess := s.session(c)
		if sess.Table() == table {
			if err := sess.Reload(c.Request.Context()); err != nil {
				respondErr(c, err)
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// POST /api/tables/:table/rows/delete — тело: строка выдачи.
// Идентификация удаляемой строки — только по ключам delete_map.
func DeleteHandler(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		table := c.Param("table")
		var row map[string]string
		if err := c.ShouldBindJSON(&row); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
			return
		}

		if err := s.Store.Delete(c.Request.Context(), table, recordFromMap(row)); err != nil {
			respondErr(c, err)
			return
		}

		sess := s.session(c)
		if sess.Table() == table {
			if err := sess.Reload(c.Request.Context()); err != nil {
				respondErr(c, err)
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// recordFromMap — строка выдачи как запись; порядок полей для удаления
// не важен, значения сравнивает база
func recordFromMap(m map[string]string) store.Record {
	rec := make(store.Record, 0, len(m))
	for k, v := range m {
		rec = append(rec, store.FieldValue{Name: k, Value: v})
	}
	return rec
}
