package api

import (
	"errors"
	"net/http"

	"vokzal/internal/form"
	"vokzal/internal/meta"
	"vokzal/internal/report"
	"vokzal/internal/store"
	"vokzal/internal/view"

	"github.com/gin-gonic/gin"
)

// respondErr переводит ошибки ядра в HTTP-ответ на границе,
// ближайшей к действию оператора. Никаких повторов.
func respondErr(c *gin.Context, err error) {
	var ve *form.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []*form.ValidationError{ve}})
		return
	}

	var nf *meta.NotFoundError
	if errors.As(err, &nf) {
		c.JSON(http.StatusNotFound, gin.H{"error": nf.Error(), "code": "not_found"})
		return
	}

	var mk *store.MissingKeyError
	if errors.As(err, &mk) {
		c.JSON(http.StatusBadRequest, gin.H{"error": mk.Error(), "code": store.ErrCodeMissingKey})
		return
	}

	if errors.Is(err, report.ErrNoData) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no data for the selected filters", "code": "no_data"})
		return
	}

	var de *store.DatabaseError
	if errors.As(err, &de) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": de.Error(), "code": store.ErrCodeDatabase})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// session достаёт сессию просмотра по заголовку и проставляет id в ответ
func (s *Server) session(c *gin.Context) *view.Session {
	sess, id := s.Sessions.Get(c.GetHeader("X-Session-Id"))
	c.Header("X-Session-Id", id)
	return sess
}

// rowsPayload — единый ответ выдачи: колонки, строки, состояние, сортировка
func rowsPayload(sess *view.Session) gin.H {
	sortCol, sortDesc := sess.SortState()
	return gin.H{
		"table":   sess.Table(),
		"state":   sess.State(),
		"columns": sess.Columns(),
		"rows":    sess.Rows(),
		"sort":    gin.H{"column": sortCol, "desc": sortDesc},
	}
}
