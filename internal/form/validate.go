package form

import (
	"regexp"
	"strconv"
	"time"
)

var (
	staffINNRe   = regexp.MustCompile(`^\d{12}$`) // ИНН сотрудника: ровно 12 цифр
	stationINNRe = regexp.MustCompile(`^\d{10}$`) // ИНН вокзала: ровно 10 цифр
)

// Принимаемые варианты записи даты-времени; наружу всегда уходит
// нормализованное "2006-01-02 15:04:05"
var datetimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02",
}

const datetimeNorm = "2006-01-02 15:04:05"

// NormalizeDatetime приводит ввод к формату форм; false — не дата
func NormalizeDatetime(s string) (string, bool) {
	for _, layout := range datetimeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.Format(datetimeNorm), true
		}
	}
	return "", false
}

func parseInt(s string) (int64, bool) {
	n, err := strconv.ParseInt(s, 10, 64)
	return n, err == nil
}
