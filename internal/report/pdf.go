package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"
)

// Макет таблицы отчёта: заголовок, шапка и фиксированные ширины
// колонок в миллиметрах — по виду отчёта, не по данным.
type layout struct {
	Title   string
	Headers []string
	Widths  []float64
}

func layoutFor(kind Kind) layout {
	switch kind {
	case KindRoutes:
		return layout{
			Title:   "Отчет по маршрутам",
			Headers: []string{"Вокзал отправления", "Вокзал прибытия", "Сред. время (ч)", "Кол-во маршрутов"},
			Widths:  []float64{50, 50, 40, 40},
		}
	case KindPopular:
		return layout{
			Title:   "Популярные направления маршрутов",
			Headers: []string{"Вокзал отправления", "Вокзал прибытия", "Кол-во маршрутов", "Общее время (ч)"},
			Widths:  []float64{50, 50, 40, 50},
		}
	case KindBrigades:
		return layout{
			Title:   "Используемость бригад",
			Headers: []string{"Название бригады", "Количество маршрутов", "Средний стаж (годы)"},
			Widths:  []float64{70, 50, 60},
		}
	}
	return layout{}
}

const (
	pdfFontName = "TimesNewRoman"
	rowHeight   = 10
)

// renderPDF пишет титулованную таблицу с рамками: одна строка шапки,
// одна строка на строку выборки. Перенос страниц делает fpdf сам.
func renderPDF(path string, kind Kind, rows [][]string, fontDir string) error {
	lt := layoutFor(kind)
	if len(lt.Headers) == 0 {
		return fmt.Errorf("unknown report kind %q", kind)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	font := registerFont(pdf, fontDir)
	pdf.AddPage()

	// заголовок
	pdf.SetFont(font.name, "B", 16)
	pdf.CellFormat(0, rowHeight, font.tr(lt.Title), "", 1, "C", false, 0, "")
	pdf.Ln(rowHeight)

	// шапка
	pdf.SetFont(font.name, "B", 12)
	for i, h := range lt.Headers {
		pdf.CellFormat(lt.Widths[i], rowHeight, font.tr(h), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	// данные
	pdf.SetFont(font.name, "", 12)
	for _, row := range rows {
		for i := 0; i < len(lt.Headers); i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			pdf.CellFormat(lt.Widths[i], rowHeight, font.tr(cell), "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if pdf.Err() {
		return fmt.Errorf("render %s: %w", FileName(kind), pdf.Error())
	}
	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

type pdfFont struct {
	name string
	tr   func(string) string
}

// registerFont подключает кириллический TTF из fontDir, если он есть
// (в исходной поставке — timesnrcyrmt.ttf). Без него остаётся core
// Helvetica с транслятором cp1251 — хуже глифами, но файл получится.
func registerFont(pdf *fpdf.Fpdf, fontDir string) pdfFont {
	regular := filepath.Join(fontDir, "timesnrcyrmt.ttf")
	bold := filepath.Join(fontDir, "timesnrcyrmt_bold.ttf")
	if fileExists(regular) {
		pdf.AddUTF8Font(pdfFontName, "", regular)
		if fileExists(bold) {
			pdf.AddUTF8Font(pdfFontName, "B", bold)
		} else {
			pdf.AddUTF8Font(pdfFontName, "B", regular)
		}
		return pdfFont{name: pdfFontName, tr: func(s string) string { return s }}
	}
	return pdfFont{name: "Helvetica", tr: pdf.UnicodeTranslatorFromDescriptor("cp1251")}
}

func fileExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}
