package report

import (
	"io"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"

	"github.com/MargianaLogistics/CargoBot/internal/datefmt"
	"github.com/MargianaLogistics/CargoBot/internal/models"
)

// Максимум строк в таблице активных заказов.
const pdfMaxActiveRows = 10

// Фирменная палитра документа.
var (
	pdfInk    = [3]int{44, 62, 80}    // заголовки
	pdfAccent = [3]int{52, 152, 219}  // таблица заказов
	pdfAlert  = [3]int{231, 76, 60}   // таблица «требует внимания»
	pdfMuted  = [3]int{52, 73, 94}    // подзаголовки
	pdfZebra  = [3]int{245, 245, 245} // чётные строки
)

// WritePDF renders the fixed-layout summary document. activeOrders —
// полный активный список; в таблицу попадают первые pdfMaxActiveRows.
// Флаги «требует внимания» в документе считаются только по активным
// заказам, в отличие от чатовой сводки.
func WritePDF(w io.Writer, s Summary, activeOrders []models.Order) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	// Кириллица и дефисы из данных транслируются в cp1252.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 24)
	pdf.SetTextColor(pdfInk[0], pdfInk[1], pdfInk[2])
	pdf.CellFormat(0, 14, "MARGIANA LOGISTIC SERVICES", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(pdfMuted[0], pdfMuted[1], pdfMuted[2])
	pdf.CellFormat(0, 10, "Report generated "+s.GeneratedAt.Format("02.01.2006 15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	writeSectionTitle(pdf, "GENERAL STATISTICS")
	writeStatsTable(pdf, s)
	pdf.Ln(8)

	writeSectionTitle(pdf, "ACTIVE ORDERS")
	writeActiveTable(pdf, tr, s, activeOrders)
	pdf.Ln(8)

	writeSectionTitle(pdf, "NEEDS ATTENTION")
	writeAttentionTable(pdf, activeOrders)
	pdf.Ln(10)

	writeFooter(pdf, s)

	return errors.Wrap(pdf.Output(w), "render pdf")
}

func writeSectionTitle(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetTextColor(pdfMuted[0], pdfMuted[1], pdfMuted[2])
	pdf.CellFormat(0, 9, title, "", 1, "L", false, 0, "")
	pdf.Ln(1)
}

func writeStatsTable(pdf *fpdf.Fpdf, s Summary) {
	const labelW, valueW = 80.0, 40.0

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(pdfInk[0], pdfInk[1], pdfInk[2])
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(labelW, 8, "Metric", "1", 0, "C", true, 0, "")
	pdf.CellFormat(valueW, 8, "Value", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(0, 0, 0)
	rows := []struct {
		label string
		value int
	}{
		{"Total orders", s.TotalOrders},
		{"Active orders", s.ActiveOrders},
		{"Completed orders", s.CompletedOrders},
		{"Total tasks", s.TotalTasks},
		{"Completed tasks", s.CompletedTasks},
		{"Total containers", s.TotalContainers},
		{"Containers in transit", s.ContainersInTransit},
	}
	for _, r := range rows {
		pdf.CellFormat(labelW, 7, r.label, "1", 0, "C", false, 0, "")
		pdf.CellFormat(valueW, 7, strconv.Itoa(r.value), "1", 1, "C", false, 0, "")
	}
}

func writeActiveTable(pdf *fpdf.Fpdf, tr func(string) string, s Summary, activeOrders []models.Order) {
	if len(activeOrders) == 0 {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(0, 0, 0)
		pdf.CellFormat(0, 7, "No active orders", "", 1, "L", false, 0, "")
		return
	}

	const numW, clientW, statusW, etaW = 38.0, 62.0, 48.0, 22.0

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(pdfAccent[0], pdfAccent[1], pdfAccent[2])
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(numW, 7, "Number", "1", 0, "L", true, 0, "")
	pdf.CellFormat(clientW, 7, "Client", "1", 0, "L", true, 0, "")
	pdf.CellFormat(statusW, 7, "Status", "1", 0, "L", true, 0, "")
	pdf.CellFormat(etaW, 7, "ETA", "1", 1, "L", true, 0, "")

	rows := activeOrders
	if len(rows) > pdfMaxActiveRows {
		rows = rows[:pdfMaxActiveRows]
	}

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFillColor(pdfZebra[0], pdfZebra[1], pdfZebra[2])
	for i, o := range rows {
		fill := i%2 == 1
		pdf.CellFormat(numW, 6, tr(clipTo(o.OrderNumber, 15)), "1", 0, "L", fill, 0, "")
		pdf.CellFormat(clientW, 6, tr(clipTo(o.ClientName, 20)), "1", 0, "L", fill, 0, "")
		pdf.CellFormat(statusW, 6, clipTo(models.StatusLabel(o.Status), 22), "1", 0, "L", fill, 0, "")
		pdf.CellFormat(etaW, 6, etaShort(o.ETADate, s.GeneratedAt.Location()), "1", 1, "L", fill, 0, "")
	}
}

func writeAttentionTable(pdf *fpdf.Fpdf, activeOrders []models.Order) {
	var noPhoto, noLocal, noCustoms int
	for _, o := range activeOrders {
		if !o.HasLoadingPhoto {
			noPhoto++
		}
		if !o.HasLocalCharges {
			noLocal++
		}
		if !o.HasCustomsDoc {
			noCustoms++
		}
	}

	const labelW, valueW = 70.0, 30.0

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(pdfAlert[0], pdfAlert[1], pdfAlert[2])
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(labelW, 7, "Issue", "1", 0, "C", true, 0, "")
	pdf.CellFormat(valueW, 7, "Count", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(0, 0, 0)
	rows := []struct {
		label string
		value int
	}{
		{"No loading photo", noPhoto},
		{"No local charges", noLocal},
		{"No customs doc", noCustoms},
	}
	for _, r := range rows {
		pdf.CellFormat(labelW, 7, r.label, "1", 0, "C", false, 0, "")
		pdf.CellFormat(valueW, 7, strconv.Itoa(r.value), "1", 1, "C", false, 0, "")
	}
}

func writeFooter(pdf *fpdf.Fpdf, s Summary) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(128, 128, 128)
	pdf.CellFormat(0, 5, "Generated automatically", "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 5, "Margiana Logistic Services - "+s.GeneratedAt.Format("02.01.2006 15:04"), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 5, "Turkmenistan, Ashgabat - +993 61 55 77 79", "", 1, "C", false, 0, "")
}

// etaShort — дата «дд.мм» для колонки ETA; непарсибельное значение
// уходит в документ сырым префиксом, пустое — прочерком.
func etaShort(raw string, loc *time.Location) string {
	if raw == "" {
		return "-"
	}
	if t, ok := datefmt.ParseTimestamp(raw, loc); ok {
		return t.Format("02.01")
	}
	return clipTo(raw, 10)
}

func clipTo(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
