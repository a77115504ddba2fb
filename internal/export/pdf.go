package export

import (
	"bytes"
	"fmt"
	"time"
	"unicode"

	"github.com/phpdave11/gofpdf"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"studio-dashboard/internal/models"
	"studio-dashboard/internal/pricing"
)

// The core PDF fonts have no Vietnamese glyphs, so text is folded to ASCII.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	b := []rune(out)
	for i, r := range b {
		switch r {
		case 'đ':
			b[i] = 'd'
		case 'Đ':
			b[i] = 'D'
		}
	}
	return string(b)
}

func payrollPDF(items []models.SalaryPayment, period string, now time.Time) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Bang luong", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	title := "Bang luong"
	if period != "" {
		title += " thang " + period
	}
	pdf.Cell(0, 10, title)
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, "Xuat luc "+now.Format("02/01/2006 15:04"))
	pdf.Ln(10)

	cols := []struct {
		title string
		w     float64
	}{
		{"Nhan vien", 60}, {"Thang", 20}, {"Luong co ban", 32}, {"Thuong", 28},
		{"Khau tru", 28}, {"Tong", 34}, {"Trang thai", 34},
	}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(31, 41, 55)
	pdf.SetTextColor(255, 255, 255)
	for _, c := range cols {
		pdf.CellFormat(c.w, 8, c.title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	var total, pending, paid int64
	for _, s := range items {
		pdf.CellFormat(cols[0].w, 7, fold(s.Employee.Name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(cols[1].w, 7, s.Month, "1", 0, "C", false, 0, "")
		pdf.CellFormat(cols[2].w, 7, pricing.GroupThousands(s.BaseSalary), "1", 0, "R", false, 0, "")
		pdf.CellFormat(cols[3].w, 7, pricing.GroupThousands(s.Bonus), "1", 0, "R", false, 0, "")
		pdf.CellFormat(cols[4].w, 7, pricing.GroupThousands(s.Deduction), "1", 0, "R", false, 0, "")
		pdf.CellFormat(cols[5].w, 7, pricing.GroupThousands(s.TotalAmount), "1", 0, "R", false, 0, "")
		pdf.CellFormat(cols[6].w, 7, fold(s.Status.Label()), "1", 0, "C", false, 0, "")
		pdf.Ln(-1)

		total += s.TotalAmount
		switch s.Status {
		case models.SalaryPending:
			pending += s.TotalAmount
		case models.SalaryPaid:
			paid += s.TotalAmount
		}
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 11)
	for _, line := range []string{
		fmt.Sprintf("Tong cong: %s VND", pricing.GroupThousands(total)),
		fmt.Sprintf("Cho thanh toan: %s VND", pricing.GroupThousands(pending)),
		fmt.Sprintf("Da thanh toan: %s VND", pricing.GroupThousands(paid)),
	} {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
