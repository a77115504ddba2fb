// Package export renders salary and finance reports as CSV, XLSX and PDF.
package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"studio-dashboard/internal/models"
)

type Format string

const (
	CSV  Format = "csv"
	XLSX Format = "xlsx"
	PDF  Format = "pdf"
)

var ErrUnsupportedFormat = errors.New("export: unsupported format")

// ParseFormat accepts "csv", "xlsx"/"excel" and "pdf"; blank means CSV.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "", "csv":
		return CSV, nil
	case "xlsx", "excel":
		return XLSX, nil
	case "pdf":
		return PDF, nil
	}
	return "", ErrUnsupportedFormat
}

type File struct {
	Name        string
	ContentType string
	Data        []byte
}

func contentType(f Format) string {
	switch f {
	case XLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case PDF:
		return "application/pdf"
	}
	return "text/csv; charset=utf-8"
}

type table struct {
	sheet  string
	header []string
	widths []float64
	rows   [][]any
}

func salaryTable(items []models.SalaryPayment) table {
	t := table{
		sheet:  "Luong",
		header: []string{"Nhân viên", "Tháng", "Lương cơ bản", "Lương dự án", "Thưởng", "Khấu trừ", "Tổng", "Trạng thái", "Ngày thanh toán", "Ghi chú"},
		widths: []float64{26, 10, 16, 16, 14, 14, 16, 16, 16, 30},
	}
	for _, s := range items {
		var projects int64
		for _, p := range s.ProjectsDetail {
			projects += p.Salary
		}
		paid := ""
		if s.PaymentDate != nil {
			paid = *s.PaymentDate
		}
		t.rows = append(t.rows, []any{
			s.Employee.Name, s.Month, s.BaseSalary, projects, s.Bonus, s.Deduction,
			s.TotalAmount, s.Status.Label(), paid, s.Notes,
		})
	}
	return t
}

func transactionTable(items []models.Transaction) table {
	t := table{
		sheet:  "TaiChinh",
		header: []string{"Ngày", "Loại", "Danh mục", "Số tiền", "Mô tả", "Phương thức", "Ghi chú"},
		widths: []float64{12, 12, 22, 16, 36, 16, 30},
	}
	for _, tx := range items {
		t.rows = append(t.rows, []any{
			tx.TransactionDate,
			tx.Type.Label(),
			models.OptionLabel(models.CategoriesFor(tx.Type), tx.Category),
			tx.Amount,
			tx.Description,
			models.OptionLabel(models.PaymentMethods, tx.PaymentMethod),
			tx.Notes,
		})
	}
	return t
}

// Salaries exports payslips. period labels the file, e.g. "2024-05".
func Salaries(items []models.SalaryPayment, f Format, period string, now time.Time) (File, error) {
	name := "bang_luong_" + suffix(period, now)
	var (
		data []byte
		err  error
	)
	switch f {
	case CSV:
		data, err = writeCSV(salaryTable(items))
	case XLSX:
		data, err = writeXLSX(salaryTable(items))
	case PDF:
		data, err = payrollPDF(items, period, now)
	default:
		return File{}, ErrUnsupportedFormat
	}
	if err != nil {
		return File{}, err
	}
	return File{Name: name + "." + string(f), ContentType: contentType(f), Data: data}, nil
}

// Transactions exports finance entries as CSV or XLSX.
func Transactions(items []models.Transaction, f Format, now time.Time) (File, error) {
	var (
		data []byte
		err  error
	)
	switch f {
	case CSV:
		data, err = writeCSV(transactionTable(items))
	case XLSX:
		data, err = writeXLSX(transactionTable(items))
	default:
		return File{}, ErrUnsupportedFormat
	}
	if err != nil {
		return File{}, err
	}
	return File{Name: "tai_chinh_" + suffix("", now) + "." + string(f), ContentType: contentType(f), Data: data}, nil
}

func suffix(period string, now time.Time) string {
	if period != "" {
		return period
	}
	return now.Format("20060102_150405")
}

// writeCSV prefixes a UTF-8 BOM so spreadsheet apps keep the diacritics.
func writeCSV(t table) ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.WriteString("\ufeff")
	w := csv.NewWriter(buf)
	_ = w.Write(t.header)
	for _, row := range t.rows {
		rec := make([]string, len(row))
		for i, v := range row {
			rec[i] = cellString(v)
		}
		_ = w.Write(rec)
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func cellString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	}
	return fmt.Sprint(v)
}

func writeXLSX(t table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(t.sheet)
	if err != nil {
		return nil, err
	}
	_ = f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	for c, v := range t.header {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		_ = f.SetCellValue(t.sheet, cell, v)
	}
	for r, row := range t.rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			_ = f.SetCellValue(t.sheet, cell, v)
		}
	}
	for c, w := range t.widths {
		col, _ := excelize.ColumnNumberToName(c + 1)
		_ = f.SetColWidth(t.sheet, col, col, w)
	}

	last, _ := excelize.CoordinatesToCellName(len(t.header), 1)
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#1F2937"}, Pattern: 1},
	})
	if err == nil {
		_ = f.SetCellStyle(t.sheet, "A1", last, style)
	}

	money, err := f.NewStyle(&excelize.Style{NumFmt: 3})
	if err == nil && len(t.rows) > 0 {
		for c := range t.header {
			if _, ok := t.rows[0][c].(int64); !ok {
				continue
			}
			from, _ := excelize.CoordinatesToCellName(c+1, 2)
			to, _ := excelize.CoordinatesToCellName(c+1, len(t.rows)+1)
			_ = f.SetCellStyle(t.sheet, from, to, money)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
