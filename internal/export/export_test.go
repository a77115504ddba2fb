package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"studio-dashboard/internal/models"
)

var now = time.Date(2024, 5, 31, 18, 0, 0, 0, time.UTC)

func salaries() []models.SalaryPayment {
	return []models.SalaryPayment{
		{
			ID:             "1",
			Employee:       models.Employee{Name: "Nguyễn Lan"},
			Month:          "2024-05",
			BaseSalary:     8_000_000,
			Bonus:          500_000,
			Deduction:      100_000,
			TotalAmount:    9_200_000,
			ProjectsDetail: []models.SalaryProjectLine{{Salary: 800_000}},
			Status:         models.SalaryPending,
		},
		{ID: "2", Employee: models.Employee{Name: "Trần Minh"}, Month: "2024-05", TotalAmount: 7_000_000, Status: models.SalaryPaid},
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": CSV, "csv": CSV, "excel": XLSX, "xlsx": XLSX, "pdf": PDF} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("doc")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestSalariesCSV(t *testing.T) {
	f, err := Salaries(salaries(), CSV, "2024-05", now)
	require.NoError(t, err)
	assert.Equal(t, "bang_luong_2024-05.csv", f.Name)
	assert.Equal(t, "text/csv; charset=utf-8", f.ContentType)

	body := strings.TrimPrefix(string(f.Data), "\ufeff")
	records, err := csv.NewReader(strings.NewReader(body)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "Nhân viên", records[0][0])
	assert.Equal(t, []string{"Nguyễn Lan", "2024-05", "8000000", "800000", "500000", "100000", "9200000", "Chờ thanh toán", "", ""}, records[1])
}

func TestSalariesXLSX(t *testing.T) {
	f, err := Salaries(salaries(), XLSX, "", now)
	require.NoError(t, err)
	assert.Equal(t, "bang_luong_20240531_180000.xlsx", f.Name)

	book, err := excelize.OpenReader(bytes.NewReader(f.Data))
	require.NoError(t, err)
	defer book.Close()

	rows, err := book.GetRows("Luong")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Trần Minh", rows[2][0])
	assert.Equal(t, []string{"Luong"}, book.GetSheetList())
}

func TestSalariesPDF(t *testing.T) {
	f, err := Salaries(salaries(), PDF, "2024-05", now)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", f.ContentType)
	assert.True(t, bytes.HasPrefix(f.Data, []byte("%PDF")))
}

func TestTransactions(t *testing.T) {
	tx := []models.Transaction{{Type: models.Expense, Category: "equipment", Amount: 3_000_000, PaymentMethod: "bank_transfer", TransactionDate: "2024-05-02"}}

	f, err := Transactions(tx, CSV, now)
	require.NoError(t, err)
	assert.Contains(t, string(f.Data), "Thiết bị")
	assert.Contains(t, string(f.Data), "Chuyển khoản")

	f, err = Transactions(nil, XLSX, now)
	require.NoError(t, err)
	book, err := excelize.OpenReader(bytes.NewReader(f.Data))
	require.NoError(t, err)
	rows, err := book.GetRows("TaiChinh")
	require.NoError(t, err)
	assert.Len(t, rows, 1, "header only")

	_, err = Transactions(tx, PDF, now)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestFold(t *testing.T) {
	assert.Equal(t, "Nguyen Van Dung", fold("Nguyễn Văn Dũng"))
	assert.Equal(t, "Da thanh toan", fold("Đã thanh toán"))
}
