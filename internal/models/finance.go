package models

type SalaryStatus string

const (
	SalaryPending   SalaryStatus = "pending"
	SalaryPaid      SalaryStatus = "paid"
	SalaryCancelled SalaryStatus = "cancelled"
)

var SalaryStatuses = []SalaryStatus{SalaryPending, SalaryPaid, SalaryCancelled}

var salaryStatusLabels = map[SalaryStatus]string{
	SalaryPending:   "Chờ thanh toán",
	SalaryPaid:      "Đã thanh toán",
	SalaryCancelled: "Đã hủy",
}

func (s SalaryStatus) Valid() bool {
	_, ok := salaryStatusLabels[s]
	return ok
}

func (s SalaryStatus) Label() string {
	if l, ok := salaryStatusLabels[s]; ok {
		return l
	}
	return string(s)
}

// SalaryProjectLine is one project's pay inside a payslip.
type SalaryProjectLine struct {
	ProjectID   string `json:"project_id"`
	ProjectName string `json:"project_name"`
	Salary      int64  `json:"salary"`
}

type SalaryPayment struct {
	ID             ID                  `json:"id"`
	Employee       Employee            `json:"employee"`
	Month          string              `json:"month"`
	BaseSalary     int64               `json:"base_salary"`
	Bonus          int64               `json:"bonus"`
	Deduction      int64               `json:"deduction"`
	TotalAmount    int64               `json:"total_amount"`
	ProjectsDetail []SalaryProjectLine `json:"projects_detail,omitempty"`
	PaymentDate    *string             `json:"payment_date,omitempty"`
	Status         SalaryStatus        `json:"status"`
	Notes          string              `json:"notes,omitempty"`
	CreatedAt      string              `json:"created_at,omitempty"`
	UpdatedAt      string              `json:"updated_at,omitempty"`
}

type SalaryPayload struct {
	EmployeeID     string              `json:"employee_id"`
	Month          string              `json:"month"`
	BaseSalary     int64               `json:"base_salary"`
	Bonus          int64               `json:"bonus"`
	Deduction      int64               `json:"deduction"`
	TotalAmount    int64               `json:"total_amount"`
	ProjectsDetail []SalaryProjectLine `json:"projects_detail"`
	Notes          string              `json:"notes"`
	Status         SalaryStatus        `json:"status"`
}

// SalaryStatusPatch marks a payslip paid or cancelled.
type SalaryStatusPatch struct {
	Status      SalaryStatus `json:"status"`
	PaymentDate *string      `json:"payment_date,omitempty"`
}

type TransactionType string

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

func (t TransactionType) Label() string {
	switch t {
	case Income:
		return "Thu nhập"
	case Expense:
		return "Chi phí"
	}
	return string(t)
}

// Option is a value/label pair for select inputs.
type Option struct {
	Value string
	Label string
}

var IncomeCategories = []Option{
	{"project_payment", "Thanh toán dự án"},
	{"deposit", "Tiền cọc"},
	{"other_income", "Thu nhập khác"},
}

var ExpenseCategories = []Option{
	{"salary", "Lương nhân viên"},
	{"marketing", "Marketing"},
	{"office", "Văn phòng"},
	{"equipment", "Thiết bị"},
	{"partner_payment", "Thanh toán đối tác"},
	{"other_expense", "Chi phí khác"},
}

var PaymentMethods = []Option{
	{"cash", "Tiền mặt"},
	{"bank_transfer", "Chuyển khoản"},
	{"credit_card", "Thẻ tín dụng"},
}

// CategoriesFor returns the categories valid for a transaction type.
func CategoriesFor(t TransactionType) []Option {
	if t == Expense {
		return ExpenseCategories
	}
	return IncomeCategories
}

func ValidCategory(t TransactionType, category string) bool {
	if t != Income && t != Expense {
		return false
	}
	for _, o := range CategoriesFor(t) {
		if o.Value == category {
			return true
		}
	}
	return false
}

func ValidPaymentMethod(m string) bool {
	for _, o := range PaymentMethods {
		if o.Value == m {
			return true
		}
	}
	return false
}

func OptionLabel(opts []Option, value string) string {
	for _, o := range opts {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}

type Transaction struct {
	ID              ID              `json:"id"`
	Type            TransactionType `json:"type"`
	Category        string          `json:"category"`
	Amount          int64           `json:"amount"`
	Description     string          `json:"description"`
	TransactionDate string          `json:"transaction_date"`
	PaymentMethod   string          `json:"payment_method,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       string          `json:"created_at,omitempty"`
}

type TransactionPayload struct {
	Type            TransactionType `json:"type"`
	Category        string          `json:"category"`
	Amount          int64           `json:"amount"`
	Description     string          `json:"description"`
	TransactionDate string          `json:"transaction_date"`
	PaymentMethod   string          `json:"payment_method"`
	Notes           string          `json:"notes"`
}
