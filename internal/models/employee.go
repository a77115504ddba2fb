package models

type BankAccount struct {
	BankName      string `json:"bank_name" form:"bank_name"`
	AccountNumber string `json:"account_number" form:"account_number"`
	AccountHolder string `json:"account_holder" form:"account_holder"`
}

type EmergencyContact struct {
	Name         string `json:"name" form:"emergency_name"`
	Phone        string `json:"phone" form:"emergency_phone"`
	Relationship string `json:"relationship" form:"emergency_relationship"`
}

// DefaultRates are the employee's per-project pay in VND.
type DefaultRates struct {
	MainPhoto   int64 `json:"main_photo" form:"rate_main_photo" binding:"min=0"`
	AssistPhoto int64 `json:"assist_photo" form:"rate_assist_photo" binding:"min=0"`
	Makeup      int64 `json:"makeup" form:"rate_makeup" binding:"min=0"`
	Retouch     int64 `json:"retouch" form:"rate_retouch" binding:"min=0"`
}

func NewDefaultRates() DefaultRates {
	return DefaultRates{MainPhoto: 500_000, AssistPhoto: 300_000, Makeup: 400_000, Retouch: 50_000}
}

type Employee struct {
	ID               ID               `json:"id"`
	Name             string           `json:"name"`
	Role             string           `json:"role"`
	Skills           []string         `json:"skills"`
	Phone            string           `json:"phone"`
	Email            string           `json:"email"`
	Address          string           `json:"address"`
	BaseSalary       int64            `json:"base_salary"`
	Notes            string           `json:"notes,omitempty"`
	BankAccount      BankAccount      `json:"bank_account"`
	EmergencyContact EmergencyContact `json:"emergency_contact"`
	DefaultRates     DefaultRates     `json:"default_rates"`
	StartDate        string           `json:"start_date"`
	IsActive         bool             `json:"is_active"`
	Avatar           string           `json:"avatar,omitempty"`
	CreatedAt        string           `json:"created_at,omitempty"`
	UpdatedAt        string           `json:"updated_at,omitempty"`
}

// EmployeePayload is the create/update body; id and timestamps are server-owned.
type EmployeePayload struct {
	Name             string           `json:"name"`
	Role             string           `json:"role"`
	Skills           []string         `json:"skills"`
	Phone            string           `json:"phone"`
	Email            string           `json:"email"`
	Address          string           `json:"address"`
	BaseSalary       int64            `json:"base_salary"`
	Notes            string           `json:"notes"`
	BankAccount      BankAccount      `json:"bank_account"`
	EmergencyContact EmergencyContact `json:"emergency_contact"`
	DefaultRates     DefaultRates     `json:"default_rates"`
	StartDate        string           `json:"start_date"`
	IsActive         bool             `json:"is_active"`
}

// EmployeeRoles in the order the form offers them.
var EmployeeRoles = []string{"Photo/Retouch", "Makeup Artist", "Sales", "Manager", "Content", "Designer"}

var roleSkills = map[string][]string{
	"Photo/Retouch": {"Chụp chính", "Chụp phụ", "Retouch"},
	"Makeup Artist": {"Makeup", "Làm tóc", "Styling"},
	"Sales":         {"Sales", "Tư vấn khách hàng", "Quản lý dự án"},
	"Manager":       {"Quản lý dự án", "Quản lý nhân sự"},
	"Content":       {"Viết content", "Quản lý social"},
	"Designer":      {"Thiết kế", "Chỉnh sửa video"},
}

// SkillsForRole returns a fresh copy of the suggested skills for role.
func SkillsForRole(role string) []string {
	return append([]string(nil), roleSkills[role]...)
}
