package models

type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleManager  UserRole = "manager"
	RoleEmployee UserRole = "employee"
	RoleSales    UserRole = "sales"
)

var UserRoles = []UserRole{RoleEmployee, RoleSales, RoleManager, RoleAdmin}

var userRoleLabels = map[UserRole]string{
	RoleAdmin:    "Quản trị viên",
	RoleManager:  "Quản lý",
	RoleEmployee: "Nhân viên",
	RoleSales:    "Kinh doanh",
}

func (r UserRole) Valid() bool {
	_, ok := userRoleLabels[r]
	return ok
}

func (r UserRole) Label() string {
	if l, ok := userRoleLabels[r]; ok {
		return l
	}
	return string(r)
}

// In reports whether r is one of roles.
func (r UserRole) In(roles ...UserRole) bool {
	for _, x := range roles {
		if r == x {
			return true
		}
	}
	return false
}

// User is the account returned by /auth/me. Roles only gate what the UI
// offers; the backend enforces access.
type User struct {
	ID        ID       `json:"id"`
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	FullName  string   `json:"full_name"`
	Role      UserRole `json:"role"`
	IsActive  bool     `json:"is_active"`
	Avatar    string   `json:"avatar,omitempty"`
	CreatedAt string   `json:"created_at,omitempty"`
	UpdatedAt string   `json:"updated_at,omitempty"`
}

// DisplayName prefers the full name.
func (u User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	FullName string   `json:"full_name"`
	Role     UserRole `json:"role"`
}

// AuthResponse is the body of /auth/login and /auth/register.
type AuthResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	Message string `json:"message"`
	User    *User  `json:"user"`
}
