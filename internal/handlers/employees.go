package handlers

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"studio-dashboard/internal/apiclient"
	"studio-dashboard/internal/forms"
	"studio-dashboard/internal/listing"
	"studio-dashboard/internal/models"
)

//
// EMPLOYEE LIST
//

func (h *Handler) ListEmployees(c *gin.Context) {
	var filter listing.EmployeeFilter
	_ = c.ShouldBindQuery(&filter)

	all, err := guardedList(h, c, "employees", h.api(c).Employees)
	if err != nil {
		h.listFailed(c, err, "Không thể tải danh sách nhân viên")
		return
	}

	render(c, http.StatusOK, "employees_list.html", gin.H{
		"employees": filter.Apply(all),
		"total":     len(all),
		"active":    listing.Count(all, func(e models.Employee) bool { return e.IsActive }),
		"roles":     models.EmployeeRoles,
		"filter":    filter,
		"CanCreate": can(c, managers...),
		"CanEdit":   can(c, managers...),
		"CanDelete": can(c, admins...),
	})
}

func (h *Handler) ShowEmployee(c *gin.Context) {
	e, err := h.api(c).Employee(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.upstreamFailed(c, err, "Không tìm thấy nhân viên", "/employees")
		return
	}
	render(c, http.StatusOK, "employee_detail.html", gin.H{
		"employee":  e,
		"CanEdit":   can(c, managers...),
		"CanDelete": can(c, admins...),
	})
}

//
// EMPLOYEE FORM
//

type employeeForm struct {
	Name        string   `form:"name" label:"Họ tên" binding:"required,min=2"`
	Role        string   `form:"role" label:"Vị trí" binding:"required"`
	Skills      []string `form:"skills"`
	ExtraSkills string   `form:"extra_skills"`
	Phone       string   `form:"phone" label:"Số điện thoại" binding:"omitempty,phone"`
	Email       string   `form:"email" label:"Email" binding:"omitempty,email"`
	Address     string   `form:"address"`
	BaseSalary  int64    `form:"base_salary" label:"Lương cơ bản" binding:"min=0"`
	StartDate   string   `form:"start_date" label:"Ngày bắt đầu" binding:"omitempty,date"`
	Notes       string   `form:"notes"`
	IsActive    bool     `form:"is_active"`

	BankAccount      models.BankAccount
	EmergencyContact models.EmergencyContact
	DefaultRates     models.DefaultRates
}

func (f employeeForm) validate(errs forms.Errors) forms.Errors {
	if f.Role != "" && !slices.Contains(models.EmployeeRoles, f.Role) {
		errs.Add("Role", "Vị trí không hợp lệ")
	}
	return errs
}

func (f employeeForm) payload() models.EmployeePayload {
	skills := append([]string(nil), f.Skills...)
	for _, s := range forms.SplitList(f.ExtraSkills) {
		if !slices.Contains(skills, s) {
			skills = append(skills, s)
		}
	}
	return models.EmployeePayload{
		Name:             strings.TrimSpace(f.Name),
		Role:             f.Role,
		Skills:           skills,
		Phone:            strings.TrimSpace(f.Phone),
		Email:            strings.TrimSpace(f.Email),
		Address:          strings.TrimSpace(f.Address),
		BaseSalary:       f.BaseSalary,
		Notes:            strings.TrimSpace(f.Notes),
		BankAccount:      f.BankAccount,
		EmergencyContact: f.EmergencyContact,
		DefaultRates:     f.DefaultRates,
		StartDate:        f.StartDate,
		IsActive:         f.IsActive,
	}
}

func employeeFormFrom(e *models.Employee) employeeForm {
	f := employeeForm{
		Name:             e.Name,
		Role:             e.Role,
		Phone:            e.Phone,
		Email:            e.Email,
		Address:          e.Address,
		BaseSalary:       e.BaseSalary,
		StartDate:        e.StartDate,
		Notes:            e.Notes,
		IsActive:         e.IsActive,
		BankAccount:      e.BankAccount,
		EmergencyContact: e.EmergencyContact,
		DefaultRates:     e.DefaultRates,
	}
	if len(f.StartDate) > 10 {
		f.StartDate = f.StartDate[:10]
	}
	// skills outside the role's suggestions go to the free-text field
	suggested := models.SkillsForRole(e.Role)
	var extra []string
	for _, s := range e.Skills {
		if slices.Contains(suggested, s) {
			f.Skills = append(f.Skills, s)
		} else {
			extra = append(extra, s)
		}
	}
	f.ExtraSkills = strings.Join(extra, ", ")
	return f
}

func employeeFormData(form employeeForm, action string) gin.H {
	return gin.H{
		"form":      form,
		"roles":     models.EmployeeRoles,
		"suggested": models.SkillsForRole(form.Role),
		"action":    action,
		"error":     "",
	}
}

func (h *Handler) ShowNewEmployee(c *gin.Context) {
	form := employeeForm{
		Role:         c.DefaultQuery("role", models.EmployeeRoles[0]),
		IsActive:     true,
		DefaultRates: models.NewDefaultRates(),
		StartDate:    h.now().Format("2006-01-02"),
	}
	form.Skills = models.SkillsForRole(form.Role)
	render(c, http.StatusOK, "employee_form.html", employeeFormData(form, "/employees/new"))
}

func (h *Handler) CreateEmployee(c *gin.Context) {
	h.submitEmployee(c, "", "/employees/new")
}

func (h *Handler) ShowEditEmployee(c *gin.Context) {
	e, err := h.api(c).Employee(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.upstreamFailed(c, err, "Không tìm thấy nhân viên", "/employees")
		return
	}
	data := employeeFormData(employeeFormFrom(e), "/employees/"+e.ID.String()+"/edit")
	data["employee"] = e
	render(c, http.StatusOK, "employee_form.html", data)
}

func (h *Handler) UpdateEmployee(c *gin.Context) {
	id := c.Param("id")
	h.submitEmployee(c, id, "/employees/"+id+"/edit")
}

func (h *Handler) submitEmployee(c *gin.Context, id, action string) {
	var form employeeForm
	errs := forms.Bind(c, &form)
	errs = form.validate(errs)

	// changing the role only refreshes the skill suggestions
	if c.PostForm("action") == "role" {
		form.Skills = models.SkillsForRole(form.Role)
		render(c, http.StatusOK, "employee_form.html", employeeFormData(form, action))
		return
	}
	if errs != nil {
		renderForm(c, "employee_form.html", employeeFormData(form, action), errs)
		return
	}

	api := h.api(c)
	var (
		saved *models.Employee
		err   error
	)
	if id == "" {
		saved, err = api.CreateEmployee(c.Request.Context(), form.payload())
	} else {
		saved, err = api.UpdateEmployee(c.Request.Context(), id, form.payload())
	}
	if err != nil {
		if authLost(c, err) {
			return
		}
		h.Log.Error("save employee", "id", id, "err", err)
		data := employeeFormData(form, action)
		data["error"] = apiclient.Message(err, "Không thể lưu nhân viên")
		render(c, http.StatusBadGateway, "employee_form.html", data)
		return
	}

	if id == "" {
		h.record(c, "employee", saved.ID, "create", saved.Name)
		flash(c, flashSuccess, "Đã thêm nhân viên")
	} else {
		h.record(c, "employee", models.ID(id), "update", saved.Name)
		flash(c, flashSuccess, "Đã cập nhật nhân viên")
	}
	c.Redirect(http.StatusFound, "/employees")
}

//
// ACTIVATE / DEACTIVATE / DELETE
//

func (h *Handler) ActivateEmployee(c *gin.Context) {
	h.setEmployeeActive(c, true)
}

func (h *Handler) DeactivateEmployee(c *gin.Context) {
	h.setEmployeeActive(c, false)
}

func (h *Handler) setEmployeeActive(c *gin.Context, active bool) {
	id := c.Param("id")
	if err := h.api(c).SetEmployeeActive(c.Request.Context(), id, active); err != nil {
		h.upstreamFailed(c, err, "Không thể cập nhật trạng thái nhân viên", "/employees")
		return
	}
	action, msg := "deactivate", "Đã vô hiệu hóa nhân viên"
	if active {
		action, msg = "activate", "Đã kích hoạt nhân viên"
	}
	h.record(c, "employee", models.ID(id), action, "")
	flash(c, flashSuccess, msg)
	c.Redirect(http.StatusFound, "/employees")
}

func (h *Handler) DeleteEmployee(c *gin.Context) {
	id := c.Param("id")
	if err := h.api(c).DeleteEmployee(c.Request.Context(), id); err != nil {
		h.upstreamFailed(c, err, "Không thể xóa nhân viên", "/employees")
		return
	}
	h.record(c, "employee", models.ID(id), "delete", "")
	flash(c, flashSuccess, "Đã xóa nhân viên")
	c.Redirect(http.StatusFound, "/employees")
}
