package handlers

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"studio-dashboard/internal/apiclient"
	"studio-dashboard/internal/export"
	"studio-dashboard/internal/forms"
	"studio-dashboard/internal/listing"
	"studio-dashboard/internal/models"
	"studio-dashboard/internal/pricing"
)

// SalarySummary totals one listing of payslips.
type SalarySummary struct {
	Total     int64
	Pending   int64
	Paid      int64
	Count     int
	PendingN  int
	Employees int
}

func summarizeSalaries(items []models.SalaryPayment) SalarySummary {
	s := SalarySummary{Count: len(items)}
	seen := map[models.ID]bool{}
	for _, it := range items {
		if it.Status != models.SalaryCancelled {
			s.Total += it.TotalAmount
		}
		switch it.Status {
		case models.SalaryPending:
			s.Pending += it.TotalAmount
			s.PendingN++
		case models.SalaryPaid:
			s.Paid += it.TotalAmount
		}
		seen[it.Employee.ID] = true
	}
	s.Employees = len(seen)
	return s
}

func salaryQuery(f listing.SalaryFilter) apiclient.SalaryQuery {
	return apiclient.SalaryQuery{Month: f.Month, Status: f.Status}
}

func (h *Handler) ListSalaries(c *gin.Context) {
	var filter listing.SalaryFilter
	_ = c.ShouldBindQuery(&filter)

	api := h.api(c)
	items, err := guardedList(h, c, "salaries", func(ctx context.Context) ([]models.SalaryPayment, error) {
		return api.Salaries(ctx, salaryQuery(filter))
	})
	if err != nil {
		h.listFailed(c, err, "Không thể tải bảng lương")
		return
	}

	render(c, http.StatusOK, "salaries_list.html", gin.H{
		"salaries":  items,
		"summary":   summarizeSalaries(items),
		"statuses":  models.SalaryStatuses,
		"filter":    filter,
		"CanManage": can(c, managers...),
	})
}

//
// SALARY CALCULATOR
//

type salaryForm struct {
	EmployeeID    string   `form:"employee_id" label:"Nhân viên" binding:"required"`
	Month         string   `form:"month" label:"Tháng" binding:"required,month"`
	BaseSalary    int64    `form:"base_salary" label:"Lương cơ bản" binding:"min=0"`
	ProjectIDs    []string `form:"project_id"`
	ProjectSalary []int64  `form:"project_salary"`
	Bonus         int64    `form:"bonus" label:"Thưởng" binding:"min=0"`
	Deduction     int64    `form:"deduction" label:"Khấu trừ" binding:"min=0"`
	Notes         string   `form:"notes"`
	Action        string   `form:"action"`
	RemoveLine    int      `form:"remove_line"`
}

// lines pairs the parallel project inputs, dropping rows without a project.
func (f salaryForm) lines(projects []models.Project) []models.SalaryProjectLine {
	var out []models.SalaryProjectLine
	for i, id := range f.ProjectIDs {
		if id = strings.TrimSpace(id); id == "" {
			continue
		}
		var amount int64
		if i < len(f.ProjectSalary) {
			amount = f.ProjectSalary[i]
		}
		name := id
		if j := slices.IndexFunc(projects, func(p models.Project) bool { return p.ID.String() == id }); j >= 0 {
			name = projects[j].CustomerName + " - " + projects[j].PackageName
		}
		out = append(out, models.SalaryProjectLine{ProjectID: id, ProjectName: name, Salary: amount})
	}
	return out
}

func (f salaryForm) total(projects []models.Project) int64 {
	return pricing.SalaryTotal(f.BaseSalary, f.lines(projects), f.Bonus, f.Deduction)
}

type salaryRefs struct {
	employees []models.Employee
	projects  []models.Project
}

func (h *Handler) loadSalaryRefs(ctx context.Context, api *apiclient.Client) (salaryRefs, error) {
	var refs salaryRefs
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		emps, err := api.Employees(ctx)
		if err != nil && !apiclient.IsAuth(err) {
			h.Log.Warn("load employees for salary form", "err", err)
			return nil
		}
		refs.employees = listing.Filter(emps, func(e models.Employee) bool { return e.IsActive })
		return err
	})
	g.Go(func() error {
		projects, err := api.Projects(ctx)
		if err != nil && !apiclient.IsAuth(err) {
			h.Log.Warn("load projects for salary form", "err", err)
			return nil
		}
		refs.projects = projects
		return err
	})
	return refs, g.Wait()
}

func salaryFormData(refs salaryRefs, form salaryForm) gin.H {
	rows := form.lines(refs.projects)
	// one empty row to add a project
	rows = append(rows, models.SalaryProjectLine{})
	return gin.H{
		"form":      form,
		"rows":      rows,
		"total":     form.total(refs.projects),
		"employees": refs.employees,
		"projects":  refs.projects,
		"error":     "",
	}
}

func (h *Handler) ShowNewSalary(c *gin.Context) {
	refs, err := h.loadSalaryRefs(c.Request.Context(), h.api(c))
	if authLost(c, err) {
		return
	}
	form := salaryForm{Month: c.DefaultQuery("month", h.now().Format("2006-01"))}
	render(c, http.StatusOK, "salary_form.html", salaryFormData(refs, form))
}

func (h *Handler) CreateSalary(c *gin.Context) {
	api := h.api(c)
	refs, err := h.loadSalaryRefs(c.Request.Context(), api)
	if authLost(c, err) {
		return
	}

	var form salaryForm
	errs := forms.Bind(c, &form)

	switch form.Action {
	case "employee":
		if i := slices.IndexFunc(refs.employees, func(e models.Employee) bool { return e.ID.String() == form.EmployeeID }); i >= 0 {
			form.BaseSalary = refs.employees[i].BaseSalary
		}
		render(c, http.StatusOK, "salary_form.html", salaryFormData(refs, form))
		return
	case "remove":
		if i := form.RemoveLine; i >= 0 && i < len(form.ProjectIDs) {
			form.ProjectIDs = slices.Delete(form.ProjectIDs, i, i+1)
			if i < len(form.ProjectSalary) {
				form.ProjectSalary = slices.Delete(form.ProjectSalary, i, i+1)
			}
		}
		render(c, http.StatusOK, "salary_form.html", salaryFormData(refs, form))
		return
	case "recalc":
		render(c, http.StatusOK, "salary_form.html", salaryFormData(refs, form))
		return
	}

	for _, amount := range form.ProjectSalary {
		if amount < 0 {
			errs.Add("ProjectSalary", "Lương dự án không được âm")
			break
		}
	}
	if errs != nil {
		renderForm(c, "salary_form.html", salaryFormData(refs, form), errs)
		return
	}

	lines := form.lines(refs.projects)
	payload := models.SalaryPayload{
		EmployeeID:     form.EmployeeID,
		Month:          form.Month,
		BaseSalary:     form.BaseSalary,
		Bonus:          form.Bonus,
		Deduction:      form.Deduction,
		TotalAmount:    pricing.SalaryTotal(form.BaseSalary, lines, form.Bonus, form.Deduction),
		ProjectsDetail: lines,
		Notes:          strings.TrimSpace(form.Notes),
		Status:         models.SalaryPending,
	}
	if payload.ProjectsDetail == nil {
		payload.ProjectsDetail = []models.SalaryProjectLine{}
	}

	saved, err := api.CreateSalary(c.Request.Context(), payload)
	if err != nil {
		if authLost(c, err) {
			return
		}
		h.Log.Error("create salary", "employee", form.EmployeeID, "month", form.Month, "err", err)
		data := salaryFormData(refs, form)
		data["error"] = apiclient.Message(err, "Không thể tạo bảng lương")
		render(c, http.StatusBadGateway, "salary_form.html", data)
		return
	}

	h.record(c, "salary", saved.ID, "create", form.Month+" "+pricing.FormatVND(payload.TotalAmount))
	flash(c, flashSuccess, "Đã tạo bảng lương")
	c.Redirect(http.StatusFound, "/salaries?month="+form.Month)
}

//
// PAYMENT STATUS
//

func (h *Handler) PaySalary(c *gin.Context) {
	date := h.now().Format("2006-01-02")
	h.setSalaryStatus(c, models.SalaryStatusPatch{Status: models.SalaryPaid, PaymentDate: &date}, "Đã xác nhận thanh toán")
}

func (h *Handler) CancelSalary(c *gin.Context) {
	h.setSalaryStatus(c, models.SalaryStatusPatch{Status: models.SalaryCancelled}, "Đã hủy bảng lương")
}

func (h *Handler) setSalaryStatus(c *gin.Context, patch models.SalaryStatusPatch, msg string) {
	id := c.Param("id")
	back := "/salaries"
	if q := c.PostForm("return"); strings.HasPrefix(q, "?") {
		back += q
	}
	if err := h.api(c).SetSalaryStatus(c.Request.Context(), id, patch); err != nil {
		h.upstreamFailed(c, err, "Không thể cập nhật bảng lương", back)
		return
	}
	h.record(c, "salary", models.ID(id), "status_change", patch.Status.Label())
	flash(c, flashSuccess, msg)
	c.Redirect(http.StatusFound, back)
}

//
// EXPORT
//

func (h *Handler) ExportSalaries(c *gin.Context) {
	var filter listing.SalaryFilter
	_ = c.ShouldBindQuery(&filter)

	format, err := export.ParseFormat(c.DefaultQuery("format", "csv"))
	if err != nil {
		renderError(c, http.StatusBadRequest, "Định dạng xuất không được hỗ trợ")
		return
	}

	items, err := h.api(c).Salaries(c.Request.Context(), salaryQuery(filter))
	if err != nil {
		h.upstreamFailed(c, err, "Không thể tải bảng lương", "/salaries")
		return
	}

	file, err := export.Salaries(items, format, filter.Month, h.now())
	if err != nil {
		h.Log.Error("export salaries", "format", format, "err", err)
		renderError(c, http.StatusInternalServerError, "Không thể xuất báo cáo")
		return
	}
	sendFile(c, file)
}

func sendFile(c *gin.Context, f export.File) {
	c.Header("Content-Disposition", `attachment; filename="`+f.Name+`"`)
	c.Data(http.StatusOK, f.ContentType, f.Data)
}
