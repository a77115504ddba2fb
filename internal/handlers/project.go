package handlers

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"studio-dashboard/internal/apiclient"
	"studio-dashboard/internal/forms"
	"studio-dashboard/internal/listing"
	"studio-dashboard/internal/models"
	"studio-dashboard/internal/pricing"
)

//
// PROJECT LIST
//

func (h *Handler) ListProjects(c *gin.Context) {
	var filter listing.ProjectFilter
	_ = c.ShouldBindQuery(&filter)

	api := h.api(c)
	all, err := guardedList(h, c, "projects", api.Projects)
	if err != nil {
		h.listFailed(c, err, "Không thể tải danh sách dự án")
		return
	}

	counts := make(map[models.ProjectStatus]int, len(models.ProjectStatuses))
	for _, p := range all {
		counts[p.Status]++
	}

	render(c, http.StatusOK, "projects_list.html", gin.H{
		"projects":   filter.Apply(all),
		"total":      len(all),
		"counts":     counts,
		"statuses":   models.ProjectStatuses,
		"filter":     filter,
		"CanCreate":  can(c, sellers...),
		"CanConfirm": can(c, managers...),
		"CanDelete":  can(c, admins...),
		"MaskPII":    !can(c, sellers...),
	})
}

func (h *Handler) ShowProject(c *gin.Context) {
	p, err := h.api(c).Project(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.upstreamFailed(c, err, "Không tìm thấy dự án", "/projects")
		return
	}
	render(c, http.StatusOK, "project_detail.html", gin.H{
		"project":    p,
		"CanEdit":    can(c, sellers...),
		"CanConfirm": can(c, managers...) && canChangeProjectStatus(session(c).Role(), p.Status, models.StatusConfirmed),
		"CanDelete":  can(c, admins...),
	})
}

//
// PROJECT FORM
//

// projectForm is the create/edit form. Every member of a team role gets the
// role's salary; bonuses come from the surcharge.
type projectForm struct {
	CustomerName    string `form:"customer_name" label:"Tên khách hàng" binding:"required,min=2"`
	CustomerPhone   string `form:"customer_phone" label:"Số điện thoại" binding:"required,phone"`
	CustomerEmail   string `form:"customer_email" label:"Email" binding:"omitempty,email"`
	PackageID       string `form:"package_id"`
	PackageType     string `form:"package_type"`
	PackageName     string `form:"package_name" label:"Tên gói" binding:"required"`
	PackagePrice    int64  `form:"package_price" label:"Giá gói" binding:"min=0"`
	PackageDiscount int64  `form:"package_discount" label:"Giảm giá" binding:"min=0"`
	ShootDate       string `form:"shoot_date" label:"Ngày chụp" binding:"required,date"`
	ShootTime       string `form:"shoot_time" label:"Giờ chụp" binding:"omitempty,clock"`
	Location        string `form:"location"`
	Notes           string `form:"notes"`
	Status          string `form:"status"`
	PaymentStatus   string `form:"payment_status" label:"Trạng thái thanh toán" binding:"omitempty,oneof=unpaid deposit_paid partially_paid fully_paid"`

	MainPhotographer    string   `form:"main_photographer" label:"Thợ chụp chính" binding:"required"`
	AssistPhotographers []string `form:"assist_photographers"`
	MakeupArtists       []string `form:"makeup_artists"`
	RetouchArtists      []string `form:"retouch_artists"`

	SalaryMain    int64 `form:"salary_main" label:"Lương chụp chính" binding:"min=0"`
	SalaryAssist  int64 `form:"salary_assist" label:"Lương chụp phụ" binding:"min=0"`
	SalaryMakeup  int64 `form:"salary_makeup" label:"Lương makeup" binding:"min=0"`
	SalaryRetouch int64 `form:"salary_retouch" label:"Lương retouch" binding:"min=0"`

	Surcharge    models.Surcharge
	PartnerCosts int64 `form:"partner_costs" label:"Chi phí đối tác" binding:"min=0"`

	// "save", "preview" or "package"
	Action string `form:"action"`

	// stored payment of the project being edited
	prior *models.ProjectPayment
}

func members(ids []string, salary int64) []models.TeamMember {
	out := make([]models.TeamMember, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, models.TeamMember{Employee: id, Salary: salary})
		}
	}
	return out
}

func (f projectForm) team() models.ProjectTeam {
	t := models.ProjectTeam{
		AssistPhotographers: members(f.AssistPhotographers, f.SalaryAssist),
		MakeupArtists:       members(f.MakeupArtists, f.SalaryMakeup),
		RetouchArtists:      members(f.RetouchArtists, f.SalaryRetouch),
	}
	if id := strings.TrimSpace(f.MainPhotographer); id != "" {
		t.MainPhotographer = &models.TeamMember{Employee: id, Salary: f.SalaryMain}
	}
	return t
}

func (f projectForm) quote(r pricing.Rates) pricing.Quote {
	return r.Quote(pricing.QuoteInput{
		PackagePrice: f.PackagePrice,
		Discount:     f.PackageDiscount,
		Surcharge:    f.Surcharge,
		Team:         f.team(),
		PartnerCosts: f.PartnerCosts,
	})
}

// payload builds the request body. Price-derived figures are suggestions; the
// backend recomputes them.
func (f projectForm) payload(r pricing.Rates) models.ProjectPayload {
	q := f.quote(r)
	status := models.ProjectStatus(f.Status)
	if !status.Valid() {
		status = models.StatusPending
	}
	return models.ProjectPayload{
		CustomerName:       strings.TrimSpace(f.CustomerName),
		CustomerPhone:      strings.TrimSpace(f.CustomerPhone),
		CustomerEmail:      forms.Optional(f.CustomerEmail),
		PackageType:        f.PackageType,
		PackageName:        strings.TrimSpace(f.PackageName),
		PackagePrice:       f.PackagePrice,
		PackageDiscount:    f.PackageDiscount,
		ShootDate:          f.ShootDate,
		ShootTime:          forms.Optional(f.ShootTime),
		Location:           forms.Optional(f.Location),
		Notes:              forms.Optional(f.Notes),
		Status:             status,
		Team:               r.ApplyBonuses(f.team(), f.Surcharge),
		Payment:            f.payment(q),
		Surcharge:          f.Surcharge,
		Partners:           []any{},
		AdditionalPackages: []string{},
	}
}

// payment keeps what was already paid on edit. Only the deposit split is
// recomputed.
func (f projectForm) payment(q pricing.Quote) models.ProjectPayment {
	pay := models.ProjectPayment{
		Deposit:        q.Deposit,
		Final:          q.Remaining,
		Status:         models.PaymentUnpaid,
		PaymentHistory: []models.PaymentRecord{},
	}
	if prev := f.prior; prev != nil {
		pay.Paid = prev.Paid
		if prev.Status.Valid() {
			pay.Status = prev.Status
		}
		if prev.PaymentHistory != nil {
			pay.PaymentHistory = prev.PaymentHistory
		}
	}
	if s := models.PaymentStatus(f.PaymentStatus); s.Valid() {
		pay.Status = s
	}
	return pay
}

func firstSalary(ms []models.TeamMember) int64 {
	if len(ms) == 0 {
		return 0
	}
	return ms[0].Salary
}

func ids(ms []models.TeamMember) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.Employee
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func projectFormFrom(p *models.Project) projectForm {
	f := projectForm{
		CustomerName:        p.CustomerName,
		CustomerPhone:       p.CustomerPhone,
		CustomerEmail:       deref(p.CustomerEmail),
		PackageType:         p.PackageType,
		PackageName:         p.PackageName,
		PackagePrice:        p.PackagePrice,
		PackageDiscount:     p.PackageDiscount,
		ShootDate:           p.ShootDate,
		Location:            deref(p.Location),
		Notes:               deref(p.Notes),
		Status:              string(p.Status),
		PaymentStatus:       string(p.Payment.Status),
		AssistPhotographers: ids(p.Team.AssistPhotographers),
		MakeupArtists:       ids(p.Team.MakeupArtists),
		RetouchArtists:      ids(p.Team.RetouchArtists),
		SalaryAssist:        firstSalary(p.Team.AssistPhotographers),
		SalaryMakeup:        firstSalary(p.Team.MakeupArtists),
		SalaryRetouch:       firstSalary(p.Team.RetouchArtists),
	}
	if len(f.ShootDate) > 10 {
		f.ShootDate = f.ShootDate[:10]
	}
	if t := deref(p.ShootTime); len(t) >= 5 {
		f.ShootTime = t[:5]
	}
	if m := p.Team.MainPhotographer; m != nil {
		f.MainPhotographer = m.Employee
		f.SalaryMain = m.Salary
	}
	if p.Surcharge != nil {
		f.Surcharge = *p.Surcharge
	}
	pay := p.Payment
	f.prior = &pay
	return f
}

// matchPackage finds the catalog package a project was booked with. Projects
// only store the package name and category.
func matchPackage(pkgs []models.Package, p *models.Project) string {
	for _, pkg := range pkgs {
		if pkg.Name == p.PackageName && (p.PackageType == "" || string(pkg.Category) == p.PackageType) {
			return pkg.ID.String()
		}
	}
	return ""
}

// applyPackage copies name, price, category and per-role salaries from the
// selected package.
func (f *projectForm) applyPackage(pkg models.Package, r pricing.Rates) {
	f.PackageName = pkg.Name
	f.PackagePrice = pkg.Price
	f.PackageType = string(pkg.Category)
	s := r.PackageSalaries(pkg.Details)
	f.SalaryMain, f.SalaryAssist, f.SalaryMakeup, f.SalaryRetouch = s.MainPhoto, s.Assist, s.Makeup, s.Retouch
}

// Candidates are the employees offered for each team slot.
type Candidates struct {
	Main    []models.Employee
	Assist  []models.Employee
	Makeup  []models.Employee
	Retouch []models.Employee
}

func teamCandidates(emps []models.Employee) Candidates {
	var c Candidates
	for _, e := range emps {
		if !e.IsActive {
			continue
		}
		switch e.Role {
		case "Photo/Retouch":
			if slices.Contains(e.Skills, "Chụp chính") {
				c.Main = append(c.Main, e)
			}
			if slices.Contains(e.Skills, "Chụp phụ") || slices.Contains(e.Skills, "Chụp chính") {
				c.Assist = append(c.Assist, e)
			}
			if slices.Contains(e.Skills, "Retouch") {
				c.Retouch = append(c.Retouch, e)
			}
		case "Makeup Artist":
			c.Makeup = append(c.Makeup, e)
		}
	}
	return c
}

type projectFormRefs struct {
	employees []models.Employee
	packages  []models.Package
}

// loadFormRefs loads employees and packages for the pickers. Failures leave
// the pickers empty.
func (h *Handler) loadFormRefs(ctx context.Context, api *apiclient.Client) (projectFormRefs, error) {
	var refs projectFormRefs
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		emps, err := api.Employees(ctx)
		if err != nil && !apiclient.IsAuth(err) {
			h.Log.Warn("load employees for project form", "err", err)
			return nil
		}
		refs.employees = emps
		return err
	})
	g.Go(func() error {
		pkgs, err := api.Packages(ctx)
		if err != nil && !apiclient.IsAuth(err) {
			h.Log.Warn("load packages for project form", "err", err)
			return nil
		}
		refs.packages = listing.Filter(pkgs, func(p models.Package) bool { return p.IsActive })
		return err
	})
	return refs, g.Wait()
}

func (h *Handler) projectFormData(refs projectFormRefs, form projectForm, action string) gin.H {
	return gin.H{
		"form":       form,
		"quote":      form.quote(h.Rates),
		"rates":      h.Rates,
		"candidates": teamCandidates(refs.employees),
		"packages":   refs.packages,
		"statuses":   models.ProjectStatuses,
		"payments":   models.PaymentStatuses,
		"action":     action,
		"error":      "",
	}
}

func (h *Handler) ShowNewProject(c *gin.Context) {
	refs, err := h.loadFormRefs(c.Request.Context(), h.api(c))
	if authLost(c, err) {
		return
	}
	form := projectForm{Status: string(models.StatusPending), PaymentStatus: string(models.PaymentUnpaid)}
	if d := c.Query("date"); d != "" {
		form.ShootDate = d
	}
	render(c, http.StatusOK, "project_form.html", h.projectFormData(refs, form, "/projects/new"))
}

func (h *Handler) CreateProject(c *gin.Context) {
	h.submitProject(c, "", "/projects/new")
}

func (h *Handler) ShowEditProject(c *gin.Context) {
	api := h.api(c)
	p, err := api.Project(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.upstreamFailed(c, err, "Không tìm thấy dự án", "/projects")
		return
	}
	refs, err := h.loadFormRefs(c.Request.Context(), api)
	if authLost(c, err) {
		return
	}
	form := projectFormFrom(p)
	form.PackageID = matchPackage(refs.packages, p)
	data := h.projectFormData(refs, form, "/projects/"+p.ID.String()+"/edit")
	data["project"] = p
	render(c, http.StatusOK, "project_form.html", data)
}

func (h *Handler) UpdateProject(c *gin.Context) {
	id := c.Param("id")
	h.submitProject(c, id, "/projects/"+id+"/edit")
}

// submitProject handles save, quote preview and package autofill for both
// create (id == "") and edit.
func (h *Handler) submitProject(c *gin.Context, id, action string) {
	api := h.api(c)
	refs, err := h.loadFormRefs(c.Request.Context(), api)
	if authLost(c, err) {
		return
	}

	var form projectForm
	errs := forms.Bind(c, &form)

	switch form.Action {
	case "package":
		if i := slices.IndexFunc(refs.packages, func(p models.Package) bool { return p.ID.String() == form.PackageID }); i >= 0 {
			form.applyPackage(refs.packages[i], h.Rates)
		}
		render(c, http.StatusOK, "project_form.html", h.projectFormData(refs, form, action))
		return
	case "preview":
		render(c, http.StatusOK, "project_form.html", h.projectFormData(refs, form, action))
		return
	}

	if form.PackageDiscount > form.PackagePrice {
		errs.Add("PackageDiscount", "Giảm giá không được lớn hơn giá gói")
	}
	if errs != nil {
		renderForm(c, "project_form.html", h.projectFormData(refs, form, action), errs)
		return
	}

	if id != "" {
		prev, err := api.Project(c.Request.Context(), id)
		if err != nil {
			h.upstreamFailed(c, err, "Không tìm thấy dự án", "/projects")
			return
		}
		form.prior = &prev.Payment
	}

	payload := form.payload(h.Rates)
	var saved *models.Project
	if id == "" {
		saved, err = api.CreateProject(c.Request.Context(), payload)
	} else {
		saved, err = api.UpdateProject(c.Request.Context(), id, payload)
	}
	if err != nil {
		if authLost(c, err) {
			return
		}
		h.Log.Error("save project", "id", id, "err", err)
		data := h.projectFormData(refs, form, action)
		data["error"] = apiclient.Message(err, "Không thể lưu dự án")
		render(c, http.StatusBadGateway, "project_form.html", data)
		return
	}

	if id == "" {
		h.record(c, "project", saved.ID, "create", "Tạo dự án cho "+payload.CustomerName)
		flash(c, flashSuccess, "Đã tạo dự án")
	} else {
		h.record(c, "project", models.ID(id), "update", "Cập nhật dự án "+saved.ProjectCode)
		flash(c, flashSuccess, "Đã cập nhật dự án")
	}
	c.Redirect(http.StatusFound, "/projects")
}

//
// STATUS CHANGE
//

// ConfirmProject moves a pending project to confirmed.
func (h *Handler) ConfirmProject(c *gin.Context) {
	id := c.Param("id")
	api := h.api(c)

	p, err := api.Project(c.Request.Context(), id)
	if err != nil {
		h.upstreamFailed(c, err, "Không tìm thấy dự án", "/projects")
		return
	}
	if !canChangeProjectStatus(session(c).Role(), p.Status, models.StatusConfirmed) {
		flash(c, flashError, "Chỉ có thể xác nhận dự án đang chờ xác nhận")
		c.Redirect(http.StatusFound, "/projects")
		return
	}

	if err := api.SetProjectStatus(c.Request.Context(), id, models.StatusConfirmed); err != nil {
		h.upstreamFailed(c, err, "Không thể xác nhận dự án", "/projects")
		return
	}
	h.record(c, "project", p.ID, "status_change",
		fmt.Sprintf("%s → %s", p.Status.Label(), models.StatusConfirmed.Label()))
	flash(c, flashSuccess, "Đã xác nhận dự án")
	c.Redirect(http.StatusFound, "/projects")
}

// canChangeProjectStatus exposes only pending → confirmed, for admins and
// managers. Other transitions are left to the backend.
func canChangeProjectStatus(role models.UserRole, current, next models.ProjectStatus) bool {
	if !role.In(managers...) {
		return false
	}
	return current == models.StatusPending && next == models.StatusConfirmed
}

func (h *Handler) DeleteProject(c *gin.Context) {
	id := c.Param("id")
	if err := h.api(c).DeleteProject(c.Request.Context(), id); err != nil {
		h.upstreamFailed(c, err, "Không thể xóa dự án", "/projects")
		return
	}
	h.record(c, "project", models.ID(id), "delete", "")
	flash(c, flashSuccess, "Đã xóa dự án")
	c.Redirect(http.StatusFound, "/projects")
}
