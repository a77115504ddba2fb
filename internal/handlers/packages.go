package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"studio-dashboard/internal/apiclient"
	"studio-dashboard/internal/forms"
	"studio-dashboard/internal/listing"
	"studio-dashboard/internal/models"
)

func (h *Handler) ListPackages(c *gin.Context) {
	var filter listing.PackageFilter
	_ = c.ShouldBindQuery(&filter)

	all, err := guardedList(h, c, "packages", h.api(c).Packages)
	if err != nil {
		h.listFailed(c, err, "Không thể tải danh sách gói dịch vụ")
		return
	}

	render(c, http.StatusOK, "packages_list.html", gin.H{
		"packages":      filter.Apply(all),
		"total":         len(all),
		"categories":    models.PackageCategories,
		"filter":        filter,
		"activeFilters": filter.ActiveCount(),
		"CanEdit":       can(c, managers...),
		"CanDelete":     can(c, admins...),
	})
}

func (h *Handler) ShowPackage(c *gin.Context) {
	p, err := h.api(c).Package(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.upstreamFailed(c, err, "Không tìm thấy gói dịch vụ", "/packages")
		return
	}
	render(c, http.StatusOK, "package_detail.html", gin.H{
		"pkg":       p,
		"salaries":  h.Rates.PackageSalaries(p.Details),
		"CanEdit":   can(c, managers...),
		"CanDelete": can(c, admins...),
	})
}

// packageForm takes team salaries in thousands of VND, as stored.
type packageForm struct {
	Name            string `form:"name" label:"Tên gói" binding:"required,min=2"`
	Category        string `form:"category" label:"Danh mục" binding:"required"`
	Price           int64  `form:"price" label:"Giá" binding:"min=0"`
	Description     string `form:"description"`
	Notes           string `form:"notes"`
	Includes        string `form:"includes"`
	IsActive        bool   `form:"is_active"`
	PopularityScore int    `form:"popularity_score" label:"Độ phổ biến" binding:"min=0"`

	Photo         float64 `form:"detail_photo" label:"Lương chụp" binding:"min=0"`
	Makeup        float64 `form:"detail_makeup" label:"Lương makeup" binding:"min=0"`
	Assistant     float64 `form:"detail_assistant" label:"Lương trợ lý" binding:"min=0"`
	Retouch       float64 `form:"detail_retouch" label:"Lương retouch" binding:"min=0"`
	Time          string  `form:"detail_time"`
	Location      string  `form:"detail_location"`
	RetouchPhotos int     `form:"detail_retouch_photos" label:"Số ảnh retouch" binding:"min=0"`
	ExtraServices string  `form:"detail_extra_services"`
}

func thousands(v float64) *models.Thousands {
	if v <= 0 {
		return nil
	}
	t := models.Thousands(v)
	return &t
}

func fromThousands(t *models.Thousands) float64 {
	if t == nil {
		return 0
	}
	return float64(*t)
}

func (f packageForm) payload() models.PackagePayload {
	d := models.PackageDetails{
		Photo:         thousands(f.Photo),
		Makeup:        thousands(f.Makeup),
		Assistant:     thousands(f.Assistant),
		Retouch:       thousands(f.Retouch),
		Time:          forms.Optional(f.Time),
		Location:      forms.Optional(f.Location),
		ExtraServices: forms.SplitList(f.ExtraServices),
	}
	if f.RetouchPhotos > 0 {
		n := f.RetouchPhotos
		d.RetouchPhotos = &n
	}
	return models.PackagePayload{
		Name:            strings.TrimSpace(f.Name),
		Category:        models.PackageCategory(f.Category),
		Price:           f.Price,
		Description:     strings.TrimSpace(f.Description),
		Notes:           strings.TrimSpace(f.Notes),
		Details:         d,
		Includes:        forms.SplitList(f.Includes),
		IsActive:        f.IsActive,
		PopularityScore: f.PopularityScore,
	}
}

func packageFormFrom(p *models.Package) packageForm {
	f := packageForm{
		Name:            p.Name,
		Category:        string(p.Category),
		Price:           p.Price,
		Description:     p.Description,
		Notes:           p.Notes,
		Includes:        strings.Join(p.Includes, "\n"),
		IsActive:        p.IsActive,
		PopularityScore: p.PopularityScore,
		Photo:           fromThousands(p.Details.Photo),
		Makeup:          fromThousands(p.Details.Makeup),
		Assistant:       fromThousands(p.Details.Assistant),
		Retouch:         fromThousands(p.Details.Retouch),
		Time:            deref(p.Details.Time),
		Location:        deref(p.Details.Location),
		ExtraServices:   strings.Join(p.Details.ExtraServices, "\n"),
	}
	if p.Details.RetouchPhotos != nil {
		f.RetouchPhotos = *p.Details.RetouchPhotos
	}
	return f
}

func packageFormData(form packageForm, action string) gin.H {
	return gin.H{
		"form":       form,
		"categories": models.PackageCategories,
		"action":     action,
		"error":      "",
	}
}

func (h *Handler) ShowNewPackage(c *gin.Context) {
	form := packageForm{Category: string(models.PackageCategories[0]), IsActive: true}
	render(c, http.StatusOK, "package_form.html", packageFormData(form, "/packages/new"))
}

func (h *Handler) CreatePackage(c *gin.Context) {
	h.submitPackage(c, "", "/packages/new")
}

func (h *Handler) ShowEditPackage(c *gin.Context) {
	p, err := h.api(c).Package(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.upstreamFailed(c, err, "Không tìm thấy gói dịch vụ", "/packages")
		return
	}
	data := packageFormData(packageFormFrom(p), "/packages/"+p.ID.String()+"/edit")
	data["pkg"] = p
	render(c, http.StatusOK, "package_form.html", data)
}

func (h *Handler) UpdatePackage(c *gin.Context) {
	id := c.Param("id")
	h.submitPackage(c, id, "/packages/"+id+"/edit")
}

func (h *Handler) submitPackage(c *gin.Context, id, action string) {
	var form packageForm
	errs := forms.Bind(c, &form)
	if form.Category != "" && !models.PackageCategory(form.Category).Valid() {
		errs.Add("Category", "Danh mục không hợp lệ")
	}
	if errs != nil {
		renderForm(c, "package_form.html", packageFormData(form, action), errs)
		return
	}

	api := h.api(c)
	var (
		saved *models.Package
		err   error
	)
	if id == "" {
		saved, err = api.CreatePackage(c.Request.Context(), form.payload())
	} else {
		saved, err = api.UpdatePackage(c.Request.Context(), id, form.payload())
	}
	if err != nil {
		if authLost(c, err) {
			return
		}
		h.Log.Error("save package", "id", id, "err", err)
		data := packageFormData(form, action)
		data["error"] = apiclient.Message(err, "Không thể lưu gói dịch vụ")
		render(c, http.StatusBadGateway, "package_form.html", data)
		return
	}

	if id == "" {
		h.record(c, "package", saved.ID, "create", saved.Name)
		flash(c, flashSuccess, "Đã thêm gói dịch vụ")
	} else {
		h.record(c, "package", models.ID(id), "update", saved.Name)
		flash(c, flashSuccess, "Đã cập nhật gói dịch vụ")
	}
	c.Redirect(http.StatusFound, "/packages")
}

func (h *Handler) DeletePackage(c *gin.Context) {
	id := c.Param("id")
	if err := h.api(c).DeletePackage(c.Request.Context(), id); err != nil {
		h.upstreamFailed(c, err, "Không thể xóa gói dịch vụ", "/packages")
		return
	}
	h.record(c, "package", models.ID(id), "delete", "")
	flash(c, flashSuccess, "Đã xóa gói dịch vụ")
	c.Redirect(http.StatusFound, "/packages")
}
