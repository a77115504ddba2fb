package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"studio-dashboard/internal/apiclient"
	"studio-dashboard/internal/forms"
	"studio-dashboard/internal/listing"
	"studio-dashboard/internal/models"
)

func (h *Handler) ListPartners(c *gin.Context) {
	var filter listing.PartnerFilter
	_ = c.ShouldBindQuery(&filter)

	api := h.api(c)
	found, err := guardedList(h, c, "partners", func(ctx context.Context) ([]models.Partner, error) {
		return api.Partners(ctx, strings.TrimSpace(filter.Search))
	})
	if err != nil {
		h.listFailed(c, err, "Không thể tải danh sách đối tác")
		return
	}

	render(c, http.StatusOK, "partners_list.html", gin.H{
		"partners":  filter.Apply(found),
		"total":     len(found),
		"types":     models.PartnerTypes,
		"filter":    filter,
		"CanEdit":   can(c, managers...),
		"CanDelete": can(c, admins...),
	})
}

func (h *Handler) ShowPartner(c *gin.Context) {
	p, err := h.api(c).Partner(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.upstreamFailed(c, err, "Không tìm thấy đối tác", "/partners")
		return
	}
	render(c, http.StatusOK, "partner_detail.html", gin.H{
		"partner":   p,
		"CanEdit":   can(c, managers...),
		"CanDelete": can(c, admins...),
	})
}

type partnerForm struct {
	Name           string  `form:"name" label:"Tên đối tác" binding:"required,min=2"`
	Type           string  `form:"type" label:"Loại" binding:"required,oneof=vendor location equipment other"`
	ContactPerson  string  `form:"contact_person"`
	Phone          string  `form:"phone" label:"Số điện thoại" binding:"omitempty,phone"`
	Email          string  `form:"email" label:"Email" binding:"omitempty,email"`
	Address        string  `form:"address"`
	Services       string  `form:"services"`
	CostPerService int64   `form:"cost_per_service" label:"Chi phí mỗi dịch vụ" binding:"min=0"`
	Rating         float64 `form:"rating" label:"Đánh giá" binding:"gte=0,lte=5"`
	Notes          string  `form:"notes"`
	IsActive       bool    `form:"is_active"`
}

func (f partnerForm) payload() models.PartnerPayload {
	return models.PartnerPayload{
		Name:           strings.TrimSpace(f.Name),
		Type:           models.PartnerType(f.Type),
		ContactPerson:  strings.TrimSpace(f.ContactPerson),
		Phone:          strings.TrimSpace(f.Phone),
		Email:          strings.TrimSpace(f.Email),
		Address:        strings.TrimSpace(f.Address),
		Services:       forms.SplitList(f.Services),
		CostPerService: f.CostPerService,
		Rating:         f.Rating,
		Notes:          strings.TrimSpace(f.Notes),
		IsActive:       f.IsActive,
	}
}

func partnerFormFrom(p *models.Partner) partnerForm {
	return partnerForm{
		Name:           p.Name,
		Type:           string(p.Type),
		ContactPerson:  p.ContactPerson,
		Phone:          p.Phone,
		Email:          p.Email,
		Address:        p.Address,
		Services:       strings.Join(p.Services, "\n"),
		CostPerService: p.CostPerService,
		Rating:         p.Rating,
		Notes:          p.Notes,
		IsActive:       p.IsActive,
	}
}

func partnerFormData(form partnerForm, action string) gin.H {
	return gin.H{"form": form, "types": models.PartnerTypes, "action": action, "error": ""}
}

func (h *Handler) ShowNewPartner(c *gin.Context) {
	form := partnerForm{Type: string(models.PartnerTypes[0]), IsActive: true}
	render(c, http.StatusOK, "partner_form.html", partnerFormData(form, "/partners/new"))
}

func (h *Handler) CreatePartner(c *gin.Context) {
	h.submitPartner(c, "", "/partners/new")
}

func (h *Handler) ShowEditPartner(c *gin.Context) {
	p, err := h.api(c).Partner(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.upstreamFailed(c, err, "Không tìm thấy đối tác", "/partners")
		return
	}
	data := partnerFormData(partnerFormFrom(p), "/partners/"+p.ID.String()+"/edit")
	data["partner"] = p
	render(c, http.StatusOK, "partner_form.html", data)
}

func (h *Handler) UpdatePartner(c *gin.Context) {
	id := c.Param("id")
	h.submitPartner(c, id, "/partners/"+id+"/edit")
}

func (h *Handler) submitPartner(c *gin.Context, id, action string) {
	var form partnerForm
	if errs := forms.Bind(c, &form); errs != nil {
		renderForm(c, "partner_form.html", partnerFormData(form, action), errs)
		return
	}

	api := h.api(c)
	var (
		saved *models.Partner
		err   error
	)
	if id == "" {
		saved, err = api.CreatePartner(c.Request.Context(), form.payload())
	} else {
		saved, err = api.UpdatePartner(c.Request.Context(), id, form.payload())
	}
	if err != nil {
		if authLost(c, err) {
			return
		}
		h.Log.Error("save partner", "id", id, "err", err)
		data := partnerFormData(form, action)
		data["error"] = apiclient.Message(err, "Không thể lưu đối tác")
		render(c, http.StatusBadGateway, "partner_form.html", data)
		return
	}

	if id == "" {
		h.record(c, "partner", saved.ID, "create", saved.Name)
		flash(c, flashSuccess, "Đã thêm đối tác")
	} else {
		h.record(c, "partner", models.ID(id), "update", saved.Name)
		flash(c, flashSuccess, "Đã cập nhật đối tác")
	}
	c.Redirect(http.StatusFound, "/partners")
}

func (h *Handler) DeletePartner(c *gin.Context) {
	id := c.Param("id")
	if err := h.api(c).DeletePartner(c.Request.Context(), id); err != nil {
		h.upstreamFailed(c, err, "Không thể xóa đối tác", "/partners")
		return
	}
	h.record(c, "partner", models.ID(id), "delete", "")
	flash(c, flashSuccess, "Đã xóa đối tác")
	c.Redirect(http.StatusFound, "/partners")
}
