package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"studio-dashboard/internal/apiclient"
	"studio-dashboard/internal/export"
	"studio-dashboard/internal/forms"
	"studio-dashboard/internal/listing"
	"studio-dashboard/internal/models"
	"studio-dashboard/internal/pricing"
)

// FinanceSummary is income, expense and profit over the listed transactions.
type FinanceSummary struct {
	Income  int64
	Expense int64
	Profit  int64
	Margin  float64
}

func summarizeFinance(items []models.Transaction) FinanceSummary {
	var s FinanceSummary
	for _, t := range items {
		switch t.Type {
		case models.Income:
			s.Income += t.Amount
		case models.Expense:
			s.Expense += t.Amount
		}
	}
	s.Profit = s.Income - s.Expense
	s.Margin = pricing.Margin(s.Profit, s.Income)
	return s
}

// ListTransactions shows the finance page. The backend has no listing
// endpoint yet, so the table is always empty.
func (h *Handler) ListTransactions(c *gin.Context) {
	var filter listing.FinanceFilter
	_ = c.ShouldBindQuery(&filter)

	all, err := h.api(c).Transactions(c.Request.Context())
	if err != nil {
		h.upstreamFailed(c, err, "Không thể tải giao dịch", "/")
		return
	}
	items := filter.Apply(all)

	render(c, http.StatusOK, "finance_list.html", gin.H{
		"transactions": items,
		"summary":      summarizeFinance(items),
		"filter":       filter,
		"income":       models.IncomeCategories,
		"expense":      models.ExpenseCategories,
		"methods":      models.PaymentMethods,
		"CanManage":    can(c, managers...),
	})
}

type transactionForm struct {
	Type            string `form:"type" label:"Loại giao dịch" binding:"required,oneof=income expense"`
	Category        string `form:"category" label:"Danh mục" binding:"required"`
	Amount          int64  `form:"amount" label:"Số tiền" binding:"gt=0"`
	Description     string `form:"description" label:"Mô tả" binding:"required"`
	TransactionDate string `form:"transaction_date" label:"Ngày giao dịch" binding:"required,date"`
	PaymentMethod   string `form:"payment_method" label:"Phương thức thanh toán"`
	Notes           string `form:"notes"`
	Action          string `form:"action"`
}

func (f transactionForm) validate(errs forms.Errors) forms.Errors {
	t := models.TransactionType(f.Type)
	if f.Category != "" && (t == models.Income || t == models.Expense) && !models.ValidCategory(t, f.Category) {
		errs.Add("Category", "Danh mục không phù hợp với loại giao dịch")
	}
	if f.PaymentMethod != "" && !models.ValidPaymentMethod(f.PaymentMethod) {
		errs.Add("PaymentMethod", "Phương thức thanh toán không hợp lệ")
	}
	return errs
}

func transactionFormData(form transactionForm) gin.H {
	return gin.H{
		"form":       form,
		"categories": models.CategoriesFor(models.TransactionType(form.Type)),
		"methods":    models.PaymentMethods,
		"error":      "",
	}
}

func (h *Handler) ShowNewTransaction(c *gin.Context) {
	t := models.TransactionType(c.DefaultQuery("type", string(models.Income)))
	if t != models.Expense {
		t = models.Income
	}
	form := transactionForm{
		Type:            string(t),
		Category:        models.CategoriesFor(t)[0].Value,
		TransactionDate: h.now().Format("2006-01-02"),
		PaymentMethod:   models.PaymentMethods[0].Value,
	}
	render(c, http.StatusOK, "transaction_form.html", transactionFormData(form))
}

func (h *Handler) CreateTransaction(c *gin.Context) {
	var form transactionForm
	errs := forms.Bind(c, &form)

	// switching the type swaps the category options
	if form.Action == "type" {
		form.Category = models.CategoriesFor(models.TransactionType(form.Type))[0].Value
		render(c, http.StatusOK, "transaction_form.html", transactionFormData(form))
		return
	}

	errs = form.validate(errs)
	if errs != nil {
		renderForm(c, "transaction_form.html", transactionFormData(form), errs)
		return
	}

	saved, err := h.api(c).CreateTransaction(c.Request.Context(), models.TransactionPayload{
		Type:            models.TransactionType(form.Type),
		Category:        form.Category,
		Amount:          form.Amount,
		Description:     strings.TrimSpace(form.Description),
		TransactionDate: form.TransactionDate,
		PaymentMethod:   form.PaymentMethod,
		Notes:           strings.TrimSpace(form.Notes),
	})
	if err != nil {
		if authLost(c, err) {
			return
		}
		h.Log.Error("create transaction", "err", err)
		data := transactionFormData(form)
		data["error"] = apiclient.Message(err, "Không thể thêm giao dịch")
		render(c, http.StatusBadGateway, "transaction_form.html", data)
		return
	}

	h.record(c, "transaction", saved.ID, "create", form.Type+" "+pricing.FormatVND(form.Amount))
	flash(c, flashSuccess, "Đã thêm giao dịch")
	c.Redirect(http.StatusFound, "/finance")
}

func (h *Handler) ExportTransactions(c *gin.Context) {
	var filter listing.FinanceFilter
	_ = c.ShouldBindQuery(&filter)

	format, err := export.ParseFormat(c.DefaultQuery("format", "csv"))
	if err != nil {
		renderError(c, http.StatusBadRequest, "Định dạng xuất không được hỗ trợ")
		return
	}

	all, err := h.api(c).Transactions(c.Request.Context())
	if err != nil {
		h.upstreamFailed(c, err, "Không thể tải giao dịch", "/finance")
		return
	}

	file, err := export.Transactions(filter.Apply(all), format, h.now())
	if err != nil {
		renderError(c, http.StatusBadRequest, "Định dạng xuất không được hỗ trợ")
		return
	}
	sendFile(c, file)
}
