package handlers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studio-dashboard/internal/apiclient"
	"studio-dashboard/internal/calendar"
	"studio-dashboard/internal/listing"
	"studio-dashboard/internal/middleware"
	"studio-dashboard/internal/models"
	"studio-dashboard/internal/pricing"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestHandler() *Handler {
	return &Handler{
		Rates:    pricing.DefaultRates(),
		Calendar: calendar.Options{EventDuration: 2 * time.Hour, Location: time.UTC},
		Guard:    listing.NewGuard(),
		Log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestCanChangeProjectStatus(t *testing.T) {
	cases := []struct {
		role    models.UserRole
		current models.ProjectStatus
		want    bool
	}{
		{models.RoleAdmin, models.StatusPending, true},
		{models.RoleManager, models.StatusPending, true},
		{models.RoleSales, models.StatusPending, false},
		{models.RoleEmployee, models.StatusPending, false},
		{models.RoleManager, models.StatusConfirmed, false},
		{models.RoleAdmin, models.StatusCancelled, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, canChangeProjectStatus(tc.role, tc.current, models.StatusConfirmed), "%s %s", tc.role, tc.current)
	}
	assert.False(t, canChangeProjectStatus(models.RoleAdmin, models.StatusPending, models.StatusShooting))
}

func TestTeamCandidates(t *testing.T) {
	emps := []models.Employee{
		{ID: "1", Role: "Photo/Retouch", Skills: []string{"Chụp chính", "Retouch"}, IsActive: true},
		{ID: "2", Role: "Photo/Retouch", Skills: []string{"Chụp phụ"}, IsActive: true},
		{ID: "3", Role: "Makeup Artist", IsActive: true},
		{ID: "4", Role: "Photo/Retouch", Skills: []string{"Chụp chính"}, IsActive: false},
		{ID: "5", Role: "Sales", Skills: []string{"Chụp chính"}, IsActive: true},
	}
	c := teamCandidates(emps)

	idsOf := func(es []models.Employee) []models.ID {
		out := make([]models.ID, len(es))
		for i, e := range es {
			out[i] = e.ID
		}
		return out
	}
	assert.Equal(t, []models.ID{"1"}, idsOf(c.Main))
	assert.Equal(t, []models.ID{"1", "2"}, idsOf(c.Assist))
	assert.Equal(t, []models.ID{"3"}, idsOf(c.Makeup))
	assert.Equal(t, []models.ID{"1"}, idsOf(c.Retouch))
}

func TestProjectPayload(t *testing.T) {
	r := pricing.DefaultRates()
	f := projectForm{
		CustomerName:     "  Lê Mai ",
		CustomerPhone:    "0901234567",
		PackageName:      "Cưới Premium",
		PackagePrice:     20_000_000,
		PackageDiscount:  2_000_000,
		ShootDate:        "2024-06-01",
		Status:           "bogus",
		MainPhotographer: "e1",
		MakeupArtists:    []string{"e3", " "},
		SalaryMain:       1_000_000,
		SalaryMakeup:     500_000,
		Surcharge:        models.Surcharge{ExtraHours: 2},
	}

	p := f.payload(r)
	b := r.Bonuses(f.Surcharge)

	assert.Equal(t, "Lê Mai", p.CustomerName)
	assert.Nil(t, p.CustomerEmail)
	assert.Nil(t, p.ShootTime)
	assert.Equal(t, models.StatusPending, p.Status)
	assert.Equal(t, int64(18_000_000), p.Payment.Deposit+p.Payment.Final)
	assert.Equal(t, models.PaymentUnpaid, p.Payment.Status)

	require.NotNil(t, p.Team.MainPhotographer)
	assert.Equal(t, int64(1_000_000), p.Team.MainPhotographer.Salary)
	assert.Equal(t, b.MainPhoto, p.Team.MainPhotographer.Bonus)
	require.Len(t, p.Team.MakeupArtists, 1)
	assert.Equal(t, b.Makeup, p.Team.MakeupArtists[0].Bonus)
	assert.NotNil(t, p.Team.AssistPhotographers)
	assert.NotNil(t, p.Partners)

	q := f.quote(r)
	assert.Equal(t, int64(18_000_000), q.FinalPrice)
	assert.Equal(t, 1_000_000+500_000+b.MainPhoto+b.Makeup, q.LaborCosts)
}

func TestProjectEditKeepsPayment(t *testing.T) {
	r := pricing.DefaultRates()
	p := &models.Project{
		CustomerName: "Lê Mai",
		PackageName:  "Cưới Premium",
		PackagePrice: 20_000_000,
		ShootDate:    "2024-06-01",
		Status:       models.StatusCompleted,
		Payment: models.ProjectPayment{
			Paid:           20_000_000,
			Status:         models.PaymentFullyPaid,
			PaymentHistory: []models.PaymentRecord{{Amount: 20_000_000, Date: "2024-05-01", Method: "cash"}},
		},
	}

	f := projectFormFrom(p)
	assert.Equal(t, "fully_paid", f.PaymentStatus)

	pay := f.payload(r).Payment
	assert.Equal(t, models.PaymentFullyPaid, pay.Status)
	assert.Equal(t, int64(20_000_000), pay.Paid)
	assert.Len(t, pay.PaymentHistory, 1)
	assert.Equal(t, int64(20_000_000), pay.Deposit+pay.Final)

	f.PaymentStatus = ""
	assert.Equal(t, models.PaymentFullyPaid, f.payload(r).Payment.Status)

	f.PaymentStatus = "deposit_paid"
	assert.Equal(t, models.PaymentDepositPaid, f.payload(r).Payment.Status)

	created := projectForm{PackagePrice: 1_000_000}.payload(r).Payment
	assert.Equal(t, models.PaymentUnpaid, created.Status)
	assert.Zero(t, created.Paid)
	assert.NotNil(t, created.PaymentHistory)
}

func TestMatchPackage(t *testing.T) {
	pkgs := []models.Package{
		{ID: "k1", Name: "Cưới Premium", Category: "wedding"},
		{ID: "k2", Name: "Gia đình", Category: "family"},
	}
	assert.Equal(t, "k1", matchPackage(pkgs, &models.Project{PackageName: "Cưới Premium", PackageType: "wedding"}))
	assert.Equal(t, "k2", matchPackage(pkgs, &models.Project{PackageName: "Gia đình"}))
	assert.Equal(t, "", matchPackage(pkgs, &models.Project{PackageName: "Cưới Premium", PackageType: "event"}))
	assert.Equal(t, "", matchPackage(pkgs, &models.Project{PackageName: "Tự nhập"}))
}

func TestProjectFormFromTrimsTimestamps(t *testing.T) {
	when, at := "2024-06-01T00:00:00Z", "09:30:00"
	f := projectFormFrom(&models.Project{
		ShootDate: when,
		ShootTime: &at,
		Team: models.ProjectTeam{
			MainPhotographer: &models.TeamMember{Employee: "e1", Salary: 700_000},
			RetouchArtists:   []models.TeamMember{{Employee: "e9", Salary: 40_000}},
		},
	})
	assert.Equal(t, "2024-06-01", f.ShootDate)
	assert.Equal(t, "09:30", f.ShootTime)
	assert.Equal(t, "e1", f.MainPhotographer)
	assert.Equal(t, int64(700_000), f.SalaryMain)
	assert.Equal(t, []string{"e9"}, f.RetouchArtists)
	assert.Equal(t, int64(40_000), f.SalaryRetouch)
}

func TestApplyPackage(t *testing.T) {
	photo := models.Thousands(600)
	var f projectForm
	f.applyPackage(models.Package{Name: "Gia đình", Category: "family", Price: 5_000_000, Details: models.PackageDetails{Photo: &photo}}, pricing.DefaultRates())

	assert.Equal(t, "Gia đình", f.PackageName)
	assert.Equal(t, "family", f.PackageType)
	assert.Equal(t, int64(5_000_000), f.PackagePrice)
	assert.Equal(t, int64(600_000), f.SalaryMain)
}

func TestSummarize(t *testing.T) {
	o := summarize(overviewData{
		projects: []models.Project{
			{Status: models.StatusPending, PackagePrice: 10_000_000},
			{Status: models.StatusRetouching, PackagePrice: 6_000_000},
			{Status: models.StatusCompleted, PackagePrice: 4_000_000},
		},
		employees: []models.Employee{{IsActive: true}, {IsActive: false}},
		salaries: []models.SalaryPayment{
			{TotalAmount: 3_000_000, Status: models.SalaryPending},
			{TotalAmount: 2_000_000, Status: models.SalaryPaid},
		},
	})

	assert.Equal(t, 3, o.TotalProjects)
	assert.Equal(t, 2, o.ActiveProjects)
	assert.Equal(t, 1, o.ActiveEmployees)
	assert.Equal(t, int64(20_000_000), o.Revenue)
	assert.Equal(t, int64(5_000_000), o.Expenses)
	assert.Equal(t, int64(15_000_000), o.Profit)
	assert.Equal(t, 1, o.PendingSalaries)
	assert.InDelta(t, 75.0, o.ProfitMargin, 1e-9)

	assert.Zero(t, summarize(overviewData{}).ProfitMargin)
}

func TestSummarizeSalaries(t *testing.T) {
	s := summarizeSalaries([]models.SalaryPayment{
		{Employee: models.Employee{ID: "1"}, TotalAmount: 100, Status: models.SalaryPending},
		{Employee: models.Employee{ID: "1"}, TotalAmount: 200, Status: models.SalaryPaid},
		{Employee: models.Employee{ID: "2"}, TotalAmount: 400, Status: models.SalaryCancelled},
	})
	assert.Equal(t, int64(300), s.Total)
	assert.Equal(t, int64(100), s.Pending)
	assert.Equal(t, int64(200), s.Paid)
	assert.Equal(t, 1, s.PendingN)
	assert.Equal(t, 3, s.Count)
	assert.Equal(t, 2, s.Employees)
}

func TestSummarizeFinance(t *testing.T) {
	s := summarizeFinance([]models.Transaction{
		{Type: models.Income, Amount: 1000},
		{Type: models.Expense, Amount: 250},
	})
	assert.Equal(t, int64(750), s.Profit)
	assert.InDelta(t, 75.0, s.Margin, 1e-9)
}

func TestSalaryFormLines(t *testing.T) {
	projects := []models.Project{{ID: "p1", CustomerName: "Mai", PackageName: "Cưới"}}
	f := salaryForm{
		BaseSalary:    5_000_000,
		ProjectIDs:    []string{"p1", "", "p9"},
		ProjectSalary: []int64{500_000, 0},
		Bonus:         100_000,
		Deduction:     50_000,
	}

	lines := f.lines(projects)
	require.Len(t, lines, 2)
	assert.Equal(t, "Mai - Cưới", lines[0].ProjectName)
	assert.Equal(t, int64(500_000), lines[0].Salary)
	assert.Equal(t, "p9", lines[1].ProjectName)
	assert.Zero(t, lines[1].Salary)

	assert.Equal(t, int64(5_550_000), f.total(projects))
}

func TestTransactionFormValidate(t *testing.T) {
	f := transactionForm{Type: "income", Category: "salary", PaymentMethod: "cheque"}
	errs := f.validate(nil)
	require.Len(t, errs, 2)
	assert.Equal(t, "Category", errs[0].Field)
	assert.Equal(t, "PaymentMethod", errs[1].Field)

	ok := transactionForm{Type: "expense", Category: "salary", PaymentMethod: "cash"}
	assert.Nil(t, ok.validate(nil))
}

func TestSafeNext(t *testing.T) {
	assert.Equal(t, "/projects?status=pending", safeNext("/projects?status=pending"))
	assert.Equal(t, "/", safeNext("//evil.example.com"))
	assert.Equal(t, "/", safeNext("https://evil.example.com"))
	assert.Equal(t, "/", safeNext("/login"))
	assert.Equal(t, "/", safeNext(""))
	assert.Equal(t, "/", safeNext(`/\evil.example.com`))
	assert.Equal(t, "/", safeNext("/\t/evil.example.com"))
	assert.Equal(t, "/", safeNext("/login?next=/x"))
	assert.Equal(t, "/calendar", safeNext("/calendar"))
}

func newSessionEngine() *gin.Engine {
	r := gin.New()
	r.Use(sessions.Sessions("test", cookie.NewStore([]byte("0123456789abcdef0123456789abcdef"))))
	return r
}

func TestGuardedListDropsSupersededLoad(t *testing.T) {
	h := newTestHandler()
	r := newSessionEngine()
	r.GET("/things", func(c *gin.Context) {
		items, err := guardedList(h, c, "things", func(ctx context.Context) ([]int, error) {
			if c.Query("race") != "" {
				// a newer load of the same page starts while this one runs
				_, _, done := h.Guard.Begin(context.Background(), middleware.SessionID(c)+":things")
				defer done()
				assert.Error(t, ctx.Err())
			}
			return []int{1, 2}, nil
		})
		if err != nil {
			h.listFailed(c, err, "failed")
			return
		}
		c.JSON(http.StatusOK, items)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/things", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[1,2]`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/things?race=1", nil))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Zero(t, h.Guard.Len())
}

func TestUpstreamFailedRedirects(t *testing.T) {
	h := newTestHandler()
	r := newSessionEngine()
	r.GET("/auth", func(c *gin.Context) {
		h.upstreamFailed(c, apiclient.ErrAuthRequired, "x", "/projects")
	})
	r.GET("/other", func(c *gin.Context) {
		h.upstreamFailed(c, &apiclient.APIError{Status: http.StatusBadGateway, Message: "down"}, "x", "/projects")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/other", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/projects", w.Header().Get("Location"))
}
