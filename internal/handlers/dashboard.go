package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"studio-dashboard/internal/apiclient"
	"studio-dashboard/internal/listing"
	"studio-dashboard/internal/models"
	"studio-dashboard/internal/pricing"
)

// Overview is the dashboard's headline numbers.
type Overview struct {
	TotalProjects   int
	ActiveProjects  int
	TotalEmployees  int
	ActiveEmployees int
	Packages        int
	Revenue         int64
	Expenses        int64
	Profit          int64
	PendingSalaries int
	ProfitMargin    float64
}

type overviewData struct {
	projects  []models.Project
	employees []models.Employee
	salaries  []models.SalaryPayment
	packages  []models.Package
}

// loadOverview fetches the four collections in parallel. A failed load
// leaves its collection empty; only a lost session aborts.
func (h *Handler) loadOverview(ctx context.Context, api *apiclient.Client) (overviewData, error) {
	var d overviewData
	g, ctx := errgroup.WithContext(ctx)

	soft := func(name string, err error) error {
		if err == nil {
			return nil
		}
		if apiclient.IsAuth(err) {
			return err
		}
		h.Log.Warn("dashboard load failed", "collection", name, "err", err)
		return nil
	}

	g.Go(func() (err error) {
		d.projects, err = api.Projects(ctx)
		return soft("projects", err)
	})
	g.Go(func() (err error) {
		d.employees, err = api.Employees(ctx)
		return soft("employees", err)
	})
	g.Go(func() (err error) {
		d.salaries, err = api.Salaries(ctx, apiclient.SalaryQuery{})
		return soft("salaries", err)
	})
	g.Go(func() (err error) {
		d.packages, err = api.Packages(ctx)
		return soft("packages", err)
	})

	return d, g.Wait()
}

func summarize(d overviewData) Overview {
	o := Overview{
		TotalProjects:   len(d.projects),
		ActiveProjects:  listing.Count(d.projects, func(p models.Project) bool { return p.Status.Active() }),
		TotalEmployees:  len(d.employees),
		ActiveEmployees: listing.Count(d.employees, func(e models.Employee) bool { return e.IsActive }),
		Packages:        len(d.packages),
		Revenue:         listing.Sum(d.projects, func(p models.Project) int64 { return p.PackagePrice }),
		Expenses:        listing.Sum(d.salaries, func(s models.SalaryPayment) int64 { return s.TotalAmount }),
		PendingSalaries: listing.Count(d.salaries, func(s models.SalaryPayment) bool { return s.Status == models.SalaryPending }),
	}
	o.Profit = o.Revenue - o.Expenses
	o.ProfitMargin = pricing.Margin(o.Profit, o.Revenue)
	return o
}

func (h *Handler) Dashboard(c *gin.Context) {
	d, err := h.loadOverview(c.Request.Context(), h.api(c))
	if authLost(c, err) {
		return
	}

	upcoming := listing.Filter(d.projects, func(p models.Project) bool { return p.Status.Active() })
	upcoming = listing.Sorted(upcoming, func(a, b models.Project) int {
		return strings.Compare(a.ShootDate, b.ShootDate)
	})
	if len(upcoming) > 5 {
		upcoming = upcoming[:5]
	}

	render(c, http.StatusOK, "dashboard.html", gin.H{
		"stats":    summarize(d),
		"upcoming": upcoming,
	})
}

func Health(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}
