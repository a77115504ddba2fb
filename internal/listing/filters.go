package listing

import (
	"strconv"
	"strings"

	"studio-dashboard/internal/models"
)

// Filter parameters are bound from the query string so a filtered view is a
// shareable URL.

type ProjectFilter struct {
	Search string `form:"q"`
	Status string `form:"status"`
}

func (f ProjectFilter) Apply(items []models.Project) []models.Project {
	return Filter(items,
		Contains(f.Search,
			func(p models.Project) string { return p.CustomerName },
			func(p models.Project) string { return p.CustomerPhone },
			func(p models.Project) string { return p.ProjectCode },
		),
		Equals(models.ProjectStatus(f.Status), func(p models.Project) models.ProjectStatus { return p.Status }),
	)
}

type EmployeeFilter struct {
	Search string `form:"q"`
	Role   string `form:"role"`
	State  string `form:"state"`
}

func (f EmployeeFilter) Apply(items []models.Employee) []models.Employee {
	return Filter(items,
		Contains(f.Search,
			func(e models.Employee) string { return e.Name },
			func(e models.Employee) string { return e.Email },
			func(e models.Employee) string { return e.Phone },
			func(e models.Employee) string { return e.Role },
		),
		Equals(f.Role, func(e models.Employee) string { return e.Role }),
		ActiveState(f.State, func(e models.Employee) bool { return e.IsActive }),
	)
}

type PackageFilter struct {
	Search   string `form:"q"`
	Category string `form:"category"`
	MinPrice string `form:"min_price"`
	MaxPrice string `form:"max_price"`
	State    string `form:"state"`
}

func (f PackageFilter) Apply(items []models.Package) []models.Package {
	return Filter(items,
		Contains(f.Search,
			func(p models.Package) string { return p.Name },
			func(p models.Package) string { return p.Description },
		),
		Equals(models.PackageCategory(f.Category), func(p models.Package) models.PackageCategory { return p.Category }),
		Between(parseAmount(f.MinPrice), parseAmount(f.MaxPrice), func(p models.Package) int64 { return p.Price }),
		ActiveState(f.State, func(p models.Package) bool { return p.IsActive }),
	)
}

// ActiveCount is the number of filters other than search that are set.
func (f PackageFilter) ActiveCount() int {
	n := 0
	if f.Category != "" {
		n++
	}
	if parseAmount(f.MinPrice) != nil || parseAmount(f.MaxPrice) != nil {
		n++
	}
	if f.State == "active" || f.State == "inactive" {
		n++
	}
	return n
}

// PartnerFilter searches on the server; Type is refined locally.
type PartnerFilter struct {
	Search string `form:"q"`
	Type   string `form:"type"`
}

func (f PartnerFilter) Apply(items []models.Partner) []models.Partner {
	return Filter(items,
		Equals(models.PartnerType(f.Type), func(p models.Partner) models.PartnerType { return p.Type }),
	)
}

// SalaryFilter is sent to the server as query params.
type SalaryFilter struct {
	Month  string `form:"month"`
	Status string `form:"status"`
}

type FinanceFilter struct {
	Type string `form:"type"`
}

func (f FinanceFilter) Apply(items []models.Transaction) []models.Transaction {
	return Filter(items,
		Equals(models.TransactionType(f.Type), func(t models.Transaction) models.TransactionType { return t.Type }),
	)
}

// parseAmount accepts "1500000" or "1.500.000"; blank or invalid is no bound.
func parseAmount(s string) *int64 {
	s = strings.NewReplacer(".", "", ",", "", " ", "").Replace(strings.TrimSpace(s))
	if s == "" {
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}
