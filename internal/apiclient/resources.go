package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"studio-dashboard/internal/models"
)

// Page is a collection envelope. Most resources answer {total, items};
// salaries answer {results}; some deployments send a bare array.
type Page[T any] struct {
	Total   int `json:"total"`
	Items   []T `json:"items"`
	Results []T `json:"results"`
}

func (p *Page[T]) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '[' {
		var items []T
		if err := json.Unmarshal(b, &items); err != nil {
			return err
		}
		*p = Page[T]{Total: len(items), Items: items}
		return nil
	}
	var raw struct {
		Total   int `json:"total"`
		Items   []T `json:"items"`
		Results []T `json:"results"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*p = Page[T]{Total: raw.Total, Items: raw.Items, Results: raw.Results}
	return nil
}

// All returns whichever list the envelope carried.
func (p Page[T]) All() []T {
	if len(p.Items) > 0 {
		return p.Items
	}
	return p.Results
}

func list[T any](ctx context.Context, c *Client, endpoint string) ([]T, error) {
	var page Page[T]
	if err := c.Get(ctx, endpoint, &page); err != nil {
		return nil, err
	}
	return page.All(), nil
}

func get[T any](ctx context.Context, c *Client, endpoint string) (*T, error) {
	var out T
	if err := c.Get(ctx, endpoint, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func send[T any](ctx context.Context, c *Client, method, endpoint string, body any) (*T, error) {
	var out T
	if err := c.do(ctx, method, endpoint, body, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func item(collection, id string) string {
	return collection + url.PathEscape(id)
}

// projects

func (c *Client) Projects(ctx context.Context) ([]models.Project, error) {
	return list[models.Project](ctx, c, "/projects/")
}

func (c *Client) Project(ctx context.Context, id string) (*models.Project, error) {
	return get[models.Project](ctx, c, item("/projects/", id))
}

func (c *Client) CreateProject(ctx context.Context, p models.ProjectPayload) (*models.Project, error) {
	return send[models.Project](ctx, c, http.MethodPost, "/projects/", p)
}

func (c *Client) UpdateProject(ctx context.Context, id string, p models.ProjectPayload) (*models.Project, error) {
	return send[models.Project](ctx, c, http.MethodPut, item("/projects/", id), p)
}

func (c *Client) SetProjectStatus(ctx context.Context, id string, status models.ProjectStatus) error {
	return c.Patch(ctx, item("/projects/", id), models.StatusPatch{Status: status}, nil)
}

func (c *Client) DeleteProject(ctx context.Context, id string) error {
	return c.Delete(ctx, item("/projects/", id), nil)
}

// employees

func (c *Client) Employees(ctx context.Context) ([]models.Employee, error) {
	return list[models.Employee](ctx, c, "/employees/")
}

func (c *Client) Employee(ctx context.Context, id string) (*models.Employee, error) {
	return get[models.Employee](ctx, c, item("/employees/", id))
}

func (c *Client) CreateEmployee(ctx context.Context, e models.EmployeePayload) (*models.Employee, error) {
	return send[models.Employee](ctx, c, http.MethodPost, "/employees/", e)
}

func (c *Client) UpdateEmployee(ctx context.Context, id string, e models.EmployeePayload) (*models.Employee, error) {
	return send[models.Employee](ctx, c, http.MethodPut, item("/employees/", id), e)
}

// SetEmployeeActive toggles the soft-delete flag.
func (c *Client) SetEmployeeActive(ctx context.Context, id string, active bool) error {
	action := "/deactivate"
	if active {
		action = "/activate"
	}
	return c.Patch(ctx, item("/employees/", id)+action, nil, nil)
}

func (c *Client) DeleteEmployee(ctx context.Context, id string) error {
	return c.Delete(ctx, item("/employees/", id), nil)
}

// packages

func (c *Client) Packages(ctx context.Context) ([]models.Package, error) {
	return list[models.Package](ctx, c, "/packages/")
}

func (c *Client) Package(ctx context.Context, id string) (*models.Package, error) {
	return get[models.Package](ctx, c, item("/packages/", id))
}

func (c *Client) CreatePackage(ctx context.Context, p models.PackagePayload) (*models.Package, error) {
	return send[models.Package](ctx, c, http.MethodPost, "/packages/", p)
}

func (c *Client) UpdatePackage(ctx context.Context, id string, p models.PackagePayload) (*models.Package, error) {
	return send[models.Package](ctx, c, http.MethodPut, item("/packages/", id), p)
}

func (c *Client) DeletePackage(ctx context.Context, id string) error {
	return c.Delete(ctx, item("/packages/", id), nil)
}

// partners

// Partners filters by search on the server.
func (c *Client) Partners(ctx context.Context, search string) ([]models.Partner, error) {
	return list[models.Partner](ctx, c, "/partners/"+Query(map[string]string{"search": search}))
}

func (c *Client) Partner(ctx context.Context, id string) (*models.Partner, error) {
	return get[models.Partner](ctx, c, item("/partners/", id))
}

func (c *Client) CreatePartner(ctx context.Context, p models.PartnerPayload) (*models.Partner, error) {
	return send[models.Partner](ctx, c, http.MethodPost, "/partners/", p)
}

func (c *Client) UpdatePartner(ctx context.Context, id string, p models.PartnerPayload) (*models.Partner, error) {
	return send[models.Partner](ctx, c, http.MethodPut, item("/partners/", id), p)
}

func (c *Client) DeletePartner(ctx context.Context, id string) error {
	return c.Delete(ctx, item("/partners/", id), nil)
}

// salaries

type SalaryQuery struct {
	Month  string
	Status string
}

func (c *Client) Salaries(ctx context.Context, q SalaryQuery) ([]models.SalaryPayment, error) {
	return list[models.SalaryPayment](ctx, c, "/salaries/"+Query(map[string]string{
		"month":  q.Month,
		"status": q.Status,
	}))
}

func (c *Client) CreateSalary(ctx context.Context, s models.SalaryPayload) (*models.SalaryPayment, error) {
	return send[models.SalaryPayment](ctx, c, http.MethodPost, "/salaries/", s)
}

func (c *Client) SetSalaryStatus(ctx context.Context, id string, patch models.SalaryStatusPatch) error {
	return c.Patch(ctx, item("/salaries/", id), patch, nil)
}

// finance

// Transactions is empty until the backend exposes a listing endpoint; only
// creation exists today.
func (c *Client) Transactions(ctx context.Context) ([]models.Transaction, error) {
	return []models.Transaction{}, ctx.Err()
}

func (c *Client) CreateTransaction(ctx context.Context, t models.TransactionPayload) (*models.Transaction, error) {
	return send[models.Transaction](ctx, c, http.MethodPost, "/finance/transactions/", t)
}
