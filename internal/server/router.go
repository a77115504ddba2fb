package server

import (
	"html/template"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"studio-dashboard/internal/apiclient"
	"studio-dashboard/internal/calendar"
	"studio-dashboard/internal/config"
	"studio-dashboard/internal/database"
	"studio-dashboard/internal/forms"
	"studio-dashboard/internal/handlers"
	"studio-dashboard/internal/listing"
	"studio-dashboard/internal/middleware"
	"studio-dashboard/internal/models"
	"studio-dashboard/web"
)

type Deps struct {
	Config   *config.Config
	API      *apiclient.Client
	Journal  database.Journal
	Log      *slog.Logger
	Registry *prometheus.Registry
}

func NewRouter(d Deps) (*gin.Engine, error) {
	cfg := d.Config
	if d.Journal == nil {
		d.Journal = database.NopJournal{}
	}
	forms.Setup()

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(d.Log))

	tmpl, err := template.New("").Funcs(templateFuncs()).ParseFS(web.Templates, "templates/*.html")
	if err != nil {
		return nil, err
	}
	r.SetHTMLTemplate(tmpl)
	r.StaticFS("/static", web.Static())

	store, err := newSessionStore(cfg)
	if err != nil {
		return nil, err
	}
	r.Use(sessions.Sessions(sessionName, store))

	r.GET("/health", handlers.Health)
	if d.Registry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{})))
	}

	cal := calendar.DefaultOptions()
	cal.Location = cfg.Timezone
	h := &handlers.Handler{
		Rates:      cfg.Pricing,
		Calendar:   cal,
		Journal:    d.Journal,
		Guard:      listing.NewGuard(),
		Log:        d.Log,
		DebugTools: cfg.DebugTools,
	}

	app := r.Group("/")
	app.Use(middleware.InjectUser(d.API, d.Log))

	// AUTH
	app.GET("/login", h.ShowLogin)
	app.POST("/login", h.Login)
	app.GET("/register", h.ShowRegister)
	app.POST("/register", h.Register)
	app.GET("/logout", h.Logout)
	app.POST("/logout", h.Logout)

	auth := app.Group("/")
	auth.Use(middleware.RequireAuth())

	managers := middleware.RequireRole(models.RoleAdmin, models.RoleManager)
	sellers := middleware.RequireRole(models.RoleAdmin, models.RoleManager, models.RoleSales)
	admins := middleware.RequireRole(models.RoleAdmin)

	auth.GET("/", h.Dashboard)

	// PROJECTS
	auth.GET("/projects", h.ListProjects)
	auth.GET("/projects/new", sellers, h.ShowNewProject)
	auth.POST("/projects/new", sellers, h.CreateProject)
	auth.GET("/projects/:id", h.ShowProject)
	auth.GET("/projects/:id/edit", sellers, h.ShowEditProject)
	auth.POST("/projects/:id/edit", sellers, h.UpdateProject)
	auth.POST("/projects/:id/confirm", managers, h.ConfirmProject)
	auth.POST("/projects/:id/delete", admins, h.DeleteProject)

	// EMPLOYEES
	auth.GET("/employees", h.ListEmployees)
	auth.GET("/employees/new", managers, h.ShowNewEmployee)
	auth.POST("/employees/new", managers, h.CreateEmployee)
	auth.GET("/employees/:id", h.ShowEmployee)
	auth.GET("/employees/:id/edit", managers, h.ShowEditEmployee)
	auth.POST("/employees/:id/edit", managers, h.UpdateEmployee)
	auth.POST("/employees/:id/activate", managers, h.ActivateEmployee)
	auth.POST("/employees/:id/deactivate", managers, h.DeactivateEmployee)
	auth.POST("/employees/:id/delete", admins, h.DeleteEmployee)

	// PACKAGES
	auth.GET("/packages", h.ListPackages)
	auth.GET("/packages/new", managers, h.ShowNewPackage)
	auth.POST("/packages/new", managers, h.CreatePackage)
	auth.GET("/packages/:id", h.ShowPackage)
	auth.GET("/packages/:id/edit", managers, h.ShowEditPackage)
	auth.POST("/packages/:id/edit", managers, h.UpdatePackage)
	auth.POST("/packages/:id/delete", admins, h.DeletePackage)

	// PARTNERS
	auth.GET("/partners", h.ListPartners)
	auth.GET("/partners/new", managers, h.ShowNewPartner)
	auth.POST("/partners/new", managers, h.CreatePartner)
	auth.GET("/partners/:id", h.ShowPartner)
	auth.GET("/partners/:id/edit", managers, h.ShowEditPartner)
	auth.POST("/partners/:id/edit", managers, h.UpdatePartner)
	auth.POST("/partners/:id/delete", admins, h.DeletePartner)

	// SALARIES
	auth.GET("/salaries", managers, h.ListSalaries)
	auth.GET("/salaries/export", managers, h.ExportSalaries)
	auth.GET("/salaries/new", managers, h.ShowNewSalary)
	auth.POST("/salaries/new", managers, h.CreateSalary)
	auth.POST("/salaries/:id/pay", managers, h.PaySalary)
	auth.POST("/salaries/:id/cancel", managers, h.CancelSalary)

	// FINANCE
	auth.GET("/finance", managers, h.ListTransactions)
	auth.GET("/finance/export", managers, h.ExportTransactions)
	auth.GET("/finance/new", managers, h.ShowNewTransaction)
	auth.POST("/finance/new", managers, h.CreateTransaction)

	// CALENDAR
	auth.GET("/calendar", h.CalendarPage)
	auth.GET("/calendar/events", h.CalendarEvents)

	// ACTIVITY LOG
	auth.GET("/audit", admins, h.ListActivity)

	if cfg.DebugTools {
		auth.GET("/debug/token", h.TokenDebug)
		auth.POST("/debug/token/clear", h.ClearTokens)
	}

	r.NoRoute(func(c *gin.Context) {
		c.HTML(http.StatusNotFound, "error.html", gin.H{
			"status":  http.StatusNotFound,
			"message": "Không tìm thấy trang",
		})
	})

	return r, nil
}
