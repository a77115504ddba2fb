package handlers

import (
	"net/http"
	"net/url"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"

	"studio-dashboard/internal/forms"
	"studio-dashboard/internal/models"
)

type loginForm struct {
	Username string `form:"username" label:"Tên đăng nhập" binding:"required"`
	Password string `form:"password" label:"Mật khẩu" binding:"required"`
	Next     string `form:"next"`
}

type registerForm struct {
	Username        string `form:"username" label:"Tên đăng nhập" binding:"required,min=3,max=50"`
	Email           string `form:"email" label:"Email" binding:"required,email"`
	FullName        string `form:"full_name" label:"Họ và tên" binding:"required"`
	Password        string `form:"password" label:"Mật khẩu" binding:"required,min=6"`
	ConfirmPassword string `form:"confirm_password" label:"Xác nhận mật khẩu" binding:"required,eqfield=Password"`
	Role            string `form:"role" label:"Vai trò" binding:"required,oneof=employee sales manager admin"`
}

// safeNext only follows local paths. Browsers read a backslash as a slash and
// drop tabs and newlines, so "/\host" and "/\t/host" leave the site too.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.ContainsFunc(next, unicode.IsControl) {
		return "/"
	}
	if len(next) > 1 && (next[1] == '/' || next[1] == '\\') {
		return "/"
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" || u.Path == "/login" {
		return "/"
	}
	return next
}

func (h *Handler) ShowLogin(c *gin.Context) {
	if a := session(c); a != nil && a.IsAuthenticated {
		c.Redirect(http.StatusFound, "/")
		return
	}
	render(c, http.StatusOK, "login.html", gin.H{"error": "", "next": c.Query("next")})
}

func (h *Handler) Login(c *gin.Context) {
	var form loginForm
	if errs := forms.Bind(c, &form); errs != nil {
		renderForm(c, "login.html", gin.H{"form": form, "next": form.Next}, errs)
		return
	}

	a := session(c)
	if err := a.Login(c.Request.Context(), strings.TrimSpace(form.Username), form.Password); err != nil {
		h.Log.Info("login failed", "username", form.Username, "err", err)
		render(c, http.StatusUnauthorized, "login.html", gin.H{
			"error": a.Error,
			"form":  loginForm{Username: form.Username},
			"next":  form.Next,
		})
		return
	}

	h.Log.Info("login", "username", a.User.Username, "role", a.User.Role)
	flash(c, flashSuccess, "Đăng nhập thành công")
	c.Redirect(http.StatusFound, safeNext(form.Next))
}

func (h *Handler) ShowRegister(c *gin.Context) {
	render(c, http.StatusOK, "register.html", gin.H{
		"error": "",
		"roles": models.UserRoles,
		"form":  registerForm{Role: string(models.RoleEmployee)},
	})
}

func (h *Handler) Register(c *gin.Context) {
	var form registerForm
	data := gin.H{"roles": models.UserRoles}
	if errs := forms.Bind(c, &form); errs != nil {
		form.Password, form.ConfirmPassword = "", ""
		data["form"] = form
		renderForm(c, "register.html", data, errs)
		return
	}

	a := session(c)
	err := a.Register(c.Request.Context(), models.RegisterRequest{
		Username: strings.TrimSpace(form.Username),
		Email:    strings.TrimSpace(form.Email),
		Password: form.Password,
		FullName: strings.TrimSpace(form.FullName),
		Role:     models.UserRole(form.Role),
	})
	if err != nil {
		form.Password, form.ConfirmPassword = "", ""
		data["form"] = form
		data["error"] = a.Error
		render(c, http.StatusBadRequest, "register.html", data)
		return
	}

	flash(c, flashSuccess, "Đăng ký thành công")
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) Logout(c *gin.Context) {
	if err := session(c).Logout(); err != nil {
		h.Log.Error("logout", "err", err)
	}
	c.Redirect(http.StatusFound, "/login")
}
