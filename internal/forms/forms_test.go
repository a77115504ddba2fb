package forms

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Username string `form:"username" label:"Tên đăng nhập" binding:"required,min=3"`
	Email    string `form:"email" label:"Email" binding:"required,email"`
	Password string `form:"password" label:"Mật khẩu" binding:"required,min=6"`
	Confirm  string `form:"confirm" label:"Xác nhận mật khẩu" binding:"eqfield=Password"`
	Month    string `form:"month" binding:"month"`
	Salary   int64  `form:"salary" label:"Lương" binding:"min=0"`
}

func bind(t *testing.T, values url.Values, dst any) Errors {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c.Request = req
	return Bind(c, dst)
}

func TestBindValid(t *testing.T) {
	var f signup
	errs := bind(t, url.Values{
		"username": {"lan"},
		"email":    {"lan@studio.vn"},
		"password": {"secret1"},
		"confirm":  {"secret1"},
		"month":    {"2024-05"},
		"salary":   {"8000000"},
	}, &f)

	assert.Nil(t, errs)
	assert.Equal(t, int64(8_000_000), f.Salary)
}

func TestBindMessages(t *testing.T) {
	var f signup
	errs := bind(t, url.Values{
		"username": {"la"},
		"email":    {"not-mail"},
		"password": {"123"},
		"confirm":  {"456"},
		"month":    {"2024-13"},
		"salary":   {"-1"},
	}, &f)

	require.Len(t, errs, 6)
	assert.Equal(t, "Tên đăng nhập phải có ít nhất 3 ký tự", errs.First())
	assert.Contains(t, errs.Error(), "Email không hợp lệ")
	assert.Contains(t, errs.Error(), "Mật khẩu phải có ít nhất 6 ký tự")
	assert.Contains(t, errs.Error(), "Xác nhận mật khẩu không khớp")
	assert.Contains(t, errs.Error(), "month không đúng định dạng")
	assert.Contains(t, errs.Error(), "Lương không được nhỏ hơn 0")
	assert.Equal(t, "Username", errs[0].Field)
}

func TestBindParseError(t *testing.T) {
	var f signup
	errs := bind(t, url.Values{"salary": {"abc"}}, &f)
	assert.Equal(t, "Dữ liệu không hợp lệ", errs.First())
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, []string{"Makeup", "Làm tóc"}, SplitList(" Makeup, ,Làm tóc\n"))
	assert.Empty(t, SplitList(""))
	assert.Nil(t, Optional("  "))
	assert.Equal(t, "x", *Optional(" x "))

	var e Errors
	e.Add("Team", "Vui lòng chọn thợ chụp chính")
	assert.Equal(t, "Vui lòng chọn thợ chụp chính", e.First())
}
