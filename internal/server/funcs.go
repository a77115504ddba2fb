package server

import (
	"html/template"
	"slices"
	"strings"
	"time"

	"studio-dashboard/internal/calendar"
	"studio-dashboard/internal/models"
	"studio-dashboard/internal/pricing"
)

func maskEmail(email string) string {
	runes := []rune(email)
	atIdx := -1
	for i, r := range runes {
		if r == '@' {
			atIdx = i
			break
		}
	}
	if atIdx <= 0 {
		return "***"
	}
	prefix := string(runes[:atIdx])
	domain := string(runes[atIdx:])
	if len([]rune(prefix)) <= 2 {
		return prefix + "***" + domain
	}
	return string(runes[0:2]) + "***" + domain
}

// maskPhone keeps the last three digits.
func maskPhone(phone string) string {
	runes := []rune(phone)
	n := len(runes)
	if n <= 4 {
		return "***"
	}
	masked := make([]rune, n)
	for i := range runes {
		if i >= n-3 || runes[i] == ' ' {
			masked[i] = runes[i]
		} else {
			masked[i] = '*'
		}
	}
	return string(masked)
}

// displayDate turns "2024-05-10" or an RFC 3339 timestamp into 10/05/2024.
func displayDate(s string) string {
	if len(s) >= 10 {
		if t, err := time.Parse("2006-01-02", s[:10]); err == nil {
			return t.Format("02/01/2006")
		}
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"maskEmail":   maskEmail,
		"maskPhone":   maskPhone,
		"vnd":         pricing.FormatVND,
		"num":         pricing.GroupThousands,
		"percent":     pricing.FormatPercent,
		"ratio":       func(r float64) string { return pricing.FormatPercent(r * 100) },
		"date":        displayDate,
		"deref":       deref,
		"statusColor": calendar.StatusColor,
		"has":         func(list []string, v string) bool { return slices.Contains(list, v) },
		"join":        strings.Join,
		"add":         func(a, b int) int { return a + b },
		"optionLabel": models.OptionLabel,
		"categoryLabel": func(t models.TransactionType, v string) string {
			return models.OptionLabel(models.CategoriesFor(t), v)
		},
		"methodLabel": func(v string) string { return models.OptionLabel(models.PaymentMethods, v) },
		"clock":       func(t time.Time) string { return t.Format("15:04") },
		"monthLabel":  func(t time.Time) string { return "Tháng " + t.Format("01/2006") },
		"monthParam":  func(t time.Time) string { return t.Format("2006-01") },
		"dayParam":    func(t time.Time) string { return t.Format("2006-01-02") },
		"stamp":       func(t time.Time) string { return t.Format("02/01/2006 15:04") },
	}
}
