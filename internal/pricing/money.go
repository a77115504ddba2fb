package pricing

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatVND renders an amount the vi-VN way: 18.000.000 VNĐ.
func FormatVND(amount int64) string {
	return GroupThousands(amount) + " VNĐ"
}

func GroupThousands(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	s := strconv.FormatInt(amount, 10)
	var b strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
	}
	for i := pre; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s[i : i+3])
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// FormatPercent renders a margin with one decimal.
func FormatPercent(p float64) string {
	return strings.Replace(fmt.Sprintf("%.1f%%", p), ".", ",", 1)
}
