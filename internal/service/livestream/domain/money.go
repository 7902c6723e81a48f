// internal/service/livestream/domain/money.go
package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatVND 将金额格式化为越南盾的展示形式，千位用逗号分隔。
// 200000 -> "200,000"。VND 没有辅币单位，小数部分直接截断。
func FormatVND(amount decimal.Decimal) string {
	digits := amount.Truncate(0).String()

	neg := strings.HasPrefix(digits, "-")
	if neg {
		digits = digits[1:]
	}

	var b strings.Builder
	pre := len(digits) % 3
	if pre > 0 {
		b.WriteString(digits[:pre])
	}
	for i := pre; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}

	out := b.String()
	if neg {
		out = "-" + out
	}
	return out
}
