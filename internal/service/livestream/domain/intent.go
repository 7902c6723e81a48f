// internal/service/livestream/domain/intent.go
package domain

import (
	"regexp"
	"strconv"
	"strings"
)

// OrderIntent 是对一条直播间聊天消息的解析结果。
// 每条消息解析出一个不可变的 OrderIntent，编排结束后即丢弃。
type OrderIntent struct {
	IsOrderIntent   bool
	SKU             string // 已归一化：大写、去空白
	Quantity        int    // 恒 >= 1
	OriginalMessage string
}

// 购买口令的四种形式，按优先级从高到低依次尝试，命中即返回。
//
// SKU 的歧义策略：形如 "ABC123" 的尾随数字一律视为 SKU 的一部分；
// 只有当数字之前出现显式分隔符 x 或 * 时（"ABC x2"、"LTBX*2"、"ABCx2"），
// 才解释为数量。因此 SKU 捕获组用非贪婪匹配，让分隔符优先成立。
var (
	// 形式 1: đặt/order <SKU> [x<qty>]
	reVerbSKU = regexp.MustCompile(`(?i)^\s*(?:đặt|order)\s+([A-Za-z][A-Za-z0-9]*?)(?:\s*[x*]\s*(\d+))?\s*$`)
	// 形式 2: mua [<qty>] <任意修饰语> <SKU>
	reMuaSKU = regexp.MustCompile(`(?i)^\s*mua\s+(?:(\d+)\s+)?(?:.*\s)?([A-Za-z][A-Za-z0-9]*)\s*$`)
	// 形式 3: <SKU>[x|*]<qty>
	reSKUQty = regexp.MustCompile(`(?i)^\s*([A-Za-z][A-Za-z0-9]*?)\s*[x*]\s*(\d+)\s*$`)
	// 形式 4: sku: <SKU> [<qty>]
	reLabelSKU = regexp.MustCompile(`(?i)^\s*sku\s*:\s*([A-Za-z][A-Za-z0-9]*)(?:\s+(\d+))?\s*$`)
)

// ParseOrderIntent 判断一条聊天消息是否表达购买意图，并提取 SKU 和数量。
// 纯函数：不访问网络，不产生副作用，同样输入永远得到同样输出。
func ParseOrderIntent(message string) OrderIntent {
	intent := OrderIntent{
		IsOrderIntent:   false,
		Quantity:        1,
		OriginalMessage: message,
	}

	if m := reVerbSKU.FindStringSubmatch(message); m != nil {
		intent.IsOrderIntent = true
		intent.SKU = normalizeSKU(m[1])
		intent.Quantity = parseQuantity(m[2])
		return intent
	}
	if m := reMuaSKU.FindStringSubmatch(message); m != nil {
		intent.IsOrderIntent = true
		intent.SKU = normalizeSKU(m[2])
		intent.Quantity = parseQuantity(m[1])
		return intent
	}
	if m := reSKUQty.FindStringSubmatch(message); m != nil {
		intent.IsOrderIntent = true
		intent.SKU = normalizeSKU(m[1])
		intent.Quantity = parseQuantity(m[2])
		return intent
	}
	if m := reLabelSKU.FindStringSubmatch(message); m != nil {
		intent.IsOrderIntent = true
		intent.SKU = normalizeSKU(m[1])
		intent.Quantity = parseQuantity(m[2])
		return intent
	}
	return intent
}

func normalizeSKU(raw string) string {
	sku := strings.ToUpper(strings.TrimSpace(raw))
	// 去掉残留的尾部分隔符
	return strings.TrimRight(sku, "*-:")
}

// parseQuantity 将捕获组解析为数量。空串、非数字或小于 1 的值一律回落为 1。
func parseQuantity(raw string) int {
	if raw == "" {
		return 1
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}
