// internal/service/livestream/domain/port/dedupe.go
package port

import "context"

// MessageDeduper 为重复投递的口令消息提供尽力而为的幂等防护。
// 源流程没有幂等键：同一条消息重放会二次下单并二次扣库存，
// 这里加的是一层建议性的防护，不是恰好一次语义。
type MessageDeduper interface {
	// FirstSeen 返回 true 表示该消息在去重窗口内第一次出现。
	FirstSeen(ctx context.Context, livestreamID, userID, message string) (bool, error)
}
