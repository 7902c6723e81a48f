// internal/service/livestream/domain/event.go
package domain

import "time"

// 直播间事件类型。目前只有下单口令一种，审计维度上预留扩展空间。
const (
	EventTypeOrderComment = "ORDER_COMMENT"
)

// StreamEvent 是一条把聊天消息与商业动作关联起来的审计记录。
// 每处理一条口令消息写入一次，之后不再变更、不删除。
type StreamEvent struct {
	ID                  string    `json:"id"`
	LivestreamID        string    `json:"livestreamId"`
	UserID              string    `json:"userId"`
	LivestreamProductID string    `json:"livestreamProductId"`
	EventType           string    `json:"eventType"`
	Payload             string    `json:"payload"` // 原始聊天消息
	CreatedAt           time.Time `json:"createdAt"`
}

// PaymentTimeoutCheckEvent 是支付超时检查任务的载体。
// 下单成功后写入延迟队列，到期后由消费端驱动支付状态检查。
type PaymentTimeoutCheckEvent struct {
	TraceID      string    `json:"traceId"`
	OrderID      string    `json:"orderId"`
	LivestreamID string    `json:"livestreamId"`
	UserID       string    `json:"userId"`
	SKU          string    `json:"sku"`
	Quantity     int       `json:"quantity"`
	CreationTime time.Time `json:"creationTime"`
}

// NotificationEvent 投递到通知主题，由外部推送层负责触达用户。
type NotificationEvent struct {
	LivestreamID string `json:"livestreamId"`
	UserID       string `json:"userId"`
	OrderID      string `json:"orderId,omitempty"`
	Message      string `json:"message"`
}
