// internal/service/livestream/application/dto.go
package application

// ChatMessageRequest 是口令下单用例的输入数据。
type ChatMessageRequest struct {
	LivestreamID string `json:"livestreamId"`
	UserID       string `json:"userId"`
	Message      string `json:"message"`
}
