// internal/service/livestream/domain/repository.go
package domain

import "context"

// StreamEventRepository 定义了直播事件审计记录的持久化接口。
// 位于领域层，由基础设施层实现。
type StreamEventRepository interface {
	// Save 追加一条审计记录，写入后返回的 event.ID 已填充。
	Save(ctx context.Context, event *StreamEvent) error

	// FindByLivestream 按直播间查询审计记录，用于回放与排障。
	FindByLivestream(ctx context.Context, livestreamID string, limit int) ([]*StreamEvent, error)
}
