// internal/service/livestream/infrastructure/gorm_model.go
package infrastructure

import "time"

// StreamEventModel 是审计记录的数据库模型。
// 追加写入，不更新不删除，因此没有 UpdatedAt / DeletedAt。
type StreamEventModel struct {
	ID                  string    `gorm:"primaryKey;size:36"`
	LivestreamID        string    `gorm:"size:36;index:idx_stream_events_livestream"`
	UserID              string    `gorm:"size:36;index"`
	LivestreamProductID string    `gorm:"size:36"`
	EventType           string    `gorm:"size:32"`
	Payload             string    `gorm:"type:text"`
	CreatedAt           time.Time `gorm:"index:idx_stream_events_livestream"`
}

func (StreamEventModel) TableName() string {
	return "stream_events"
}
