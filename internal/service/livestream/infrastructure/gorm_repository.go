// internal/service/livestream/infrastructure/gorm_repository.go
package infrastructure

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"streamcart/internal/service/livestream/domain"
)

// GormStreamEventRepository 是 StreamEventRepository 的 GORM 实现。
type GormStreamEventRepository struct {
	db *gorm.DB
}

func NewGormStreamEventRepository(db *gorm.DB) *GormStreamEventRepository {
	return &GormStreamEventRepository{db: db}
}

// Save 追加一条审计记录。ID 与 CreatedAt 缺省时在这里补齐。
func (r *GormStreamEventRepository) Save(ctx context.Context, event *domain.StreamEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(toModel(event)).Error
}

// FindByLivestream 按时间倒序返回一场直播最近的审计记录。
func (r *GormStreamEventRepository) FindByLivestream(ctx context.Context, livestreamID string, limit int) ([]*domain.StreamEvent, error) {
	var models []StreamEventModel
	err := r.db.WithContext(ctx).
		Where("livestream_id = ?", livestreamID).
		Order("created_at DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	events := make([]*domain.StreamEvent, 0, len(models))
	for i := range models {
		events = append(events, toDomain(&models[i]))
	}
	return events, nil
}

// CreateStreamEvent 实现 port.StreamEventService：落库并返回事件 ID。
// 编排层依赖这个方法尽力而为的语义，失败时自己兜底占位 ID。
func (r *GormStreamEventRepository) CreateStreamEvent(ctx context.Context, event *domain.StreamEvent) (string, error) {
	if err := r.Save(ctx, event); err != nil {
		return "", err
	}
	return event.ID, nil
}
