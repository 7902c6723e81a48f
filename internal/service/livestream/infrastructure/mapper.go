// internal/service/livestream/infrastructure/mapper.go
package infrastructure

import "streamcart/internal/service/livestream/domain"

func toModel(event *domain.StreamEvent) *StreamEventModel {
	return &StreamEventModel{
		ID:                  event.ID,
		LivestreamID:        event.LivestreamID,
		UserID:              event.UserID,
		LivestreamProductID: event.LivestreamProductID,
		EventType:           event.EventType,
		Payload:             event.Payload,
		CreatedAt:           event.CreatedAt,
	}
}

func toDomain(model *StreamEventModel) *domain.StreamEvent {
	return &domain.StreamEvent{
		ID:                  model.ID,
		LivestreamID:        model.LivestreamID,
		UserID:              model.UserID,
		LivestreamProductID: model.LivestreamProductID,
		EventType:           model.EventType,
		Payload:             model.Payload,
		CreatedAt:           model.CreatedAt,
	}
}
