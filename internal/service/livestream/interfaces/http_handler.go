// internal/service/livestream/interfaces/http_handler.go
package interfaces

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"

	"streamcart/internal/pkg/logger"
	"streamcart/internal/service/livestream/application"
	"streamcart/internal/service/livestream/domain"
)

const serviceName = "livestream-service"

const (
	defaultEventsLimit = 50
	maxEventsLimit     = 200
)

// IntakeHandler 封装了口令下单流程的 HTTP 处理器。
type IntakeHandler struct {
	service *application.OrderIntakeService
	events  domain.StreamEventRepository
}

func NewIntakeHandler(service *application.OrderIntakeService, events domain.StreamEventRepository) *IntakeHandler {
	return &IntakeHandler{service: service, events: events}
}

// RegisterRoutes 在 ServeMux 上注册所有路由。
func (h *IntakeHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/livestreams/messages", h.handleChatMessage)
	mux.HandleFunc("/livestreams/events", h.handleListEvents)
}

// handleListEvents 按直播间返回最近的审计记录，用于回放与排障。
func (h *IntakeHandler) handleListEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	livestreamID := r.URL.Query().Get("livestreamId")
	if livestreamID == "" {
		http.Error(w, "livestreamId is required", http.StatusBadRequest)
		return
	}

	limit := defaultEventsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}
	if limit > maxEventsLimit {
		limit = maxEventsLimit
	}

	events, err := h.events.FindByLivestream(r.Context(), livestreamID, limit)
	if err != nil {
		logger.Ctx(r.Context()).Error().Err(err).
			Str("livestream_id", livestreamID).
			Msg("failed to list stream events")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(events)
}

// handleChatMessage 接收一条观众聊天消息并尝试口令下单。
// 无论成败都返回 200 + 结构化结果，失败文案面向观众展示。
func (h *IntakeHandler) handleChatMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	propagator := otel.GetTextMapPropagator()
	ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	tracer := otel.Tracer(serviceName)
	ctx, span := tracer.Start(ctx, "api.ChatMessage")
	defer span.End()

	var req application.ChatMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.LivestreamID == "" || req.UserID == "" {
		http.Error(w, "livestreamId and userId are required", http.StatusBadRequest)
		return
	}

	span.SetAttributes(
		attribute.String("livestream.id", req.LivestreamID),
		attribute.String("user.id", req.UserID),
	)

	result := h.service.HandleChatMessage(ctx, &req)

	outcome := "rejected"
	if result.Success {
		outcome = "placed"
	}
	intakeMessagesTotal.WithLabelValues(outcome).Inc()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
