package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/rcorp/claims-service/internal/config"
	"github.com/rcorp/claims-service/internal/events"
)

// WebhookService relays domain events to an external automation
// endpoint. Delivery is best effort: failures are logged, never
// propagated back into the emitting workflow.
type WebhookService struct {
	dispatcher events.Dispatcher
	client     *http.Client
	logger     *zap.Logger
	cfg        config.WebhookConfig
}

// NewWebhookService creates the service.
func NewWebhookService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.WebhookConfig) *WebhookService {
	return &WebhookService{
		dispatcher: dispatcher,
		client:     &http.Client{Timeout: cfg.Timeout()},
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to relayed event types.
func (w *WebhookService) RegisterHandlers() {
	if w.dispatcher == nil {
		return
	}
	w.dispatcher.Subscribe(events.EventTicketCreated, w.relay)
	w.dispatcher.Subscribe(events.EventTicketStatusChanged, w.relay)
}

func (w *WebhookService) relay(ctx context.Context, event events.Event) error {
	if strings.TrimSpace(w.cfg.URL) == "" {
		return nil
	}

	body, err := json.Marshal(event)
	if err != nil {
		w.logger.Error("webhook payload marshal failed", zap.Error(err))
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.cfg.URL, bytes.NewReader(body))
	if err != nil {
		w.logger.Error("webhook request build failed", zap.Error(err))
		return nil
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		w.logger.Warn("webhook delivery failed",
			zap.String("event_type", string(event.Type)),
			zap.String("ticket_id", event.TicketID),
			zap.Error(err))
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		w.logger.Warn("webhook delivery rejected",
			zap.String("event_type", string(event.Type)),
			zap.String("ticket_id", event.TicketID),
			zap.Error(fmt.Errorf("status %d", resp.StatusCode)))
	}
	return nil
}
