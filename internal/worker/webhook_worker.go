package worker

import (
	"github.com/rcorp/claims-service/internal/service"
)

// StartWebhookRelay registers webhook delivery handlers.
func StartWebhookRelay(webhookService *service.WebhookService) {
	if webhookService == nil {
		return
	}
	webhookService.RegisterHandlers()
}
