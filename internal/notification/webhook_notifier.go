package notification

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jdragonx/sgcn-sgc-prototipo/internal/config"
	"github.com/jdragonx/sgcn-sgc-prototipo/internal/models"
)

// WebhookNotifier is the stub seam for an outbound HTTP callback integration.
type WebhookNotifier struct {
	enabled  bool
	endpoint string
	logger   zerolog.Logger
}

func NewWebhookNotifier(cfg config.WebhookConfig, logger zerolog.Logger) *WebhookNotifier {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	return &WebhookNotifier{
		enabled:  endpoint != "",
		endpoint: endpoint,
		logger:   logger.With().Str("notifier", "webhook").Logger(),
	}
}

func (n *WebhookNotifier) Deliver(_ context.Context, notif models.Notification) error {
	if !n.enabled {
		return fmt.Errorf("webhook channel is not configured")
	}
	n.logger.Info().
		Str("notification_id", notif.ID).
		Str("endpoint", n.endpoint).
		Msg("webhook notification dispatched (stub)")
	return nil
}

func (n *WebhookNotifier) String() string {
	if !n.enabled {
		return "WebhookNotifier(disabled)"
	}
	return fmt.Sprintf("WebhookNotifier(endpoint=%s)", n.endpoint)
}
