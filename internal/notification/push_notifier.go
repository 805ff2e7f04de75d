package notification

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jdragonx/sgcn-sgc-prototipo/internal/config"
	"github.com/jdragonx/sgcn-sgc-prototipo/internal/models"
)

// PushNotifier is the stub seam for a mobile push integration (FCM or similar).
type PushNotifier struct {
	enabled   bool
	projectID string
	topic     string
	logger    zerolog.Logger
}

func NewPushNotifier(cfg config.PushConfig, logger zerolog.Logger) *PushNotifier {
	enabled := cfg.Enabled && cfg.ProjectID != "" && cfg.Topic != ""
	return &PushNotifier{
		enabled:   enabled,
		projectID: cfg.ProjectID,
		topic:     cfg.Topic,
		logger:    logger.With().Str("notifier", "push").Logger(),
	}
}

func (n *PushNotifier) Deliver(_ context.Context, notif models.Notification) error {
	if !n.enabled {
		return fmt.Errorf("push channel is not configured")
	}
	n.logger.Info().
		Str("notification_id", notif.ID).
		Str("recipient_id", notif.RecipientID).
		Str("topic", n.topic).
		Msg("push notification dispatched (stub)")
	return nil
}

func (n *PushNotifier) String() string {
	if !n.enabled {
		return "PushNotifier(disabled)"
	}
	return fmt.Sprintf("PushNotifier(project=%s, topic=%s)", n.projectID, n.topic)
}
