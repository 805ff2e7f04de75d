package notification

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jdragonx/sgcn-sgc-prototipo/internal/config"
	"github.com/jdragonx/sgcn-sgc-prototipo/internal/models"
)

// SMSNotifier is the stub seam for an SMS gateway integration.
type SMSNotifier struct {
	enabled  bool
	provider string
	senderID string
	logger   zerolog.Logger
}

func NewSMSNotifier(cfg config.SMSConfig, logger zerolog.Logger) *SMSNotifier {
	return &SMSNotifier{
		enabled:  cfg.Enabled && cfg.Provider != "",
		provider: cfg.Provider,
		senderID: cfg.SenderID,
		logger:   logger.With().Str("notifier", "sms").Logger(),
	}
}

func (n *SMSNotifier) Deliver(_ context.Context, notif models.Notification) error {
	if !n.enabled {
		return fmt.Errorf("sms channel is not configured")
	}
	n.logger.Info().
		Str("notification_id", notif.ID).
		Str("recipient_id", notif.RecipientID).
		Str("provider", n.provider).
		Msg("sms notification dispatched (stub)")
	return nil
}

func (n *SMSNotifier) String() string {
	if !n.enabled {
		return "SMSNotifier(disabled)"
	}
	return fmt.Sprintf("SMSNotifier(provider=%s)", n.provider)
}
