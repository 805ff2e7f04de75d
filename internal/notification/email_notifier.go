package notification

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jdragonx/sgcn-sgc-prototipo/internal/config"
	"github.com/jdragonx/sgcn-sgc-prototipo/internal/models"
)

// EmailNotifier is the stub seam for a future SMTP integration. It validates
// its configuration like a real transport would but only logs the delivery.
type EmailNotifier struct {
	enabled bool
	host    string
	port    int
	from    string
	logger  zerolog.Logger
}

func NewEmailNotifier(cfg config.EmailConfig, logger zerolog.Logger) *EmailNotifier {
	host := strings.TrimSpace(cfg.SMTPHost)
	from := strings.TrimSpace(cfg.From)
	port := cfg.SMTPPort
	if port == 0 {
		port = 587
	}
	return &EmailNotifier{
		enabled: host != "" && from != "",
		host:    host,
		port:    port,
		from:    from,
		logger:  logger.With().Str("notifier", "email").Logger(),
	}
}

func (n *EmailNotifier) Deliver(_ context.Context, notif models.Notification) error {
	if !n.enabled {
		return fmt.Errorf("email channel is not configured")
	}
	n.logger.Info().
		Str("notification_id", notif.ID).
		Str("recipient_id", notif.RecipientID).
		Str("smtp", fmt.Sprintf("%s:%d", n.host, n.port)).
		Msg("email notification dispatched (stub)")
	return nil
}

func (n *EmailNotifier) String() string {
	if !n.enabled {
		return "EmailNotifier(disabled)"
	}
	return fmt.Sprintf("EmailNotifier(host=%s, from=%s)", n.host, n.from)
}
