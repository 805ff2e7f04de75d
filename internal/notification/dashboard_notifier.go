package notification

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jdragonx/sgcn-sgc-prototipo/internal/models"
)

// DashboardNotifier handles the in-process dashboard channel. The record is
// already persisted when Deliver runs, which is all the dashboard needs, so
// delivery is synchronous with the send.
type DashboardNotifier struct {
	logger zerolog.Logger
}

func NewDashboardNotifier(logger zerolog.Logger) *DashboardNotifier {
	return &DashboardNotifier{
		logger: logger.With().Str("notifier", "dashboard").Logger(),
	}
}

func (n *DashboardNotifier) Deliver(_ context.Context, notif models.Notification) error {
	n.logger.Debug().
		Str("notification_id", notif.ID).
		Str("recipient_id", notif.RecipientID).
		Str("kind", string(notif.Kind)).
		Msg("dashboard notification available")
	return nil
}

func (n *DashboardNotifier) DeliversSynchronously() bool {
	return true
}

func (n *DashboardNotifier) String() string {
	return "DashboardNotifier"
}
