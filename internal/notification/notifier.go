package notification

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jdragonx/sgcn-sgc-prototipo/internal/config"
	"github.com/jdragonx/sgcn-sgc-prototipo/internal/models"
)

// Notifier attempts delivery of one notification record through a single
// channel. Implementations must be safe for concurrent use.
type Notifier interface {
	Deliver(ctx context.Context, notif models.Notification) error
}

// Registry maps a record's channel to the Notifier responsible for it. It is
// passed into the dispatch service explicitly so tests can swap in doubles
// per channel.
type Registry struct {
	notifiers map[models.NotificationChannel]Notifier
}

func NewRegistry() *Registry {
	return &Registry{notifiers: make(map[models.NotificationChannel]Notifier)}
}

func (r *Registry) Register(channel models.NotificationChannel, notifier Notifier) *Registry {
	if notifier != nil {
		r.notifiers[channel] = notifier
	}
	return r
}

func (r *Registry) Lookup(channel models.NotificationChannel) (Notifier, bool) {
	notifier, ok := r.notifiers[channel]
	return notifier, ok
}

// DefaultRegistry wires the stub notifier for every channel.
func DefaultRegistry(cfg config.ChannelsConfig, logger zerolog.Logger) *Registry {
	return NewRegistry().
		Register(models.ChannelDashboard, NewDashboardNotifier(logger)).
		Register(models.ChannelEmail, NewEmailNotifier(cfg.Email, logger)).
		Register(models.ChannelSMS, NewSMSNotifier(cfg.SMS, logger)).
		Register(models.ChannelPush, NewPushNotifier(cfg.Push, logger)).
		Register(models.ChannelWebhook, NewWebhookNotifier(cfg.Webhook, logger))
}

// notifierName resolves a human-readable name for log lines.
func notifierName(n Notifier) string {
	type named interface {
		String() string
	}
	if v, ok := n.(named); ok {
		return v.String()
	}
	return "notifier"
}

// syncDelivery is implemented by notifiers whose delivery completes within
// Deliver itself, letting the service collapse sent and delivered.
type syncDelivery interface {
	DeliversSynchronously() bool
}

func deliversSynchronously(n Notifier) bool {
	if v, ok := n.(syncDelivery); ok {
		return v.DeliversSynchronously()
	}
	return false
}
