package notification

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/jdragonx/sgcn-sgc-prototipo/internal/metrics"
	"github.com/jdragonx/sgcn-sgc-prototipo/internal/models"
	"github.com/jdragonx/sgcn-sgc-prototipo/internal/repository"
)

var (
	// ErrNotFound covers absent records and records owned by another user;
	// the two cases are deliberately indistinguishable to callers.
	ErrNotFound = errors.New("notification not found")
	// ErrValidation marks a malformed create request.
	ErrValidation = errors.New("invalid notification")
)

// CreateParams carries everything needed to create one notification record.
type CreateParams struct {
	Title       string
	Message     string
	Kind        models.NotificationKind
	Channel     models.NotificationChannel
	RecipientID string
	CreatedBy   string
	Priority    int
	Metadata    map[string]interface{}
	ScheduledAt *time.Time
}

// Service orchestrates the lifecycle of notification records: creation,
// immediate and scheduled dispatch, read tracking and retention cleanup.
type Service interface {
	Create(ctx context.Context, params CreateParams) (models.Notification, error)
	Send(ctx context.Context, id string) error
	CreateAndSend(ctx context.Context, params CreateParams) (models.Notification, error)
	ListForRecipient(ctx context.Context, recipientID string, limit int, unreadOnly bool) ([]models.Notification, error)
	MarkRead(ctx context.Context, id, recipientID string) (models.Notification, error)
	MarkAllRead(ctx context.Context, recipientID string) (int64, error)
	Stats(ctx context.Context, recipientID string) (models.NotificationStats, error)
	Delete(ctx context.Context, id, recipientID string) error
	ProcessScheduled(ctx context.Context) error
	Cleanup(ctx context.Context, retention time.Duration) (int64, error)
}

type service struct {
	repo            repository.NotificationRepository
	registry        *Registry
	logger          zerolog.Logger
	dispatchTimeout time.Duration
}

func NewService(repo repository.NotificationRepository, registry *Registry, dispatchTimeout time.Duration, logger zerolog.Logger) Service {
	if dispatchTimeout <= 0 {
		dispatchTimeout = 5 * time.Second
	}
	return &service{
		repo:            repo,
		registry:        registry,
		logger:          logger.With().Str("component", "notification_service").Logger(),
		dispatchTimeout: dispatchTimeout,
	}
}

func (s *service) Create(ctx context.Context, params CreateParams) (models.Notification, error) {
	params.Title = strings.TrimSpace(params.Title)
	params.Message = strings.TrimSpace(params.Message)

	if params.Title == "" {
		return models.Notification{}, errors.Wrap(ErrValidation, "title is required")
	}
	if strings.TrimSpace(params.RecipientID) == "" {
		return models.Notification{}, errors.Wrap(ErrValidation, "recipient is required")
	}
	if !models.IsValidKind(params.Kind) {
		return models.Notification{}, errors.Wrapf(ErrValidation, "unknown kind %q", params.Kind)
	}
	if !models.IsValidChannel(params.Channel) {
		return models.Notification{}, errors.Wrapf(ErrValidation, "unknown channel %q", params.Channel)
	}
	if params.Priority == 0 {
		params.Priority = models.PriorityMin
	}
	if !models.IsValidPriority(params.Priority) {
		return models.Notification{}, errors.Wrapf(ErrValidation, "priority %d out of range [%d,%d]",
			params.Priority, models.PriorityMin, models.PriorityMax)
	}

	notif, err := s.repo.Create(ctx, repository.CreateNotificationParams{
		Title:       params.Title,
		Message:     params.Message,
		Kind:        params.Kind,
		Channel:     params.Channel,
		Priority:    params.Priority,
		Metadata:    params.Metadata,
		RecipientID: strings.TrimSpace(params.RecipientID),
		CreatedBy:   params.CreatedBy,
		ScheduledAt: params.ScheduledAt,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("recipient_id", params.RecipientID).Msg("failed to persist notification")
		return models.Notification{}, err
	}

	metrics.NotificationsCreated.WithLabelValues(string(notif.Kind), string(notif.Channel)).Inc()
	return notif, nil
}

// Send dispatches a pending record through its channel. Delivery errors are
// absorbed here: the record moves to failed and the error is logged, never
// returned. Only an unknown id surfaces as ErrNotFound.
func (s *service) Send(ctx context.Context, id string) error {
	notif, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	if notif.Status != models.StatusPending {
		// Already dispatched, failed or read; nothing to do.
		return nil
	}

	notifier, ok := s.registry.Lookup(notif.Channel)
	if !ok {
		s.logger.Warn().
			Str("notification_id", notif.ID).
			Str("channel", string(notif.Channel)).
			Msg("no notifier registered for channel")
		return s.fail(ctx, notif)
	}

	deliverCtx, cancel := context.WithTimeout(ctx, s.dispatchTimeout)
	defer cancel()

	if err := notifier.Deliver(deliverCtx, notif); err != nil {
		s.logger.Warn().
			Err(err).
			Str("notification_id", notif.ID).
			Str("channel", string(notif.Channel)).
			Str("notifier", notifierName(notifier)).
			Msg("failed to deliver notification")
		return s.fail(ctx, notif)
	}

	delivered := deliversSynchronously(notifier)
	if _, err := s.repo.MarkSent(ctx, notif.ID, delivered); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Lost the race against a concurrent transition; the other
			// writer's outcome stands.
			return nil
		}
		return errors.Wrap(err, "mark notification sent")
	}

	metrics.NotificationsSent.WithLabelValues(string(notif.Channel)).Inc()
	s.logger.Info().
		Str("notification_id", notif.ID).
		Str("channel", string(notif.Channel)).
		Bool("delivered", delivered).
		Msg("notification sent")
	return nil
}

func (s *service) fail(ctx context.Context, notif models.Notification) error {
	metrics.NotificationsFailed.WithLabelValues(string(notif.Channel)).Inc()
	if err := s.repo.MarkFailed(ctx, notif.ID); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return errors.Wrap(err, "mark notification failed")
	}
	return nil
}

// CreateAndSend is the immediate-send path used by fan-out and the test
// endpoint; records carrying a schedule stay pending for the sweep.
func (s *service) CreateAndSend(ctx context.Context, params CreateParams) (models.Notification, error) {
	notif, err := s.Create(ctx, params)
	if err != nil {
		return models.Notification{}, err
	}
	if notif.ScheduledAt != nil {
		return notif, nil
	}
	if err := s.Send(ctx, notif.ID); err != nil {
		return notif, err
	}
	return s.repo.GetByID(ctx, notif.ID)
}

func (s *service) ListForRecipient(ctx context.Context, recipientID string, limit int, unreadOnly bool) ([]models.Notification, error) {
	return s.repo.ListForRecipient(ctx, recipientID, limit, unreadOnly)
}

func (s *service) MarkRead(ctx context.Context, id, recipientID string) (models.Notification, error) {
	notif, err := s.repo.MarkRead(ctx, id, recipientID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Notification{}, ErrNotFound
		}
		return models.Notification{}, err
	}
	return notif, nil
}

func (s *service) MarkAllRead(ctx context.Context, recipientID string) (int64, error) {
	return s.repo.MarkAllRead(ctx, recipientID)
}

func (s *service) Stats(ctx context.Context, recipientID string) (models.NotificationStats, error) {
	return s.repo.Stats(ctx, recipientID)
}

func (s *service) Delete(ctx context.Context, id, recipientID string) error {
	if err := s.repo.DeleteOwned(ctx, id, recipientID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// ProcessScheduled sends every pending record whose schedule has come due.
// Per-record errors are logged and skipped so one bad record cannot stall
// the rest of the batch.
func (s *service) ProcessScheduled(ctx context.Context) error {
	due, err := s.repo.ListDueScheduled(ctx, time.Now().UTC())
	if err != nil {
		return errors.Wrap(err, "list due scheduled notifications")
	}

	metrics.ScheduledSweeps.Inc()
	for _, notif := range due {
		if err := s.Send(ctx, notif.ID); err != nil {
			s.logger.Error().
				Err(err).
				Str("notification_id", notif.ID).
				Msg("failed to send scheduled notification")
		}
	}

	if len(due) > 0 {
		s.logger.Info().Int("count", len(due)).Msg("processed scheduled notifications")
	}
	return nil
}

// Cleanup deletes read records older than the retention window. Failed
// records are kept for operational visibility.
func (s *service) Cleanup(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-retention)
	deleted, err := s.repo.DeleteReadBefore(ctx, cutoff)
	if err != nil {
		return 0, errors.Wrap(err, "cleanup old notifications")
	}
	if deleted > 0 {
		metrics.NotificationsCleaned.Add(float64(deleted))
		s.logger.Info().Int64("deleted", deleted).Time("cutoff", cutoff).Msg("cleaned up old notifications")
	}
	return deleted, nil
}
