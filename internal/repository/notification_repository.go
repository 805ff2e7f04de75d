package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jdragonx/sgcn-sgc-prototipo/internal/models"
)

const notificationColumns = `id, title, message, kind, channel, status, priority, metadata,
		recipient_id, created_by, scheduled_at, sent_at, delivered_at, read_at, created_at`

type NotificationRepository interface {
	Create(ctx context.Context, params CreateNotificationParams) (models.Notification, error)
	GetByID(ctx context.Context, id string) (models.Notification, error)
	ListForRecipient(ctx context.Context, recipientID string, limit int, unreadOnly bool) ([]models.Notification, error)
	MarkSent(ctx context.Context, id string, delivered bool) (models.Notification, error)
	MarkFailed(ctx context.Context, id string) error
	MarkRead(ctx context.Context, id, recipientID string) (models.Notification, error)
	MarkAllRead(ctx context.Context, recipientID string) (int64, error)
	ListDueScheduled(ctx context.Context, now time.Time) ([]models.Notification, error)
	DeleteOwned(ctx context.Context, id, recipientID string) error
	DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error)
	Stats(ctx context.Context, recipientID string) (models.NotificationStats, error)
}

type notificationRepository struct {
	db *sql.DB
}

type CreateNotificationParams struct {
	Title       string
	Message     string
	Kind        models.NotificationKind
	Channel     models.NotificationChannel
	Priority    int
	Metadata    map[string]interface{}
	RecipientID string
	CreatedBy   string
	ScheduledAt *time.Time
}

func NewNotificationRepository(db *sql.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, params CreateNotificationParams) (models.Notification, error) {
	query := `
		INSERT INTO notifications (title, message, kind, channel, priority, metadata, recipient_id, created_by, scheduled_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + notificationColumns

	var metadata interface{}
	if len(params.Metadata) > 0 {
		bytes, err := json.Marshal(params.Metadata)
		if err != nil {
			return models.Notification{}, fmt.Errorf("marshal metadata: %w", err)
		}
		metadata = bytes
	}

	var createdBy interface{}
	if strings.TrimSpace(params.CreatedBy) != "" {
		createdBy = strings.TrimSpace(params.CreatedBy)
	}

	row := r.db.QueryRowContext(ctx, query,
		params.Title, params.Message, params.Kind, params.Channel, params.Priority,
		metadata, params.RecipientID, createdBy, params.ScheduledAt)
	return scanNotification(row)
}

func (r *notificationRepository) GetByID(ctx context.Context, id string) (models.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, strings.TrimSpace(id))
	return scanNotification(row)
}

func (r *notificationRepository) ListForRecipient(ctx context.Context, recipientID string, limit int, unreadOnly bool) ([]models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE recipient_id = $1`
	if unreadOnly {
		query += ` AND status <> 'read'`
	}
	query += ` ORDER BY created_at DESC LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, strings.TrimSpace(recipientID), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectNotifications(rows)
}

// MarkSent transitions a pending record to sent, or straight to delivered for
// channels that confirm synchronously. The status guard keeps a concurrent
// MarkRead or MarkFailed from being overwritten.
func (r *notificationRepository) MarkSent(ctx context.Context, id string, delivered bool) (models.Notification, error) {
	query := `
		UPDATE notifications
		SET status = CASE WHEN $2 THEN 'delivered' ELSE 'sent' END,
		    sent_at = NOW(),
		    delivered_at = CASE WHEN $2 THEN NOW() ELSE delivered_at END
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + notificationColumns
	row := r.db.QueryRowContext(ctx, query, strings.TrimSpace(id), delivered)
	return scanNotification(row)
}

// MarkFailed moves a record to the terminal failed status. sent_at is left
// untouched: a failed delivery never counts as a send.
func (r *notificationRepository) MarkFailed(ctx context.Context, id string) error {
	query := `
		UPDATE notifications
		SET status = 'failed'
		WHERE id = $1 AND status IN ('pending', 'sent')
	`
	res, err := r.db.ExecContext(ctx, query, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// MarkRead is idempotent: a record that is already read is returned as-is
// with its original read_at. Ownership and existence are checked in the same
// statement so a caller cannot distinguish another user's record from an
// absent one.
func (r *notificationRepository) MarkRead(ctx context.Context, id, recipientID string) (models.Notification, error) {
	query := `
		UPDATE notifications
		SET status = 'read', read_at = NOW()
		WHERE id = $1 AND recipient_id = $2 AND status <> 'read'
		RETURNING ` + notificationColumns

	id = strings.TrimSpace(id)
	recipientID = strings.TrimSpace(recipientID)

	row := r.db.QueryRowContext(ctx, query, id, recipientID)
	notif, err := scanNotification(row)
	if err == sql.ErrNoRows {
		// Already read, or not owned. Re-fetch scoped to the owner.
		query = `SELECT ` + notificationColumns + ` FROM notifications WHERE id = $1 AND recipient_id = $2`
		row = r.db.QueryRowContext(ctx, query, id, recipientID)
		return scanNotification(row)
	}
	return notif, err
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, recipientID string) (int64, error) {
	query := `
		UPDATE notifications
		SET status = 'read', read_at = NOW()
		WHERE recipient_id = $1 AND status <> 'read'
	`
	res, err := r.db.ExecContext(ctx, query, strings.TrimSpace(recipientID))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *notificationRepository) ListDueScheduled(ctx context.Context, now time.Time) ([]models.Notification, error) {
	query := `SELECT ` + notificationColumns + `
		FROM notifications
		WHERE status = 'pending' AND scheduled_at IS NOT NULL AND scheduled_at <= $1
		ORDER BY scheduled_at`

	rows, err := r.db.QueryContext(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectNotifications(rows)
}

func (r *notificationRepository) DeleteOwned(ctx context.Context, id, recipientID string) error {
	query := `DELETE FROM notifications WHERE id = $1 AND recipient_id = $2`
	res, err := r.db.ExecContext(ctx, query, strings.TrimSpace(id), strings.TrimSpace(recipientID))
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteReadBefore removes read records created before the cutoff. Failed
// records are kept regardless of age.
func (r *notificationRepository) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM notifications WHERE status = 'read' AND created_at < $1`
	res, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *notificationRepository) Stats(ctx context.Context, recipientID string) (models.NotificationStats, error) {
	query := `
		SELECT kind, COUNT(*), COUNT(*) FILTER (WHERE status <> 'read')
		FROM notifications
		WHERE recipient_id = $1
		GROUP BY kind
	`
	rows, err := r.db.QueryContext(ctx, query, strings.TrimSpace(recipientID))
	if err != nil {
		return models.NotificationStats{}, err
	}
	defer rows.Close()

	stats := models.NotificationStats{ByKind: make(map[models.NotificationKind]int64)}
	for rows.Next() {
		var (
			kind   models.NotificationKind
			total  int64
			unread int64
		)
		if err := rows.Scan(&kind, &total, &unread); err != nil {
			return models.NotificationStats{}, err
		}
		stats.ByKind[kind] = total
		stats.Total += total
		stats.Unread += unread
	}
	if err := rows.Err(); err != nil {
		return models.NotificationStats{}, err
	}
	return stats, nil
}

func collectNotifications(rows *sql.Rows) ([]models.Notification, error) {
	var notifications []models.Notification
	for rows.Next() {
		notif, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, notif)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return notifications, nil
}

func scanNotification(scanner interface {
	Scan(dest ...interface{}) error
}) (models.Notification, error) {
	var (
		notif       models.Notification
		metadataRaw []byte
		createdBy   sql.NullString
		scheduledAt sql.NullTime
		sentAt      sql.NullTime
		deliveredAt sql.NullTime
		readAt      sql.NullTime
	)

	if err := scanner.Scan(
		&notif.ID,
		&notif.Title,
		&notif.Message,
		&notif.Kind,
		&notif.Channel,
		&notif.Status,
		&notif.Priority,
		&metadataRaw,
		&notif.RecipientID,
		&createdBy,
		&scheduledAt,
		&sentAt,
		&deliveredAt,
		&readAt,
		&notif.CreatedAt,
	); err != nil {
		return models.Notification{}, err
	}

	if len(metadataRaw) > 0 {
		notif.Metadata = metadataRaw
	}
	if createdBy.Valid {
		notif.CreatedBy = createdBy.String
	}
	if scheduledAt.Valid {
		t := scheduledAt.Time
		notif.ScheduledAt = &t
	}
	if sentAt.Valid {
		t := sentAt.Time
		notif.SentAt = &t
	}
	if deliveredAt.Valid {
		t := deliveredAt.Time
		notif.DeliveredAt = &t
	}
	if readAt.Valid {
		t := readAt.Time
		notif.ReadAt = &t
	}

	return notif, nil
}
