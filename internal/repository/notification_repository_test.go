package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdragonx/sgcn-sgc-prototipo/internal/models"
)

func setupMockDB(t *testing.T) (NotificationRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open mock db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return NewNotificationRepository(db), mock
}

func notificationRows(id string, recipient string, status models.NotificationStatus) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "title", "message", "kind", "channel", "status", "priority", "metadata",
		"recipient_id", "created_by", "scheduled_at", "sent_at", "delivered_at", "read_at", "created_at",
	}).AddRow(id, "Test", "Test message", "info", "dashboard", string(status), 1, nil,
		recipient, nil, nil, nil, nil, nil, time.Now())
}

func TestCreateNotification(t *testing.T) {
	repo, mock := setupMockDB(t)

	id := uuid.New().String()
	recipient := uuid.New().String()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO notifications`)).
		WithArgs("Test", "Test message", models.KindInfo, models.ChannelDashboard, 1,
			nil, recipient, nil, nil).
		WillReturnRows(notificationRows(id, recipient, models.StatusPending))

	notif, err := repo.Create(context.Background(), CreateNotificationParams{
		Title:       "Test",
		Message:     "Test message",
		Kind:        models.KindInfo,
		Channel:     models.ChannelDashboard,
		Priority:    1,
		RecipientID: recipient,
	})
	require.NoError(t, err)
	assert.Equal(t, id, notif.ID)
	assert.Equal(t, models.StatusPending, notif.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkSent_GuardedOnPending(t *testing.T) {
	repo, mock := setupMockDB(t)

	id := uuid.New().String()
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE notifications`)).
		WithArgs(id, true).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.MarkSent(context.Background(), id, true)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkRead_AlreadyReadFallsBackToSelect(t *testing.T) {
	repo, mock := setupMockDB(t)

	id := uuid.New().String()
	recipient := uuid.New().String()

	// The guarded update matches nothing because the record is already read.
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE notifications`)).
		WithArgs(id, recipient).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT`)).
		WithArgs(id, recipient).
		WillReturnRows(notificationRows(id, recipient, models.StatusRead))

	notif, err := repo.MarkRead(context.Background(), id, recipient)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRead, notif.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkRead_NotOwned(t *testing.T) {
	repo, mock := setupMockDB(t)

	id := uuid.New().String()
	recipient := uuid.New().String()

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE notifications`)).
		WithArgs(id, recipient).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT`)).
		WithArgs(id, recipient).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.MarkRead(context.Background(), id, recipient)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkAllRead(t *testing.T) {
	repo, mock := setupMockDB(t)

	recipient := uuid.New().String()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE notifications`)).
		WithArgs(recipient).
		WillReturnResult(sqlmock.NewResult(0, 4))

	count, err := repo.MarkAllRead(context.Background(), recipient)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteReadBefore(t *testing.T) {
	repo, mock := setupMockDB(t)

	cutoff := time.Now().Add(-30 * 24 * time.Hour)
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM notifications WHERE status = 'read' AND created_at < $1`)).
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 2))

	deleted, err := repo.DeleteReadBefore(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteOwned_NotFound(t *testing.T) {
	repo, mock := setupMockDB(t)

	id := uuid.New().String()
	recipient := uuid.New().String()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM notifications WHERE id = $1 AND recipient_id = $2`)).
		WithArgs(id, recipient).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteOwned(context.Background(), id, recipient)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStats(t *testing.T) {
	repo, mock := setupMockDB(t)

	recipient := uuid.New().String()
	rows := sqlmock.NewRows([]string{"kind", "count", "unread"}).
		AddRow("critical", 2, 1).
		AddRow("info", 3, 3)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT kind, COUNT(*)`)).
		WithArgs(recipient).
		WillReturnRows(rows)

	stats, err := repo.Stats(context.Background(), recipient)
	require.NoError(t, err)
	assert.Equal(t, int64(5), stats.Total)
	assert.Equal(t, int64(4), stats.Unread)
	assert.Equal(t, int64(2), stats.ByKind[models.KindCritical])
	assert.Equal(t, int64(3), stats.ByKind[models.KindInfo])
	assert.NoError(t, mock.ExpectationsWereMet())
}
