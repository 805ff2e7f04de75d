package notification

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jdragonx/sgcn-sgc-prototipo/internal/models"
	"github.com/jdragonx/sgcn-sgc-prototipo/internal/repository"
)

// fakeRepo is an in-memory NotificationRepository for service and fan-out
// tests. It mirrors the guarded-transition semantics of the Postgres
// implementation.
type fakeRepo struct {
	mu        sync.Mutex
	records   map[string]*models.Notification
	order     []string
	createErr map[string]error // keyed by recipient id
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		records:   make(map[string]*models.Notification),
		createErr: make(map[string]error),
	}
}

func (f *fakeRepo) Create(_ context.Context, params repository.CreateNotificationParams) (models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.createErr[params.RecipientID]; err != nil {
		return models.Notification{}, err
	}

	var metadata json.RawMessage
	if len(params.Metadata) > 0 {
		bytes, err := json.Marshal(params.Metadata)
		if err != nil {
			return models.Notification{}, err
		}
		metadata = bytes
	}

	notif := &models.Notification{
		ID:          uuid.New().String(),
		Title:       params.Title,
		Message:     params.Message,
		Kind:        params.Kind,
		Channel:     params.Channel,
		Status:      models.StatusPending,
		Priority:    params.Priority,
		Metadata:    metadata,
		RecipientID: params.RecipientID,
		CreatedBy:   params.CreatedBy,
		ScheduledAt: params.ScheduledAt,
		CreatedAt:   time.Now().UTC(),
	}
	f.records[notif.ID] = notif
	f.order = append(f.order, notif.ID)
	return *notif, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	notif, ok := f.records[id]
	if !ok {
		return models.Notification{}, sql.ErrNoRows
	}
	return *notif, nil
}

func (f *fakeRepo) ListForRecipient(_ context.Context, recipientID string, limit int, unreadOnly bool) ([]models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var out []models.Notification
	for i := len(f.order) - 1; i >= 0 && len(out) < limit; i-- {
		notif := f.records[f.order[i]]
		if notif == nil || notif.RecipientID != recipientID {
			continue
		}
		if unreadOnly && notif.Status == models.StatusRead {
			continue
		}
		out = append(out, *notif)
	}
	return out, nil
}

func (f *fakeRepo) MarkSent(_ context.Context, id string, delivered bool) (models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	notif, ok := f.records[id]
	if !ok || notif.Status != models.StatusPending {
		return models.Notification{}, sql.ErrNoRows
	}
	now := time.Now().UTC()
	notif.SentAt = &now
	notif.Status = models.StatusSent
	if delivered {
		notif.Status = models.StatusDelivered
		notif.DeliveredAt = &now
	}
	return *notif, nil
}

func (f *fakeRepo) MarkFailed(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	notif, ok := f.records[id]
	if !ok || (notif.Status != models.StatusPending && notif.Status != models.StatusSent) {
		return sql.ErrNoRows
	}
	notif.Status = models.StatusFailed
	return nil
}

func (f *fakeRepo) MarkRead(_ context.Context, id, recipientID string) (models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	notif, ok := f.records[id]
	if !ok || notif.RecipientID != recipientID {
		return models.Notification{}, sql.ErrNoRows
	}
	if notif.Status != models.StatusRead {
		now := time.Now().UTC()
		notif.Status = models.StatusRead
		notif.ReadAt = &now
	}
	return *notif, nil
}

func (f *fakeRepo) MarkAllRead(_ context.Context, recipientID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := time.Now().UTC()
	var count int64
	for _, notif := range f.records {
		if notif.RecipientID == recipientID && notif.Status != models.StatusRead {
			notif.Status = models.StatusRead
			readAt := now
			notif.ReadAt = &readAt
			count++
		}
	}
	return count, nil
}

func (f *fakeRepo) ListDueScheduled(_ context.Context, now time.Time) ([]models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var due []models.Notification
	for _, id := range f.order {
		notif := f.records[id]
		if notif == nil || notif.Status != models.StatusPending || notif.ScheduledAt == nil {
			continue
		}
		if !notif.ScheduledAt.After(now) {
			due = append(due, *notif)
		}
	}
	return due, nil
}

func (f *fakeRepo) DeleteOwned(_ context.Context, id, recipientID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	notif, ok := f.records[id]
	if !ok || notif.RecipientID != recipientID {
		return sql.ErrNoRows
	}
	delete(f.records, id)
	return nil
}

func (f *fakeRepo) DeleteReadBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var deleted int64
	for id, notif := range f.records {
		if notif.Status == models.StatusRead && notif.CreatedAt.Before(cutoff) {
			delete(f.records, id)
			deleted++
		}
	}
	return deleted, nil
}

func (f *fakeRepo) Stats(_ context.Context, recipientID string) (models.NotificationStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	stats := models.NotificationStats{ByKind: make(map[models.NotificationKind]int64)}
	for _, notif := range f.records {
		if notif.RecipientID != recipientID {
			continue
		}
		stats.Total++
		stats.ByKind[notif.Kind]++
		if notif.Status != models.StatusRead {
			stats.Unread++
		}
	}
	return stats, nil
}

// setCreatedAt backdates a record for retention tests.
func (f *fakeRepo) setCreatedAt(id string, t time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if notif, ok := f.records[id]; ok {
		notif.CreatedAt = t
	}
}

// setStatus forces a record into a given state for sweep tests.
func (f *fakeRepo) setStatus(id string, status models.NotificationStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if notif, ok := f.records[id]; ok {
		notif.Status = status
	}
}

// stubNotifier is a controllable channel notifier double.
type stubNotifier struct {
	err   error
	sync  bool
	calls int
}

func (s *stubNotifier) Deliver(_ context.Context, _ models.Notification) error {
	s.calls++
	return s.err
}

func (s *stubNotifier) DeliversSynchronously() bool { return s.sync }
