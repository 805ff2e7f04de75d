package notification

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/jdragonx/sgcn-sgc-prototipo/internal/metrics"
	"github.com/jdragonx/sgcn-sgc-prototipo/internal/models"
)

type EventType string

const (
	EventIncident       EventType = "incident"
	EventNonConformity  EventType = "non_conformity"
	EventDocumentReview EventType = "document_review"
)

// Event is a domain occurrence that may fan out into per-recipient alerts.
type Event struct {
	Type         EventType
	Severity     string
	SubjectID    int64
	SubjectTitle string
}

// eventRoles declares which roles receive alerts for each event type.
var eventRoles = map[EventType][]models.UserRole{
	EventIncident:       {models.RoleAdmin, models.RoleAuditor},
	EventNonConformity:  {models.RoleAdmin, models.RoleAuditor, models.RoleGestor},
	EventDocumentReview: {models.RoleAdmin, models.RoleAuditor},
}

// metadataKeys declares the metadata key carrying the subject id per event type.
var metadataKeys = map[EventType]string{
	EventIncident:       "incident_id",
	EventNonConformity:  "non_conformity_id",
	EventDocumentReview: "document_id",
}

type severityBand struct {
	kind     models.NotificationKind
	priority int
}

// severityBands maps an event's severity to notification kind and priority.
var severityBands = map[string]severityBand{
	"critical": {models.KindCritical, 5},
	"high":     {models.KindWarning, 3},
	"medium":   {models.KindWarning, 3},
	"low":      {models.KindInfo, 2},
}

func classifySeverity(severity string) severityBand {
	if band, ok := severityBands[strings.ToLower(strings.TrimSpace(severity))]; ok {
		return band
	}
	return severityBand{models.KindInfo, 2}
}

// recipientLister is the slice of the user store the fan-out rules need.
type recipientLister interface {
	ListActiveByRoles(ctx context.Context, roles []models.UserRole) ([]models.User, error)
}

// Alerts expands domain events into one dashboard notification per eligible
// recipient. Rule-generated alerts always use the dashboard channel; other
// channels are reachable only through the manual creation path.
type Alerts struct {
	users   recipientLister
	service Service
	logger  zerolog.Logger
}

func NewAlerts(users recipientLister, service Service, logger zerolog.Logger) *Alerts {
	return &Alerts{
		users:   users,
		service: service,
		logger:  logger.With().Str("component", "alert_fanout").Logger(),
	}
}

// Publish resolves recipients and creates + sends one record each. Sends are
// independent per recipient; a failure for one is logged and never blocks
// the others. It returns the number of records created.
func (a *Alerts) Publish(ctx context.Context, evt Event) (int, error) {
	roles, ok := eventRoles[evt.Type]
	if !ok {
		return 0, errors.Wrapf(ErrValidation, "unknown event type %q", evt.Type)
	}

	recipients, err := a.users.ListActiveByRoles(ctx, roles)
	if err != nil {
		return 0, errors.Wrap(err, "resolve alert recipients")
	}

	band := classifySeverity(evt.Severity)
	title, message := alertContent(evt)
	metadata := map[string]interface{}{
		metadataKeys[evt.Type]: evt.SubjectID,
		"type":                 string(evt.Type),
	}

	created := 0
	for _, user := range recipients {
		_, err := a.service.CreateAndSend(ctx, CreateParams{
			Title:       title,
			Message:     message,
			Kind:        band.kind,
			Channel:     models.ChannelDashboard,
			RecipientID: user.ID,
			Priority:    band.priority,
			Metadata:    metadata,
		})
		if err != nil {
			a.logger.Error().
				Err(err).
				Str("event_type", string(evt.Type)).
				Str("recipient_id", user.ID).
				Msg("failed to create alert for recipient")
			continue
		}
		created++
	}

	metrics.AlertsFannedOut.WithLabelValues(string(evt.Type)).Add(float64(created))
	a.logger.Info().
		Str("event_type", string(evt.Type)).
		Str("severity", evt.Severity).
		Int64("subject_id", evt.SubjectID).
		Int("recipients", created).
		Msg("alert fanned out")
	return created, nil
}

// AlertIncident raises an alert for a newly recorded incident.
func (a *Alerts) AlertIncident(ctx context.Context, incidentID int64, title, priority string) (int, error) {
	return a.Publish(ctx, Event{Type: EventIncident, Severity: priority, SubjectID: incidentID, SubjectTitle: title})
}

// AlertNonConformity raises an alert for a newly recorded non-conformity.
func (a *Alerts) AlertNonConformity(ctx context.Context, ncID int64, title, severity string) (int, error) {
	return a.Publish(ctx, Event{Type: EventNonConformity, Severity: severity, SubjectID: ncID, SubjectTitle: title})
}

// AlertDocumentReview raises an alert for a document awaiting review.
func (a *Alerts) AlertDocumentReview(ctx context.Context, docID int64, title string) (int, error) {
	return a.Publish(ctx, Event{Type: EventDocumentReview, SubjectID: docID, SubjectTitle: title})
}

func alertContent(evt Event) (title, message string) {
	subject := strings.TrimSpace(evt.SubjectTitle)
	severity := strings.ToUpper(strings.TrimSpace(evt.Severity))

	switch evt.Type {
	case EventIncident:
		title = fmt.Sprintf("Incident %s: %s", severity, subject)
		message = fmt.Sprintf("An incident of priority %s has been recorded. ID: %d", strings.ToLower(severity), evt.SubjectID)
	case EventNonConformity:
		title = fmt.Sprintf("Non-conformity %s: %s", severity, subject)
		message = fmt.Sprintf("A non-conformity of severity %s has been recorded. ID: %d", strings.ToLower(severity), evt.SubjectID)
	case EventDocumentReview:
		title = fmt.Sprintf("Document pending review: %s", subject)
		message = fmt.Sprintf("Document %q is awaiting review and approval.", subject)
	}
	return title, message
}
