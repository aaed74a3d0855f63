package background

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/guardknight/guardknight-api/external/dispatch"
	"github.com/guardknight/guardknight-api/schema"
)

var (
	ErrNoNotificationCenter = fmt.Errorf("no notification center configured")
	ErrNoEmergencyServices  = fmt.Errorf("no emergency services configured")
)

// AlertNotifier delivers alerts to volunteers and emergency services, and
// crowd issues to the venue coordinators.
type AlertNotifier struct {
	center           NotificationCenter
	services         dispatch.Dispatch
	coordinatorTopic string
}

func NewAlertNotifier(center NotificationCenter, services dispatch.Dispatch, coordinatorTopic string) *AlertNotifier {
	return &AlertNotifier{
		center:           center,
		services:         services,
		coordinatorTopic: coordinatorTopic,
	}
}

func (n *AlertNotifier) NotifyVolunteer(ctx context.Context, volunteerID string, summary schema.AlertSummary) error {
	if n.center == nil {
		return ErrNoNotificationCenter
	}

	headings, contents := alertTexts(summary)
	return n.center.NotifyVolunteerByText(ctx, volunteerID, summary.Language, headings, contents, alertData(summary))
}

func (n *AlertNotifier) NotifyEmergencyServices(ctx context.Context, summary schema.AlertSummary) error {
	if n.services == nil {
		return ErrNoEmergencyServices
	}

	return n.services.Report(ctx, dispatch.Incident{
		AlertID:   summary.AlertID,
		Type:      string(summary.Kind),
		Latitude:  summary.Latitude,
		Longitude: summary.Longitude,
		Address:   summary.Address,
		Message:   summary.Message,
		Timestamp: summary.CreatedAt,
	})
}

// ReportCrowdIssue pushes the issue to the coordinator topic.
func (n *AlertNotifier) ReportCrowdIssue(ctx context.Context, issue schema.CrowdIssue) error {
	if n.center == nil || n.coordinatorTopic == "" {
		return ErrNoNotificationCenter
	}

	headings, contents := crowdIssueTexts(issue)
	data := map[string]interface{}{
		"notification_type": "CROWD_ISSUE",
		"type":              issue.Type,
		"latitude":          issue.Location.Latitude,
		"longitude":         issue.Location.Longitude,
		"reported_at":       issue.ReportedAt,
	}

	if err := n.center.NotifyTopicByText(ctx, n.coordinatorTopic, headings, contents, data); err != nil {
		log.WithFields(log.Fields{
			"prefix": logPrefix,
			"topic":  n.coordinatorTopic,
			"error":  err,
		}).Error("push crowd issue")
		return err
	}

	return nil
}
