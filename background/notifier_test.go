package background_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/guardknight/guardknight-api/background"
	"github.com/guardknight/guardknight-api/external/dispatch"
	"github.com/guardknight/guardknight-api/mocks"
	"github.com/guardknight/guardknight-api/schema"
	"github.com/guardknight/guardknight-api/utils"
)

func summary() schema.AlertSummary {
	return schema.AlertSummary{
		AlertID:    "a-1",
		Kind:       schema.AlertMedical,
		Address:    "No. 7, Section 5, Xinyi Road",
		Latitude:   25.0340,
		Longitude:  121.5645,
		CreatedAt:  1000,
		DistanceKm: 1.25,
		Language:   "zh-TW",
	}
}

func TestNotifyVolunteer(t *testing.T) {
	assert.NoError(t, utils.LoadI18NBundle("../i18n"))

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	center := mocks.NewMockNotificationCenter(ctrl)
	center.EXPECT().
		NotifyVolunteerByText(gomock.Any(), "v-1", "zh-TW", gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _ string, headings, contents map[string]string, data map[string]interface{}) error {
			assert.Equal(t, "Medical emergency nearby", headings["en"])
			assert.Equal(t, "附近發生醫療緊急狀況", headings["zh-Hant"])
			assert.True(t, strings.Contains(contents["en"], "1.2 km"))
			assert.True(t, strings.Contains(contents["en"], "Xinyi Road"))
			assert.Equal(t, "a-1", data["alert_id"])
			assert.Equal(t, "EMERGENCY_ALERT", data["notification_type"])
			return nil
		})

	n := background.NewAlertNotifier(center, nil, "")
	assert.NoError(t, n.NotifyVolunteer(context.Background(), "v-1", summary()))
}

func TestNotifyVolunteerWithoutCenter(t *testing.T) {
	n := background.NewAlertNotifier(nil, nil, "")
	assert.Equal(t, background.ErrNoNotificationCenter, n.NotifyVolunteer(context.Background(), "v-1", summary()))
}

func TestNotifyEmergencyServices(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	services := mocks.NewMockDispatch(ctrl)
	services.EXPECT().Report(gomock.Any(), dispatch.Incident{
		AlertID:   "a-1",
		Type:      "medical",
		Latitude:  25.0340,
		Longitude: 121.5645,
		Address:   "No. 7, Section 5, Xinyi Road",
		Timestamp: 1000,
	}).Return(errors.New("unreachable"))

	n := background.NewAlertNotifier(nil, services, "")
	assert.EqualError(t, n.NotifyEmergencyServices(context.Background(), summary()), "unreachable")
}

func TestNotifyEmergencyServicesNotConfigured(t *testing.T) {
	n := background.NewAlertNotifier(nil, nil, "")
	assert.Equal(t, background.ErrNoEmergencyServices, n.NotifyEmergencyServices(context.Background(), summary()))
}

func TestReportCrowdIssue(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	center := mocks.NewMockNotificationCenter(ctrl)
	center.EXPECT().
		NotifyTopicByText(gomock.Any(), "coordinators", gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, headings, contents map[string]string, data map[string]interface{}) error {
			assert.NotEmpty(t, headings["en"])
			assert.True(t, strings.Contains(contents["en"], "blocked exit"))
			assert.Equal(t, "CROWD_ISSUE", data["notification_type"])
			return nil
		})

	n := background.NewAlertNotifier(center, nil, "coordinators")
	err := n.ReportCrowdIssue(context.Background(), schema.CrowdIssue{
		Type:        "blocked exit",
		Description: "gate 3",
		Location:    schema.LocationSample{Latitude: 25, Longitude: 121},
	})
	assert.NoError(t, err)
}

func TestReportCrowdIssueWithoutTopic(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	n := background.NewAlertNotifier(mocks.NewMockNotificationCenter(ctrl), nil, "")
	assert.Equal(t, background.ErrNoNotificationCenter, n.ReportCrowdIssue(context.Background(), schema.CrowdIssue{Type: "fight"}))
}
