package background

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/option"

	"github.com/guardknight/guardknight-api/external/onesignal"
)

const logPrefix = "background"

// NotificationCenter pushes localized texts to devices. headings and contents
// are keyed by onesignal language code.
type NotificationCenter interface {
	NotifyVolunteerByText(ctx context.Context, volunteerID, lang string, headings, contents map[string]string, data map[string]interface{}) error
	NotifyTopicByText(ctx context.Context, topic string, headings, contents map[string]string, data map[string]interface{}) error
}

type OnesignalNotificationCenter struct {
	appID  string
	client *onesignal.OneSignalClient
}

func NewOnesignalNotificationCenter(appID string, client *onesignal.OneSignalClient) *OnesignalNotificationCenter {
	return &OnesignalNotificationCenter{
		appID:  appID,
		client: client,
	}
}

// NotifyVolunteerByText sends to the devices tagged with the volunteer id.
// Onesignal picks the language of each device itself.
func (o *OnesignalNotificationCenter) NotifyVolunteerByText(ctx context.Context, volunteerID, _ string, headings, contents map[string]string, data map[string]interface{}) error {
	filters := []map[string]string{
		{
			"field":    "tag",
			"key":      "volunteer_id",
			"relation": "=",
			"value":    volunteerID,
		},
	}

	req := &onesignal.NotificationRequest{
		AppID:          o.appID,
		Headings:       headings,
		Contents:       contents,
		Filters:        filters,
		Data:           data,
		LocalChannelID: "important_alert",
	}
	return o.client.SendNotification(ctx, req)
}

// NotifyTopicByText sends to a onesignal segment named topic.
func (o *OnesignalNotificationCenter) NotifyTopicByText(ctx context.Context, topic string, headings, contents map[string]string, data map[string]interface{}) error {
	req := &onesignal.NotificationRequest{
		AppID:            o.appID,
		Headings:         headings,
		Contents:         contents,
		IncludedSegments: []string{topic},
		Data:             data,
		LocalChannelID:   "important_alert",
	}
	return o.client.SendNotification(ctx, req)
}

type messagingClient interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// FCMNotificationCenter sends through firebase cloud messaging. Volunteer
// devices subscribe to the topic volunteer-<id>.
type FCMNotificationCenter struct {
	client messagingClient
}

func NewFCMNotificationCenter(ctx context.Context, opts ...option.ClientOption) (*FCMNotificationCenter, error) {
	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting messaging client: %w", err)
	}

	return &FCMNotificationCenter{client: client}, nil
}

func VolunteerTopic(volunteerID string) string {
	return "volunteer-" + volunteerID
}

func (f *FCMNotificationCenter) NotifyVolunteerByText(ctx context.Context, volunteerID, lang string, headings, contents map[string]string, data map[string]interface{}) error {
	return f.send(ctx, VolunteerTopic(volunteerID), languageCode(lang), headings, contents, data)
}

func (f *FCMNotificationCenter) NotifyTopicByText(ctx context.Context, topic string, headings, contents map[string]string, data map[string]interface{}) error {
	return f.send(ctx, topic, "en", headings, contents, data)
}

func (f *FCMNotificationCenter) send(ctx context.Context, topic, code string, headings, contents map[string]string, data map[string]interface{}) error {
	message := &messaging.Message{
		Topic: topic,
		Notification: &messaging.Notification{
			Title: pickText(headings, code),
			Body:  pickText(contents, code),
		},
		Data: stringData(data),
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					ContentAvailable: true,
					Sound:            "default",
				},
			},
		},
	}

	response, err := f.client.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("error sending fcm message: %w", err)
	}

	log.WithFields(log.Fields{
		"prefix":   logPrefix,
		"topic":    topic,
		"response": response,
	}).Debug("fcm message sent")
	return nil
}

func pickText(texts map[string]string, code string) string {
	if s, ok := texts[code]; ok && s != "" {
		return s
	}
	return texts["en"]
}

func stringData(data map[string]interface{}) map[string]string {
	if len(data) == 0 {
		return nil
	}
	m := make(map[string]string, len(data))
	for k, v := range data {
		m[k] = fmt.Sprint(v)
	}
	return m
}
