package onesignal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"

	log "github.com/sirupsen/logrus"
)

const (
	logPrefix       = "onesignal"
	defaultEndpoint = "https://onesignal.com/api/v1/notifications"
)

var ErrSendNotification = fmt.Errorf("fail to send notification")

// NotificationRequest is the body of a create notification call.
type NotificationRequest struct {
	AppID            string                 `json:"app_id"`
	TemplateID       string                 `json:"template_id,omitempty"`
	Headings         map[string]string      `json:"headings,omitempty"`
	Contents         map[string]string      `json:"contents,omitempty"`
	Filters          []map[string]string    `json:"filters,omitempty"`
	IncludedSegments []string               `json:"included_segments,omitempty"`
	Data             map[string]interface{} `json:"data,omitempty"`
	LocalChannelID   string                 `json:"existing_android_channel_id,omitempty"`
}

type notificationResponse struct {
	ID         string        `json:"id"`
	Recipients int           `json:"recipients"`
	Errors     []interface{} `json:"errors"`
}

type OneSignalClient struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func NewClient(client *http.Client, apiKey string) *OneSignalClient {
	return &OneSignalClient{
		endpoint: defaultEndpoint,
		apiKey:   apiKey,
		client:   client,
	}
}

// SendNotification creates a notification. A request reaching no recipient
// is not an error.
func (c *OneSignalClient) SendNotification(ctx context.Context, r *NotificationRequest) error {
	body, err := json.Marshal(r)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Authorization", "Basic "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		log.WithFields(log.Fields{
			"prefix": logPrefix,
			"status": resp.StatusCode,
			"body":   string(respBody),
		}).Error("onesignal rejected notification")
		return fmt.Errorf("%w: status %d", ErrSendNotification, resp.StatusCode)
	}

	var result notificationResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"prefix":          logPrefix,
		"notification_id": result.ID,
		"recipients":      result.Recipients,
	}).Debug("notification sent")

	return nil
}
