package background

import (
	"context"
	"errors"
	"testing"

	"firebase.google.com/go/v4/messaging"
	"github.com/stretchr/testify/assert"
)

type recordingClient struct {
	messages []*messaging.Message
	err      error
}

func (c *recordingClient) Send(_ context.Context, message *messaging.Message) (string, error) {
	c.messages = append(c.messages, message)
	return "projects/test/messages/1", c.err
}

func TestFCMNotifyVolunteerPicksLanguage(t *testing.T) {
	client := &recordingClient{}
	f := &FCMNotificationCenter{client: client}

	headings := map[string]string{"en": "Fire nearby", "zh-Hant": "附近發生火警"}
	contents := map[string]string{"en": "Someone needs help."}

	err := f.NotifyVolunteerByText(context.Background(), "v-1", "zh_tw", headings, contents, map[string]interface{}{"distance": 1.5})
	assert.NoError(t, err)

	m := client.messages[0]
	assert.Equal(t, "volunteer-v-1", m.Topic)
	assert.Equal(t, "附近發生火警", m.Notification.Title)
	assert.Equal(t, "Someone needs help.", m.Notification.Body)
	assert.Equal(t, "1.5", m.Data["distance"])
	assert.Equal(t, "high", m.Android.Priority)
}

func TestFCMSendFailure(t *testing.T) {
	f := &FCMNotificationCenter{client: &recordingClient{err: errors.New("quota")}}
	err := f.NotifyTopicByText(context.Background(), "coordinators", nil, nil, nil)
	assert.Error(t, err)
}

func TestLanguageCode(t *testing.T) {
	assert.Equal(t, "zh-Hant", languageCode("zh-TW"))
	assert.Equal(t, "zh-Hant", languageCode("zh_tw"))
	assert.Equal(t, "en", languageCode("en-US"))
	assert.Equal(t, "en", languageCode(""))
	assert.Equal(t, "en", languageCode("fr"))
}
