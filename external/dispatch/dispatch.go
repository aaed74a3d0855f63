package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	logPrefix      = "dispatch"
	defaultTimeout = 10 * time.Second
)

var (
	ErrNoEndpoint   = fmt.Errorf("dispatch endpoint is not configured")
	ErrDispatchFail = fmt.Errorf("dispatch center rejected the incident")
)

// Incident is what an emergency dispatch center receives about an alert.
type Incident struct {
	AlertID   string  `json:"alert_id"`
	Type      string  `json:"type"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
	Message   string  `json:"message,omitempty"`
	Timestamp int64   `json:"timestamp"`
}

// Dispatch forwards incidents to emergency services.
type Dispatch interface {
	Report(ctx context.Context, incident Incident) error
}

type webhook struct {
	endpoint string
	token    string
	client   *http.Client
}

// New returns a client posting incidents as JSON to endpoint. token, when
// set, is sent as a bearer token.
func New(endpoint, token string, client *http.Client) Dispatch {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &webhook{
		endpoint: endpoint,
		token:    token,
		client:   client,
	}
}

func (w *webhook) Report(ctx context.Context, incident Incident) error {
	if w.endpoint == "" {
		return ErrNoEndpoint
	}

	body, err := json.Marshal(incident)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if w.token != "" {
		req.Header.Set("Authorization", "Bearer "+w.token)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := ioutil.ReadAll(io.LimitReader(resp.Body, 1024))
		log.WithFields(log.Fields{
			"prefix":   logPrefix,
			"alert_id": incident.AlertID,
			"status":   resp.StatusCode,
			"body":     string(msg),
		}).Error("incident rejected")
		return fmt.Errorf("%w: status %d", ErrDispatchFail, resp.StatusCode)
	}

	log.WithFields(log.Fields{
		"prefix":   logPrefix,
		"alert_id": incident.AlertID,
	}).Info("incident reported")

	return nil
}
