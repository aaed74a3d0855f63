package background

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/RichardKnop/machinery/v1"
	log "github.com/sirupsen/logrus"

	"github.com/guardknight/guardknight-api/emergency"
	"github.com/guardknight/guardknight-api/schema"
)

const (
	BroadcastEmergencyAlertTask = "broadcast_emergency_alert"

	defaultBroadcastTimeout = 30 * time.Second
	defaultConcurrency      = 5
)

// Broadcaster runs the fan-out of one alert.
type Broadcaster interface {
	Broadcast(ctx context.Context, alert schema.EmergencyAlert) emergency.BroadcastResult
}

// BackgroundManager executes alert fan-outs sent through the task queue.
type BackgroundManager struct {
	broadcaster Broadcaster
	timeout     time.Duration

	taskServer *machinery.Server

	worker *machinery.Worker
}

func New(broadcaster Broadcaster, taskServer *machinery.Server, timeout time.Duration) *BackgroundManager {
	if timeout <= 0 {
		timeout = defaultBroadcastTimeout
	}

	return &BackgroundManager{
		broadcaster: broadcaster,
		timeout:     timeout,
		taskServer:  taskServer,
	}
}

func (m *BackgroundManager) RegisterTask(name string, taskFunc interface{}) error {
	return m.taskServer.RegisterTask(name, taskFunc)
}

// RegisterTasks registers every task this manager handles.
func (m *BackgroundManager) RegisterTasks() error {
	return m.RegisterTask(BroadcastEmergencyAlertTask, m.BroadcastEmergencyAlert)
}

// Run spawn workers to execute background jobs
func (m *BackgroundManager) Run(concurrency int) error {
	if m.worker != nil {
		return errors.New("background worker has started")
	}
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	m.worker = m.taskServer.NewWorker("guardknight-worker", concurrency)
	return m.worker.Launch()
}

func (m *BackgroundManager) Stop() {
	if m.worker != nil {
		m.worker.Quit()
	}
}

// BroadcastEmergencyAlert is the task body of BroadcastEmergencyAlertTask.
// payload is the JSON encoded alert. Fan-out failures are reported by the
// broadcaster and never fail the task.
func (m *BackgroundManager) BroadcastEmergencyAlert(payload string) error {
	var alert schema.EmergencyAlert
	if err := json.Unmarshal([]byte(payload), &alert); err != nil {
		log.WithFields(log.Fields{
			"prefix": logPrefix,
			"error":  err,
		}).Error("decode alert payload")
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	result := m.broadcaster.Broadcast(ctx, alert)

	log.WithFields(log.Fields{
		"prefix":     logPrefix,
		"alert_id":   alert.ID,
		"volunteers": result.VolunteersNotified,
	}).Info("broadcast task done")

	return nil
}
