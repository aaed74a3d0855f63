package background

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/RichardKnop/machinery/v1/backends/result"
	"github.com/RichardKnop/machinery/v1/tasks"
	"github.com/getsentry/sentry-go"
	log "github.com/sirupsen/logrus"

	"github.com/guardknight/guardknight-api/emergency"
	"github.com/guardknight/guardknight-api/schema"
)

const defaultRetryCount = 3

// TaskSender enqueues machinery tasks. *machinery.Server implements it.
type TaskSender interface {
	SendTask(signature *tasks.Signature) (*result.AsyncResult, error)
}

// TaskDispatcher schedules alert fan-outs on the task queue. Enqueueing runs
// off the caller's goroutine. When the queue cannot take the task, the alert
// is handed to fallback instead.
type TaskDispatcher struct {
	sender   TaskSender
	fallback emergency.Dispatcher

	pending sync.WaitGroup
}

func NewTaskDispatcher(sender TaskSender, fallback emergency.Dispatcher) *TaskDispatcher {
	return &TaskDispatcher{
		sender:   sender,
		fallback: fallback,
	}
}

func BroadcastSignature(alert schema.EmergencyAlert) (*tasks.Signature, error) {
	payload, err := json.Marshal(alert)
	if err != nil {
		return nil, err
	}

	return &tasks.Signature{
		Name: BroadcastEmergencyAlertTask,
		Args: []tasks.Arg{
			{
				Type:  "string",
				Value: string(payload),
			},
		},
		RetryCount: defaultRetryCount,
	}, nil
}

func (d *TaskDispatcher) Dispatch(alert schema.EmergencyAlert) {
	d.pending.Add(1)
	go func() {
		defer d.pending.Done()
		d.enqueue(alert)
	}()
}

// Wait blocks until every dispatched alert is enqueued or handed to fallback.
func (d *TaskDispatcher) Wait() {
	d.pending.Wait()
}

func (d *TaskDispatcher) enqueue(alert schema.EmergencyAlert) {
	signature, err := BroadcastSignature(alert)
	if err == nil {
		_, err = d.sender.SendTask(signature)
	}

	if err == nil {
		log.WithFields(log.Fields{
			"prefix":   logPrefix,
			"alert_id": alert.ID,
		}).Debug("broadcast task enqueued")
		return
	}

	log.WithFields(log.Fields{
		"prefix":   logPrefix,
		"alert_id": alert.ID,
		"error":    err,
	}).Warn("enqueue broadcast task, broadcast in process")
	sentry.CaptureException(fmt.Errorf("enqueue broadcast of alert %s: %w", alert.ID, err))

	if d.fallback != nil {
		d.fallback.Dispatch(alert)
	}
}
