package emergency

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	log "github.com/sirupsen/logrus"

	"github.com/guardknight/guardknight-api/schema"
)

// BroadcastFunc performs the fan-out of one alert.
type BroadcastFunc func(ctx context.Context, alert schema.EmergencyAlert) BroadcastResult

// AsyncDispatcher runs each broadcast on its own goroutine with a bounded
// context.
type AsyncDispatcher struct {
	broadcast BroadcastFunc
	timeout   time.Duration
	wg        sync.WaitGroup
}

func NewAsyncDispatcher(broadcast BroadcastFunc, timeout time.Duration) *AsyncDispatcher {
	if timeout <= 0 {
		timeout = defaultBroadcastTimeout
	}
	return &AsyncDispatcher{
		broadcast: broadcast,
		timeout:   timeout,
	}
}

func (d *AsyncDispatcher) Dispatch(alert schema.EmergencyAlert) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.WithFields(log.Fields{
					"prefix":   logPrefix,
					"alert_id": alert.ID,
					"panic":    r,
				}).Error("alert broadcast panicked")
				sentry.CaptureException(fmt.Errorf("alert %s broadcast panic: %v", alert.ID, r))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		d.broadcast(ctx, alert)
	}()
}

// Wait blocks until every dispatched broadcast has finished.
func (d *AsyncDispatcher) Wait() {
	d.wg.Wait()
}
