package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/lib/pq"
	log "github.com/sirupsen/logrus"
)

const (
	listenerLogPrefix    = "alert-listener"
	minReconnectInterval = 10 * time.Second
	maxReconnectInterval = time.Minute
	listenerPingInterval = 90 * time.Second
)

var ErrNoListener = fmt.Errorf("alert subscriptions are not configured")

// alertHub shares one LISTEN connection among all owner subscriptions.
type alertHub struct {
	connString string

	mu          sync.Mutex
	listener    *pq.Listener
	quit        chan struct{}
	done        chan struct{}
	nextID      int
	subscribers map[string]map[int]func()
}

func newAlertHub(connString string) *alertHub {
	return &alertHub{
		connString:  connString,
		subscribers: make(map[string]map[int]func()),
	}
}

func (h *alertHub) subscribe(ownerID string, refresh func()) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.listener == nil {
		if err := h.start(); err != nil {
			return 0, err
		}
	}

	h.nextID++
	if h.subscribers[ownerID] == nil {
		h.subscribers[ownerID] = make(map[int]func())
	}
	h.subscribers[ownerID][h.nextID] = refresh

	return h.nextID, nil
}

func (h *alertHub) unsubscribe(ownerID string, id int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.subscribers[ownerID], id)
	if len(h.subscribers[ownerID]) == 0 {
		delete(h.subscribers, ownerID)
	}
}

// start must be called with mu held.
func (h *alertHub) start() error {
	if h.connString == "" {
		return ErrNoListener
	}

	l := pq.NewListener(h.connString, minReconnectInterval, maxReconnectInterval, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			log.WithFields(log.Fields{
				"prefix": listenerLogPrefix,
				"event":  ev,
				"error":  err,
			}).Warn("listener event")
		}
	})

	if err := l.Listen(alertChannel); err != nil {
		_ = l.Close()
		return err
	}

	h.listener = l
	h.quit = make(chan struct{})
	h.done = make(chan struct{})
	go h.run(l, h.quit, h.done)

	log.WithField("prefix", listenerLogPrefix).Info("listening for alert changes")
	return nil
}

func (h *alertHub) run(l *pq.Listener, quit, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(listenerPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-quit:
			return
		case n := <-l.Notify:
			if n == nil {
				// reconnected, notifications may have been missed
				h.refresh("")
				continue
			}
			h.refresh(n.Extra)
		case <-ticker.C:
			go func() {
				if err := l.Ping(); err != nil {
					log.WithFields(log.Fields{
						"prefix": listenerLogPrefix,
						"error":  err,
					}).Warn("ping listener")
				}
			}()
		}
	}
}

// refresh runs the subscribers of ownerID, or all of them for an empty id.
func (h *alertHub) refresh(ownerID string) {
	h.mu.Lock()
	var refreshes []func()
	for owner, subs := range h.subscribers {
		if ownerID != "" && owner != ownerID {
			continue
		}
		for _, f := range subs {
			refreshes = append(refreshes, f)
		}
	}
	h.mu.Unlock()

	for _, f := range refreshes {
		f()
	}
}

func (h *alertHub) close() {
	h.mu.Lock()
	l, quit, done := h.listener, h.quit, h.done
	h.listener = nil
	h.mu.Unlock()

	if l == nil {
		return
	}

	close(quit)
	<-done
	_ = l.Close()
}
