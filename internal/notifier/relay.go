package notifier

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/good-yellow-bee/collabhub/internal/logging"
	"github.com/good-yellow-bee/collabhub/internal/models"
)

// DefaultSendTimeout bounds one relayed delivery.
const DefaultSendTimeout = 30 * time.Second

type job struct {
	n        *models.Notification
	channels []string
}

// Relay delivers notifications in the background so the caller never waits
// on the network. Enqueue never blocks; a full queue drops the notification.
type Relay struct {
	dispatcher *Dispatcher
	queue      chan job
	timeout    time.Duration
	log        *logrus.Entry
}

// NewRelay creates a relay with room for buffer pending notifications.
func NewRelay(d *Dispatcher, buffer int) *Relay {
	if buffer <= 0 {
		buffer = 64
	}
	return &Relay{
		dispatcher: d,
		queue:      make(chan job, buffer),
		timeout:    DefaultSendTimeout,
		log:        logging.Component("notifier"),
	}
}

// Enqueue schedules n for delivery to channels. It reports false when the
// notification was dropped.
func (r *Relay) Enqueue(n *models.Notification, channels []string) bool {
	if len(channels) == 0 {
		return false
	}
	select {
	case r.queue <- job{n: n, channels: channels}:
		return true
	default:
		r.log.WithField("notification_id", n.ID).Warn("relay queue full, notification dropped")
		return false
	}
}

// Run delivers queued notifications until ctx is done.
func (r *Relay) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case j := <-r.queue:
			r.deliver(ctx, j)
		}
	}
}

func (r *Relay) deliver(ctx context.Context, j job) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	fields := logrus.Fields{
		"notification_id": j.n.ID,
		"type":            j.n.Type,
		"channels":        j.channels,
	}
	err := r.dispatcher.Dispatch(ctx, j.n, j.channels)
	switch {
	case err == nil:
		r.log.WithFields(fields).Debug("notification relayed")
	case errors.Is(err, ErrRateLimited):
		r.log.WithFields(fields).Warn("notification rate limited")
	default:
		r.log.WithFields(fields).WithError(err).Error("notification relay failed")
	}
}
