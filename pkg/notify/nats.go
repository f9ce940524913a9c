package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

// SubjectPrefix is the NATS subject prefix for task events; the event
// kind is appended (tasks.events.assigned, tasks.events.overdue, ...).
const SubjectPrefix = "tasks.events."

// NATSDispatcher publishes task events to NATS core subjects. Publishes
// are buffered client-side, so a momentary broker outage does not block
// the caller.
type NATSDispatcher struct {
	nc *nats.Conn
}

// NewNATSDispatcher connects to the broker at url.
func NewNATSDispatcher(url string) (*NATSDispatcher, error) {
	nc, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(10),
		nats.ReconnectWait(time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return &NATSDispatcher{nc: nc}, nil
}

func (d *NATSDispatcher) Fire(_ context.Context, taskID uuid.UUID, kind string) error {
	data, err := json.Marshal(Event{
		TaskID:  taskID,
		Kind:    kind,
		FiredAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := d.nc.Publish(SubjectPrefix+kind, data); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

func (d *NATSDispatcher) Close() error {
	if d.nc != nil {
		d.nc.Close()
	}
	return nil
}
