// Package eventbus bridges outbox relay deliveries onto the in-process event bus.
package eventbus

import (
	"context"

	"github.com/rosterhq/roster/pkg/eventbus"
	"github.com/rosterhq/roster/pkg/outbox"
)

type Dispatcher struct {
	bus eventbus.EventBusWithError
}

func New(bus eventbus.EventBusWithError) *Dispatcher {
	return &Dispatcher{bus: bus}
}

// Dispatch publishes the message to subscribers of its topic. A handler
// error propagates back so the relay can retry with backoff.
func (d *Dispatcher) Dispatch(_ context.Context, msg outbox.DispatchedMessage) error {
	return d.bus.PublishE(&msg.Meta, msg.Meta.Topic, msg.Payload)
}
