// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package system

import (
	"fmt"

	"github.com/Fantom-foundation/Keel/go/keel"
)

// DefaultMaxEvents bounds the number of events of a transaction.
const DefaultMaxEvents = 256

// EventsModule collects the events emitted during a transaction.
type EventsModule struct {
	BaseModule
	maxEvents int
	events    []keel.Event
}

func NewEventsModule(maxEvents int) *EventsModule {
	if maxEvents <= 0 {
		maxEvents = DefaultMaxEvents
	}
	return &EventsModule{maxEvents: maxEvents}
}

func (m *EventsModule) Name() string {
	return "events"
}

func (m *EventsModule) Emit(event keel.Event) error {
	if len(m.events) >= m.maxEvents {
		return fmt.Errorf("%w: limit is %d", ErrTooManyEvents, m.maxEvents)
	}
	m.events = append(m.events, event)
	return nil
}

// Events lists the collected events in emission order.
func (m *EventsModule) Events() []keel.Event {
	return m.events
}
