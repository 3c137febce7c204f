package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishSubscribe(t *testing.T) {
	bus := NewEventBus()

	var seen []string
	bus.Subscribe(EventLoanCreated, func(event *Event) error {
		seen = append(seen, event.Type)
		return nil
	})
	bus.Subscribe(EventLoanDeleted, func(event *Event) error {
		seen = append(seen, event.Type)
		return nil
	})

	bus.Publish(&Event{Type: EventLoanCreated})
	bus.Publish(&Event{Type: EventLoanApproved}) // no subscriber
	bus.Publish(&Event{Type: EventLoanDeleted})

	assert.Equal(t, []string{EventLoanCreated, EventLoanDeleted}, seen)
}

func TestPublishJSONPayload(t *testing.T) {
	bus := NewEventBus()

	var got LoanEventPayload
	bus.Subscribe(EventLoanApproved, func(event *Event) error {
		return json.Unmarshal(event.Payload, &got)
	})

	payload := LoanEventPayload{LoanID: 7, BorrowerName: "budi", Status: "Approved", ChangedBy: "pak-admin"}
	require.NoError(t, bus.PublishJSON(EventLoanApproved, payload))

	assert.Equal(t, int64(7), got.LoanID)
	assert.Equal(t, "pak-admin", got.ChangedBy)
}

func TestNilBusPublishJSON(t *testing.T) {
	var bus *EventBus
	assert.NoError(t, bus.PublishJSON(EventLoanCreated, LoanEventPayload{}))
}
