package outbox

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"enablers/internal/domain/planning"
	"enablers/internal/domain/shared/events"
)

func TestEnvelopeWrapsEncodedEvent(t *testing.T) {
	at := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	ev := planning.VenueConfirmed{EventID: "ev1", HostID: "h1", Location: "Austin", At: at}

	recs, err := EncodeAll(JSONEventEncoder{IDGenerator: func() string { return "id-1" }}, []events.DomainEvent{ev})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "event.venue_confirmed", recs[0].Name)
	assert.Equal(t, "ev1", recs[0].Aggregate)

	payload, headers, err := Envelope(recs[0], "")
	require.NoError(t, err)
	assert.Equal(t, "application/cloudevents+json", headers["content-type"])

	var decoded CloudEvent
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, "1.0", decoded.SpecVersion)
	assert.Equal(t, "id-1", decoded.ID)
	assert.Equal(t, "event.venue_confirmed.v1", decoded.Type)
	assert.Equal(t, DefaultSource, decoded.Source)
	assert.True(t, at.Equal(decoded.Time))

	var data planning.VenueConfirmed
	require.NoError(t, json.Unmarshal(decoded.Data, &data))
	assert.Equal(t, "Austin", data.Location)
}

func TestTopicFor(t *testing.T) {
	assert.Equal(t, "booking.events.v1", TopicFor("", "booking.created"))
	assert.Equal(t, "dev.event.events.v1", TopicFor("dev.", "event.venue_confirmed"))
	assert.Equal(t, "notification.events.v1", TopicFor("", "notification"))
}
