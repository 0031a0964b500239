package rabbitmq_test

import (
	"encoding/json"
	"testing"
	"time"

	"juicebox/pkg/rabbitmq"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePostEvent(t *testing.T) {
	event := rabbitmq.PostEvent{
		Type:       rabbitmq.EventPostUpdated,
		PostID:     3,
		AuthorID:   1,
		Active:     false,
		Tags:       []string{"#happy"},
		OccurredAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	body, err := json.Marshal(event)
	require.NoError(t, err)

	got, err := rabbitmq.DecodePostEvent(body)
	require.NoError(t, err)
	assert.Equal(t, event, got)
}

func TestDecodePostEvent_Invalid(t *testing.T) {
	_, err := rabbitmq.DecodePostEvent([]byte("not json"))
	assert.Error(t, err)

	_, err = rabbitmq.DecodePostEvent([]byte(`{"postId": 1}`))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no type")
}
