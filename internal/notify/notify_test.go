package notify

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/event-api/internal/config"
)

func TestNop(t *testing.T) {
	var p Publisher = Nop{}

	assert.NoError(t, p.Publish(context.Background(), Message{Type: TypeUserRegistered}))
	assert.NoError(t, p.Close())
}

func TestEncode(t *testing.T) {
	at := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)

	body, err := encode(Message{Type: TypeQuestionAsked, EventID: 3, UserID: 7, QuestionID: 11, OccurredAt: at})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, "question.asked", decoded["type"])
	assert.Equal(t, float64(3), decoded["event_id"])
	assert.Equal(t, float64(11), decoded["question_id"])
	assert.Equal(t, "2030-01-02T03:04:05Z", decoded["occurred_at"])
}

func TestEncode_DefaultsTimestampAndOmitsQuestion(t *testing.T) {
	body, err := encode(Message{Type: TypeUserRegistered, EventID: 1, UserID: 2})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.NotContains(t, decoded, "question_id")
	assert.NotEqual(t, "0001-01-01T00:00:00Z", decoded["occurred_at"])
}

func TestNewAMQPPublisher_BadURL(t *testing.T) {
	_, err := NewAMQPPublisher(&config.NotifyConfig{AMQPURL: "http://not-amqp", Exchange: "events"})
	assert.Error(t, err)
}
