package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/harshnandal981/Advermo-sub000/internal/bookings"
	"github.com/harshnandal981/Advermo-sub000/internal/shared/apperrors"
	"github.com/harshnandal981/Advermo-sub000/internal/shared/config"
	"github.com/harshnandal981/Advermo-sub000/internal/users"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func transition(to bookings.Status) bookings.BookingTransitioned {
	return bookings.BookingTransitioned{
		BookingID:  uuid.New(),
		SpaceID:    "spc-1",
		BrandID:    uuid.New(),
		BrandEmail: "brand@example.com",
		OwnerID:    uuid.New(),
		OwnerEmail: "owner@example.com",
		From:       bookings.StatusPending,
		To:         to,
		ActorID:    uuid.New(),
		ActorRole:  users.RoleVenueOwner,
		OccurredAt: time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC),
	}
}

func header(msg *sarama.ProducerMessage, key string) string {
	for _, h := range msg.Headers {
		if string(h.Key) == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestPublishTransitionWritesKeyedMessage(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	publisher := NewKafkaTransitionPublisherWithProducer(producer, DefaultKafkaProducerConfig())
	event := transition(bookings.StatusConfirmed)

	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		assert.Equal(t, "booking-transitions", msg.Topic)

		key, err := msg.Key.Encode()
		require.NoError(t, err)
		assert.Equal(t, event.BookingID.String(), string(key))

		assert.Equal(t, string(NotificationTypeBookingConfirmed), header(msg, "notification_type"))
		assert.Equal(t, "pending", header(msg, "from_status"))
		assert.Equal(t, "confirmed", header(msg, "to_status"))

		value, err := msg.Value.Encode()
		require.NoError(t, err)
		var decoded TransitionNotification
		require.NoError(t, json.Unmarshal(value, &decoded))
		assert.Equal(t, event.BookingID, decoded.Transition.BookingID)
		require.Len(t, decoded.Recipients, 1)
		assert.Equal(t, event.BrandID, decoded.Recipients[0].UserID)
		return nil
	})

	require.NoError(t, publisher.PublishTransition(context.Background(), event))
	require.NoError(t, publisher.Close())
}

func TestPublishTransitionFailureIsRetryable(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	publisher := NewKafkaTransitionPublisherWithProducer(producer, DefaultKafkaProducerConfig())
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	err := publisher.PublishTransition(context.Background(), transition(bookings.StatusRejected))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrExternal))
	assert.True(t, apperrors.Retryable(err))
	require.NoError(t, publisher.Close())
}

func TestFromTransitionRecipients(t *testing.T) {
	created := transition(bookings.StatusPending)
	created.From = ""
	n := FromTransition(created)
	assert.Equal(t, NotificationTypeBookingRequested, n.Type)
	assert.Equal(t, NotificationPriorityHigh, n.Priority)
	require.Len(t, n.Recipients, 1)
	assert.Equal(t, users.RoleVenueOwner, n.Recipients[0].Role)

	cancelled := FromTransition(transition(bookings.StatusCancelled))
	assert.Len(t, cancelled.Recipients, 2)

	completed := FromTransition(transition(bookings.StatusCompleted))
	assert.Equal(t, NotificationTypeBookingCompleted, completed.Type)
	assert.Equal(t, NotificationPriorityLow, completed.Priority)
	assert.Equal(t, users.RoleBrand, completed.Recipients[0].Role)
}

func TestNewPublisherFallsBackToLog(t *testing.T) {
	publisher, closeFn, err := NewPublisher(config.KafkaConfig{Enabled: false})
	require.NoError(t, err)
	require.NotNil(t, closeFn)
	assert.NoError(t, publisher.PublishTransition(context.Background(), transition(bookings.StatusActive)))
	assert.NoError(t, closeFn())
}
