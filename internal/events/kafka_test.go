package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	skafka "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
)

type fakeWriter struct {
	messages []skafka.Message
	writeErr error
	closed   bool
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...skafka.Message) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.messages = append(f.messages, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestKafkaSink_PublishMarshalsEvent(t *testing.T) {
	w := &fakeWriter{}
	sink := NewKafkaSinkWithWriter(w)

	event := ConsignmentUsageUpdated{
		ConsignmentNumber: "123456789012",
		BookingReference:  "OCL-ABCD1234",
	}
	err := sink.Publish(context.Background(), event.Key(), event)
	assert.NoError(t, err)

	if assert.Len(t, w.messages, 1) {
		msg := w.messages[0]
		assert.Equal(t, "123456789012", string(msg.Key))

		var decoded ConsignmentUsageUpdated
		assert.NoError(t, json.Unmarshal(msg.Value, &decoded))
		assert.Equal(t, "OCL-ABCD1234", decoded.BookingReference)
	}
}

func TestKafkaSink_WriteFailure(t *testing.T) {
	w := &fakeWriter{writeErr: errors.New("broker down")}
	sink := NewKafkaSinkWithWriter(w)

	err := sink.Publish(context.Background(), "k", ConsignmentUsageUpdated{})
	assert.Error(t, err)
}

func TestKafkaSink_Close(t *testing.T) {
	w := &fakeWriter{}
	sink := NewKafkaSinkWithWriter(w)
	assert.NoError(t, sink.Close())
	assert.True(t, w.closed)
}
