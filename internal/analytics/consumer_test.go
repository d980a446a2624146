package analytics_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/luizdk/shortener/internal/analytics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockSubscriber struct {
	createdChan  chan *message.Message
	accessedChan chan *message.Message
	subscribeErr error
	mu           sync.Mutex
	closed       bool
}

func newMockSubscriber() *mockSubscriber {
	return &mockSubscriber{
		createdChan:  make(chan *message.Message, 10),
		accessedChan: make(chan *message.Message, 10),
	}
}

func (m *mockSubscriber) Subscribe(_ context.Context, topic string) (<-chan *message.Message, error) {
	if m.subscribeErr != nil {
		return nil, m.subscribeErr
	}

	switch topic {
	case analytics.TopicURLCreated:
		return m.createdChan, nil
	case analytics.TopicURLAccessed:
		return m.accessedChan, nil
	default:
		return nil, errors.New("unknown topic")
	}
}

func (m *mockSubscriber) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.closed {
		m.closed = true
		close(m.createdChan)
		close(m.accessedChan)
	}

	return nil
}

type recordingStore struct {
	mu             sync.Mutex
	accessedEvents []*analytics.URLAccessedEvent
	createdEvents  []*analytics.URLCreatedEvent
	saveErr        error
}

func (s *recordingStore) SaveURLCreated(_ context.Context, event *analytics.URLCreatedEvent) error {
	if s.saveErr != nil {
		return s.saveErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.createdEvents = append(s.createdEvents, event)

	return nil
}

func (s *recordingStore) SaveURLAccessed(_ context.Context, event *analytics.URLAccessedEvent) error {
	if s.saveErr != nil {
		return s.saveErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.accessedEvents = append(s.accessedEvents, event)

	return nil
}

func (s *recordingStore) accessed() []*analytics.URLAccessedEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]*analytics.URLAccessedEvent(nil), s.accessedEvents...)
}

func newAccessedMessage(t *testing.T, code string) *message.Message {
	t.Helper()

	payload, err := json.Marshal(&analytics.URLAccessedEvent{
		ID:         uuid.NewString(),
		Code:       code,
		AccessedAt: time.Now(),
	})
	require.NoError(t, err)

	return message.NewMessage(uuid.NewString(), payload)
}

func TestConsumer_Start(t *testing.T) {
	t.Run("starts successfully", func(t *testing.T) {
		sub := newMockSubscriber()
		consumer := analytics.NewConsumer(sub, &recordingStore{}, zap.NewNop())

		err := consumer.Start(context.Background())

		require.NoError(t, err)

		_ = consumer.Shutdown()
	})

	t.Run("returns subscribe error", func(t *testing.T) {
		sub := newMockSubscriber()
		sub.subscribeErr = errors.New("subscribe failed")
		consumer := analytics.NewConsumer(sub, &recordingStore{}, zap.NewNop())

		err := consumer.Start(context.Background())

		assert.Error(t, err)
	})
}

func TestConsumer_ProcessesAccessEvents(t *testing.T) {
	sub := newMockSubscriber()
	rec := &recordingStore{}
	consumer := analytics.NewConsumer(sub, rec, zap.NewNop())

	require.NoError(t, consumer.Start(context.Background()))

	msg := newAccessedMessage(t, "abc12")
	sub.accessedChan <- msg

	select {
	case <-msg.Acked():
	case <-time.After(time.Second):
		t.Fatal("message was not acked")
	}

	require.NoError(t, consumer.Shutdown())

	events := rec.accessed()
	require.Len(t, events, 1)
	assert.Equal(t, "abc12", events[0].Code)
}

func TestConsumer_NacksOnStoreError(t *testing.T) {
	sub := newMockSubscriber()
	rec := &recordingStore{saveErr: errors.New("store down")}
	consumer := analytics.NewConsumer(sub, rec, zap.NewNop())

	require.NoError(t, consumer.Start(context.Background()))

	msg := newAccessedMessage(t, "abc12")
	sub.accessedChan <- msg

	select {
	case <-msg.Nacked():
	case <-time.After(time.Second):
		t.Fatal("message was not nacked")
	}

	require.NoError(t, consumer.Shutdown())
}

func TestConsumer_NacksMalformedPayload(t *testing.T) {
	sub := newMockSubscriber()
	consumer := analytics.NewConsumer(sub, &recordingStore{}, zap.NewNop())

	require.NoError(t, consumer.Start(context.Background()))

	msg := message.NewMessage(uuid.NewString(), []byte("{not json"))
	sub.accessedChan <- msg

	select {
	case <-msg.Nacked():
	case <-time.After(time.Second):
		t.Fatal("message was not nacked")
	}

	require.NoError(t, consumer.Shutdown())
}
