package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/metrics"
	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/models"
)

type mockBus struct {
	mock.Mock
}

func (m *mockBus) SendMessage(ctx context.Context, body interface{}) error {
	return m.Called(ctx, body).Error(0)
}

func (m *mockBus) Close() error {
	return m.Called().Error(0)
}

func TestFlush_PublishesPendingAndSkipsFailures(t *testing.T) {
	repo := new(MockRepository)
	bus := new(mockBus)
	notifier := NewNotifier(repo, bus, metrics.NewMetrics())

	good := &models.Notification{Model: models.Model{ID: uuid.New()}, EventType: EventLeadCreated}
	bad := &models.Notification{Model: models.Model{ID: uuid.New()}, EventType: EventLeadUpdated}

	repo.On("ListUnpublishedNotifications", mock.Anything, 50).
		Return([]*models.Notification{good, bad}, nil)
	bus.On("SendMessage", mock.Anything, mock.MatchedBy(func(body interface{}) bool {
		payload := body.(map[string]interface{})
		return payload["id"] == good.ID.String()
	})).Return(nil)
	bus.On("SendMessage", mock.Anything, mock.Anything).Return(errors.New("bus down"))
	repo.On("MarkNotificationPublished", mock.Anything, good.ID).Return(nil)
	repo.On("MarkNotificationFailed", mock.Anything, bad.ID, "bus down").Return(nil)

	published, err := notifier.Flush(context.Background(), 50)
	require.NoError(t, err)
	require.Equal(t, 1, published)
	repo.AssertCalled(t, "MarkNotificationFailed", mock.Anything, bad.ID, "bus down")
}

func TestFlush_ListFailurePropagates(t *testing.T) {
	repo := new(MockRepository)
	notifier := NewNotifier(repo, new(mockBus), metrics.NewMetrics())

	repo.On("ListUnpublishedNotifications", mock.Anything, 10).
		Return(nil, errors.New("db down"))

	_, err := notifier.Flush(context.Background(), 10)
	require.Error(t, err)
}
