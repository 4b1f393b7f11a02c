package sos_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/sos-alert/internal/models"
	sosservice "github.com/magabrotheeeer/sos-alert/internal/services/sos"
	"github.com/magabrotheeeer/sos-alert/internal/storage"
)

// Мок для EventRepository
type EventRepoMock struct {
	mock.Mock
}

func (m *EventRepoMock) CreateEvent(ctx context.Context, event models.SOSEvent) (int, error) {
	args := m.Called(ctx, event)
	return args.Int(0), args.Error(1)
}

func (m *EventRepoMock) ListEvents(ctx context.Context, username string) ([]*models.SOSEvent, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SOSEvent), args.Error(1)
}

func (m *EventRepoMock) RemoveLastEvent(ctx context.Context, username string) (*models.SOSEvent, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SOSEvent), args.Error(1)
}

func (m *EventRepoMock) ListAllEvents(ctx context.Context) (map[string][]*models.SOSEvent, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]*models.SOSEvent), args.Error(1)
}

// Мок для ContactLister
type ContactListerMock struct {
	mock.Mock
}

func (m *ContactListerMock) ListContacts(ctx context.Context, username string) ([]*models.EmergencyContact, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.EmergencyContact), args.Error(1)
}

// Мок для Notifier
type NotifierMock struct {
	mock.Mock
}

func (m *NotifierMock) Notify(ctx context.Context, username string, alert models.Alert) error {
	args := m.Called(ctx, username, alert)
	return args.Error(0)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSOSService_Trigger(t *testing.T) {
	contacts := []*models.EmergencyContact{
		{ID: 1, Username: "alice", Name: "Mom", Phone: "+79991234567", Relationship: "mother"},
		{ID: 2, Username: "alice", Name: "Bob", Phone: "+79997654321", Relationship: "friend"},
	}

	t.Run("one alert per contact with verbatim message", func(t *testing.T) {
		events := new(EventRepoMock)
		lister := new(ContactListerMock)
		notifier := new(NotifierMock)
		svc := sosservice.New(events, lister, notifier, newTestLogger())

		events.On("CreateEvent", mock.Anything, mock.MatchedBy(func(e models.SOSEvent) bool {
			return e.Username == "alice" && e.Message == "help me" && !e.Timestamp.IsZero()
		})).Return(7, nil).Once()
		lister.On("ListContacts", mock.Anything, "alice").Return(contacts, nil).Once()
		notifier.On("Notify", mock.Anything, "alice", mock.Anything).Return(nil).Twice()

		event, alerts, err := svc.Trigger(context.Background(), "alice", "help me")
		require.NoError(t, err)
		assert.Equal(t, 7, event.ID)
		require.Len(t, alerts, 2)
		for i, alert := range alerts {
			assert.Equal(t, contacts[i].Name, alert.To)
			assert.Equal(t, contacts[i].Phone, alert.Phone)
			assert.Equal(t, "ALERT! alice triggered an SOS: 'help me'", alert.AlertMessage)
			assert.True(t, alert.Delivered)
			assert.Empty(t, alert.Error)
		}

		events.AssertExpectations(t)
		lister.AssertExpectations(t)
		notifier.AssertExpectations(t)
	})

	t.Run("empty message rejected before persisting", func(t *testing.T) {
		events := new(EventRepoMock)
		lister := new(ContactListerMock)
		notifier := new(NotifierMock)
		svc := sosservice.New(events, lister, notifier, newTestLogger())

		_, _, err := svc.Trigger(context.Background(), "alice", "   ")
		assert.True(t, errors.Is(err, sosservice.ErrEmptyMessage))
		events.AssertNotCalled(t, "CreateEvent", mock.Anything, mock.Anything)
	})

	t.Run("delivery failure marks alert but keeps event", func(t *testing.T) {
		events := new(EventRepoMock)
		lister := new(ContactListerMock)
		notifier := new(NotifierMock)
		svc := sosservice.New(events, lister, notifier, newTestLogger())

		events.On("CreateEvent", mock.Anything, mock.Anything).Return(1, nil).Once()
		lister.On("ListContacts", mock.Anything, "alice").Return(contacts, nil).Once()
		notifier.On("Notify", mock.Anything, "alice", mock.MatchedBy(func(a models.Alert) bool {
			return a.To == "Mom"
		})).Return(errors.New("broker down")).Once()
		notifier.On("Notify", mock.Anything, "alice", mock.MatchedBy(func(a models.Alert) bool {
			return a.To == "Bob"
		})).Return(nil).Once()

		event, alerts, err := svc.Trigger(context.Background(), "alice", "help")
		require.NoError(t, err)
		assert.NotNil(t, event)
		require.Len(t, alerts, 2)
		assert.False(t, alerts[0].Delivered)
		assert.Contains(t, alerts[0].Error, "broker down")
		assert.True(t, alerts[1].Delivered)

		notifier.AssertExpectations(t)
	})

	t.Run("no contacts gives empty alert list", func(t *testing.T) {
		events := new(EventRepoMock)
		lister := new(ContactListerMock)
		notifier := new(NotifierMock)
		svc := sosservice.New(events, lister, notifier, newTestLogger())

		events.On("CreateEvent", mock.Anything, mock.Anything).Return(1, nil).Once()
		lister.On("ListContacts", mock.Anything, "alice").
			Return([]*models.EmergencyContact{}, nil).Once()

		event, alerts, err := svc.Trigger(context.Background(), "alice", "help")
		require.NoError(t, err)
		assert.NotNil(t, event)
		assert.Empty(t, alerts)
		notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("contact listing failure still keeps event", func(t *testing.T) {
		events := new(EventRepoMock)
		lister := new(ContactListerMock)
		notifier := new(NotifierMock)
		svc := sosservice.New(events, lister, notifier, newTestLogger())

		events.On("CreateEvent", mock.Anything, mock.Anything).Return(3, nil).Once()
		lister.On("ListContacts", mock.Anything, "alice").
			Return(nil, errors.New("db down")).Once()

		event, alerts, err := svc.Trigger(context.Background(), "alice", "help")
		require.NoError(t, err)
		assert.Equal(t, 3, event.ID)
		assert.Empty(t, alerts)
	})
}

func TestSOSService_Cancel(t *testing.T) {
	t.Run("cancels last event", func(t *testing.T) {
		events := new(EventRepoMock)
		svc := sosservice.New(events, new(ContactListerMock), new(NotifierMock), newTestLogger())

		last := &models.SOSEvent{ID: 5, Username: "alice", Message: "help"}
		events.On("RemoveLastEvent", mock.Anything, "alice").Return(last, nil).Once()

		got, err := svc.Cancel(context.Background(), "alice")
		require.NoError(t, err)
		assert.Equal(t, last, got)
		events.AssertExpectations(t)
	})

	t.Run("empty journal", func(t *testing.T) {
		events := new(EventRepoMock)
		svc := sosservice.New(events, new(ContactListerMock), new(NotifierMock), newTestLogger())

		events.On("RemoveLastEvent", mock.Anything, "alice").
			Return(nil, storage.ErrNotFound).Once()

		_, err := svc.Cancel(context.Background(), "alice")
		assert.True(t, errors.Is(err, storage.ErrNotFound))
	})
}

func TestSOSService_ListAll(t *testing.T) {
	events := new(EventRepoMock)
	svc := sosservice.New(events, new(ContactListerMock), new(NotifierMock), newTestLogger())

	all := map[string][]*models.SOSEvent{
		"alice": {{ID: 1, Username: "alice", Message: "help"}},
		"bob":   {{ID: 2, Username: "bob", Message: "sos"}},
	}
	events.On("ListAllEvents", mock.Anything).Return(all, nil).Once()

	got, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, all, got)
}
