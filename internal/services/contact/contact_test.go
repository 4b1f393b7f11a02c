package contact_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/sos-alert/internal/config"
	"github.com/magabrotheeeer/sos-alert/internal/lib/phone"
	"github.com/magabrotheeeer/sos-alert/internal/models"
	contactservice "github.com/magabrotheeeer/sos-alert/internal/services/contact"
	"github.com/magabrotheeeer/sos-alert/internal/storage"
)

// Мок для ContactRepository
type ContactRepoMock struct {
	mock.Mock
}

func (m *ContactRepoMock) CreateContact(ctx context.Context, contact models.EmergencyContact) (int, error) {
	args := m.Called(ctx, contact)
	return args.Int(0), args.Error(1)
}

func (m *ContactRepoMock) ListContacts(ctx context.Context, username string) ([]*models.EmergencyContact, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.EmergencyContact), args.Error(1)
}

func (m *ContactRepoMock) RemoveContact(ctx context.Context, username string, id int) error {
	args := m.Called(ctx, username, id)
	return args.Error(0)
}

func newService(t *testing.T, repo *ContactRepoMock) *contactservice.Service {
	t.Helper()
	validator, err := phone.NewValidator(config.Phone{Format: "international"})
	require.NoError(t, err)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return contactservice.New(repo, validator, log)
}

func TestContactService_Add(t *testing.T) {
	tests := []struct {
		name       string
		req        models.DummyContact
		setupMocks func(r *ContactRepoMock)
		wantID     int
		wantErr    error
	}{
		{
			name: "valid contact",
			req:  models.DummyContact{Name: "Mom", Phone: "+79991234567", Relationship: "mother"},
			setupMocks: func(r *ContactRepoMock) {
				r.On("CreateContact", mock.Anything, mock.MatchedBy(func(c models.EmergencyContact) bool {
					return c.Username == "alice" && c.Phone == "+79991234567"
				})).Return(1, nil).Once()
			},
			wantID: 1,
		},
		{
			name:       "invalid phone keeps registry untouched",
			req:        models.DummyContact{Name: "Mom", Phone: "not-a-phone", Relationship: "mother"},
			setupMocks: func(_ *ContactRepoMock) {},
			wantErr:    contactservice.ErrInvalidPhone,
		},
		{
			name: "duplicate phone",
			req:  models.DummyContact{Name: "Mom", Phone: "+79991234567", Relationship: "mother"},
			setupMocks: func(r *ContactRepoMock) {
				r.On("CreateContact", mock.Anything, mock.Anything).
					Return(0, storage.ErrContactExists).Once()
			},
			wantErr: storage.ErrContactExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(ContactRepoMock)
			svc := newService(t, repo)
			tt.setupMocks(repo)

			id, err := svc.Add(context.Background(), "alice", tt.req)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantID, id)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestContactService_List(t *testing.T) {
	repo := new(ContactRepoMock)
	svc := newService(t, repo)

	contacts := []*models.EmergencyContact{
		{ID: 1, Username: "alice", Name: "Mom", Phone: "+79991234567", Relationship: "mother"},
		{ID: 2, Username: "alice", Name: "Bob", Phone: "+79997654321", Relationship: "friend"},
	}
	repo.On("ListContacts", mock.Anything, "alice").Return(contacts, nil).Once()

	got, err := svc.List(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, contacts, got)
	repo.AssertExpectations(t)
}

func TestContactService_Remove(t *testing.T) {
	t.Run("existing contact", func(t *testing.T) {
		repo := new(ContactRepoMock)
		svc := newService(t, repo)
		repo.On("RemoveContact", mock.Anything, "alice", 1).Return(nil).Once()

		assert.NoError(t, svc.Remove(context.Background(), "alice", 1))
		repo.AssertExpectations(t)
	})

	t.Run("foreign contact id", func(t *testing.T) {
		repo := new(ContactRepoMock)
		svc := newService(t, repo)
		repo.On("RemoveContact", mock.Anything, "alice", 42).
			Return(storage.ErrNotFound).Once()

		err := svc.Remove(context.Background(), "alice", 42)
		assert.True(t, errors.Is(err, storage.ErrNotFound))
		repo.AssertExpectations(t)
	})
}
