package memory_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/sos-alert/internal/models"
	"github.com/magabrotheeeer/sos-alert/internal/storage"
	"github.com/magabrotheeeer/sos-alert/internal/storage/memory"
)

func TestStorage_Users(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	uid, err := s.RegisterUser(ctx, models.User{Username: "alice", Email: "alice@example.com", PasswordHash: "hash", Role: models.RoleUser})
	require.NoError(t, err)
	assert.NotEmpty(t, uid)

	_, err = s.RegisterUser(ctx, models.User{Username: "alice", Email: "other@example.com"})
	assert.True(t, errors.Is(err, storage.ErrUserExists))

	u, err := s.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, uid, u.UID)
	assert.False(t, u.EmailVerified)

	_, err = s.GetUserByUsername(ctx, "ghost")
	assert.True(t, errors.Is(err, storage.ErrNotFound))

	require.NoError(t, s.SetEmailVerified(ctx, "alice"))
	u, err = s.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, u.EmailVerified)

	require.NoError(t, s.UpdatePasswordHash(ctx, "alice", "newhash"))
	u, err = s.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "newhash", u.PasswordHash)

	assert.True(t, errors.Is(s.SetEmailVerified(ctx, "ghost"), storage.ErrNotFound))
	assert.True(t, errors.Is(s.UpdatePasswordHash(ctx, "ghost", "x"), storage.ErrNotFound))
}

func TestStorage_Contacts(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	first, err := s.CreateContact(ctx, models.EmergencyContact{Username: "alice", Name: "Mom", Phone: "+79991234567"})
	require.NoError(t, err)
	second, err := s.CreateContact(ctx, models.EmergencyContact{Username: "alice", Name: "Bob", Phone: "+79997654321"})
	require.NoError(t, err)
	assert.Greater(t, second, first)

	// Тот же телефон у другого пользователя — не дубликат.
	_, err = s.CreateContact(ctx, models.EmergencyContact{Username: "bob", Name: "Mom", Phone: "+79991234567"})
	require.NoError(t, err)

	_, err = s.CreateContact(ctx, models.EmergencyContact{Username: "alice", Name: "Mom again", Phone: "+79991234567"})
	assert.True(t, errors.Is(err, storage.ErrContactExists))

	list, err := s.ListContacts(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Mom", list[0].Name)
	assert.Equal(t, "Bob", list[1].Name)

	// Чужой ID удалить нельзя.
	err = s.RemoveContact(ctx, "bob", first)
	assert.True(t, errors.Is(err, storage.ErrNotFound))

	require.NoError(t, s.RemoveContact(ctx, "alice", first))
	list, err = s.ListContacts(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Bob", list[0].Name)
}

func TestStorage_Events(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	_, err := s.RemoveLastEvent(ctx, "alice")
	assert.True(t, errors.Is(err, storage.ErrNotFound))

	firstID, err := s.CreateEvent(ctx, models.SOSEvent{Username: "alice", Message: "first"})
	require.NoError(t, err)
	secondID, err := s.CreateEvent(ctx, models.SOSEvent{Username: "alice", Message: "second"})
	require.NoError(t, err)
	assert.Greater(t, secondID, firstID)

	events, err := s.ListEvents(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "first", events[0].Message)
	assert.Equal(t, "second", events[1].Message)

	// Отменяется именно последнее событие.
	canceled, err := s.RemoveLastEvent(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, secondID, canceled.ID)
	assert.Equal(t, "second", canceled.Message)

	events, err = s.ListEvents(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "first", events[0].Message)

	_, err = s.CreateEvent(ctx, models.SOSEvent{Username: "bob", Message: "bob sos"})
	require.NoError(t, err)

	all, err := s.ListAllEvents(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Len(t, all["alice"], 1)
	assert.Len(t, all["bob"], 1)
}

func TestStorage_Profiles(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	_, err := s.GetProfile(ctx, "alice")
	assert.True(t, errors.Is(err, storage.ErrNotFound))

	require.NoError(t, s.UpsertProfile(ctx, models.HealthProfile{
		Username:         "alice",
		Age:              30,
		BloodGroup:       "O+",
		HealthConditions: []string{"asthma"},
		Allergies:        []string{"penicillin"},
	}))

	// Повторный upsert целиком заменяет запись, а не сливает поля.
	require.NoError(t, s.UpsertProfile(ctx, models.HealthProfile{
		Username:   "alice",
		Age:        31,
		BloodGroup: "O+",
	}))

	p, err := s.GetProfile(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 31, p.Age)
	assert.Empty(t, p.HealthConditions)
	assert.Empty(t, p.Allergies)

	require.NoError(t, s.UpsertProfile(ctx, models.HealthProfile{Username: "bob", Age: 45}))

	all, err := s.ListAllProfiles(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestStorage_ConcurrentWriters(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	const writers = 20
	var wg sync.WaitGroup
	for i := range writers {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := s.CreateEvent(ctx, models.SOSEvent{Username: "alice", Message: fmt.Sprintf("msg-%d", n)})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	events, err := s.ListEvents(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, events, writers)

	seen := make(map[int]bool, writers)
	for _, e := range events {
		assert.False(t, seen[e.ID], "duplicate event id %d", e.ID)
		seen[e.ID] = true
	}
}
