package cancel

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/sos-alert/internal/http/middlewarectx"
	"github.com/magabrotheeeer/sos-alert/internal/models"
	"github.com/magabrotheeeer/sos-alert/internal/storage"
)

// Мок сервиса SOS
type SOSServiceMock struct {
	mock.Mock
}

func (m *SOSServiceMock) Cancel(ctx context.Context, username string) (*models.SOSEvent, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SOSEvent), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRequest(username string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/sos/cancel", nil)
	ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123")
	if username != "" {
		ctx = context.WithValue(ctx, middlewarectx.User, username)
	}
	return req.WithContext(ctx)
}

func TestCancelHandler_ServeHTTP(t *testing.T) {
	t.Run("cancels last event", func(t *testing.T) {
		serviceMock := new(SOSServiceMock)
		handler := New(newNoopLogger(), serviceMock)

		event := &models.SOSEvent{ID: 5, Username: "alice", Message: "help"}
		serviceMock.On("Cancel", mock.Anything, "alice").Return(event, nil).Once()

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, newRequest("alice"))

		assert.Equal(t, http.StatusOK, rec.Code)

		var got map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, "OK", got["status"])
		data := got["data"].(map[string]any)
		canceled := data["canceled_sos"].(map[string]any)
		assert.Equal(t, float64(5), canceled["id"])
		assert.Equal(t, "help", canceled["message"])

		serviceMock.AssertExpectations(t)
	})

	t.Run("empty journal gives 404", func(t *testing.T) {
		serviceMock := new(SOSServiceMock)
		handler := New(newNoopLogger(), serviceMock)

		serviceMock.On("Cancel", mock.Anything, "alice").
			Return(nil, storage.ErrNotFound).Once()

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, newRequest("alice"))

		assert.Equal(t, http.StatusNotFound, rec.Code)

		var got map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, "no active sos events", got["error"])
	})

	t.Run("missing identity gives 401", func(t *testing.T) {
		serviceMock := new(SOSServiceMock)
		handler := New(newNoopLogger(), serviceMock)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, newRequest(""))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		serviceMock.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything)
	})
}
