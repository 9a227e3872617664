package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/carwash-aggregator/internal/engine/daylog"
	"github.com/magabrotheeeer/carwash-aggregator/internal/models"
	services "github.com/magabrotheeeer/carwash-aggregator/internal/services/subscription"
	"github.com/magabrotheeeer/carwash-aggregator/internal/storage"
)

// MockService реализует интерфейс read.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Read(ctx context.Context, id string) (*services.DetailView, error) {
	args := m.Called(ctx, id)
	if res := args.Get(0); res != nil {
		return res.(*services.DetailView), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestReadHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	view := &services.DetailView{
		Subscription: &models.Subscription{
			ID:            "sub-1",
			Username:      "testuser",
			CarPlate:      "A123BC",
			StartDate:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			ServicesTotal: 30,
			Status:        "active",
		},
		Ledger: []daylog.Entry{
			{DayIndex: 1, Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Status: daylog.StatusScheduled, IsNext: true},
		},
	}

	tests := []struct {
		name           string
		id             string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешное чтение абонемента",
			id:   "sub-1",
			setupMock: func(m *MockService) {
				m.On("Read", mock.Anything, "sub-1").Return(view, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"car_plate":"A123BC"`,
		},
		{
			name: "абонемент не найден",
			id:   "missing",
			setupMock: func(m *MockService) {
				m.On("Read", mock.Anything, "missing").Return(nil, storage.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"subscription not found"`,
		},
		{
			name: "расхождение счетчиков",
			id:   "drift",
			setupMock: func(m *MockService) {
				m.On("Read", mock.Anything, "drift").Return(nil, daylog.ErrCounterDrift)
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"subscription state is inconsistent"`,
		},
		{
			name: "ошибка сервиса чтения",
			id:   "sub-2",
			setupMock: func(m *MockService) {
				m.On("Read", mock.Anything, "sub-2").Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"could not read subscription"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, "/subscriptions/"+tt.id, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
