package storage

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/carwash-aggregator/internal/models"
)

func TestStorage_ReadSubscription(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	startDate := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	userUID := uuid.New().String()
	factory.CreateUser(t, userUID, "testuser", "test@example.com", "hashedpassword", "user")
	subID := factory.CreateSubscription(t, "testuser", "A123BC", startDate, 2, 30, "ongoing")
	factory.CreateWorker(t, subID, uuid.New().String(), "Petr", "+70000000001")
	factory.CreateServiceHistory(t, subID, startDate)
	factory.CreateServiceHistory(t, subID, startDate.AddDate(0, 0, 1))

	serviceDate := startDate.AddDate(0, 0, 5)
	_, err := storage.CreateAddon(context.Background(), subID, models.Addon{
		Name:        "Wax",
		Price:       300,
		ServiceDate: &serviceDate,
		DateAdded:   startDate,
	})
	require.NoError(t, err)

	got, err := storage.ReadSubscription(context.Background(), subID)
	require.NoError(t, err)

	assert.Equal(t, "testuser", got.Username)
	assert.Equal(t, "A123BC", got.CarPlate)
	assert.Equal(t, 2, got.ServicesCompleted)
	assert.Equal(t, 30, got.ServicesTotal)
	require.NotNil(t, got.Worker)
	assert.Equal(t, "Petr", got.Worker.Name)
	require.Len(t, got.History, 2)
	require.Len(t, got.Addons, 1)
	require.NotNil(t, got.Addons[0].ServiceDate)
}

func TestStorage_ReadSubscription_NotFound(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	_, err := storage.ReadSubscription(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStorage_ListSubscriptions(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	startDate := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	factory.CreateUser(t, uuid.New().String(), "user1", "user1@example.com", "hash1", "user")
	factory.CreateUser(t, uuid.New().String(), "user2", "user2@example.com", "hash2", "user")
	factory.CreateSubscription(t, "user1", "A111AA", startDate, 0, 30, "active")
	factory.CreateSubscription(t, "user1", "B222BB", startDate.AddDate(0, 1, 0), 0, 30, "active")
	factory.CreateSubscription(t, "user2", "C333CC", startDate, 0, 30, "active")

	got, err := storage.ListSubscriptions(context.Background(), "user1", 10, 0)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	all, err := storage.ListAllSubscriptions(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	paged, err := storage.ListAllSubscriptions(context.Background(), 2, 2)
	require.NoError(t, err)
	assert.Len(t, paged, 1)
}

func TestStorage_MarkServiceDone(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	startDate := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	factory.CreateUser(t, uuid.New().String(), "testuser", "test@example.com", "hash", "user")
	subID := factory.CreateSubscription(t, "testuser", "A123BC", startDate, 0, 30, "active")

	day := startDate.AddDate(0, 0, 3)
	require.NoError(t, storage.MarkServiceDone(context.Background(), subID, day))

	got, err := storage.ReadSubscription(context.Background(), subID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.ServicesCompleted)
	assert.Equal(t, "ongoing", got.Status)
	require.Len(t, got.History, 1)

	// Повторная отметка за ту же дату упирается в уникальный индекс.
	err = storage.MarkServiceDone(context.Background(), subID, day)
	assert.ErrorIs(t, err, ErrDuplicateServiceDate)

	got, err = storage.ReadSubscription(context.Background(), subID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.ServicesCompleted)
}

func TestStorage_MarkServiceDone_CompletesSubscription(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	startDate := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	factory.CreateUser(t, uuid.New().String(), "testuser", "test@example.com", "hash", "user")
	subID := factory.CreateSubscription(t, "testuser", "A123BC", startDate, 29, 30, "ongoing")

	require.NoError(t, storage.MarkServiceDone(context.Background(), subID, startDate.AddDate(0, 0, 29)))

	got, err := storage.ReadSubscription(context.Background(), subID)
	require.NoError(t, err)
	assert.Equal(t, 30, got.ServicesCompleted)
	assert.Equal(t, "completed", got.Status)
}

func TestStorage_AssignWorker(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	startDate := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	factory.CreateUser(t, uuid.New().String(), "testuser", "test@example.com", "hash", "user")
	subID := factory.CreateSubscription(t, "testuser", "A123BC", startDate, 0, 30, "active")

	worker := models.Worker{ID: uuid.New().String(), Name: "Petr", Phone: "+70000000001"}
	require.NoError(t, storage.AssignWorker(context.Background(), subID, worker))

	got, err := storage.ReadSubscription(context.Background(), subID)
	require.NoError(t, err)
	require.NotNil(t, got.Worker)
	assert.Equal(t, worker.ID, got.Worker.ID)

	err = storage.AssignWorker(context.Background(), uuid.New().String(), worker)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStorage_ListTimeSlots(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	factory.CreateTimeSlot(t, "slot-0900", "09:00 AM", models.PeriodMorning, true)
	factory.CreateTimeSlot(t, "slot-1400", "02:00 PM", models.PeriodAfternoon, false)

	got, err := storage.ListTimeSlots(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "slot-0900", got[0].ID)
	assert.True(t, got[0].BaseAvailable)
	assert.False(t, got[1].BaseAvailable)
}

func TestStorage_Users(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	uid, err := storage.SaveUser(context.Background(), models.User{
		UID:          uuid.New().String(),
		Email:        "test@example.com",
		Username:     "testuser",
		PasswordHash: "hashedpassword",
		Role:         "user",
	})
	require.NoError(t, err)
	require.NotEmpty(t, uid)

	got, err := storage.GetUserByUsername(context.Background(), "testuser")
	require.NoError(t, err)
	assert.Equal(t, uid, got.UID)
	assert.Equal(t, "user", got.Role)

	_, err = storage.GetUserByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}
