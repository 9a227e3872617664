package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/carwash-aggregator/internal/lib/jwt"
	"github.com/magabrotheeeer/carwash-aggregator/internal/lib/password"
	"github.com/magabrotheeeer/carwash-aggregator/internal/models"
	"github.com/magabrotheeeer/carwash-aggregator/internal/storage"
)

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) SaveUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}
func (m *UserRepoMock) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newTestService(repo *UserRepoMock) *Service {
	maker := jwt.NewJWTMaker("test-secret", time.Hour)
	return New(repo, maker, newNoopLogger())
}

func TestService_Register(t *testing.T) {
	repo := new(UserRepoMock)
	repo.On("SaveUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.Username == "ivan" &&
			u.Role == "user" &&
			u.PasswordHash != "secretpass" &&
			password.CompareHash(u.PasswordHash, "secretpass") == nil
	})).Return("uid-1", nil).Once()

	svc := newTestService(repo)
	uid, err := svc.Register(context.Background(), models.DummyRegister{
		Username: "ivan",
		Email:    "ivan@example.com",
		Password: "secretpass",
	})
	require.NoError(t, err)
	assert.Equal(t, "uid-1", uid)
	repo.AssertExpectations(t)
}

func TestService_Login(t *testing.T) {
	hash, err := password.GetHash("secretpass")
	require.NoError(t, err)

	tests := []struct {
		name       string
		req        models.DummyLogin
		setupMocks func(r *UserRepoMock)
		wantErr    error
	}{
		{
			name: "success",
			req:  models.DummyLogin{Username: "ivan", Password: "secretpass"},
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByUsername", mock.Anything, "ivan").
					Return(&models.User{Username: "ivan", PasswordHash: hash, Role: "user"}, nil).Once()
			},
		},
		{
			name: "wrong password",
			req:  models.DummyLogin{Username: "ivan", Password: "wrongpass"},
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByUsername", mock.Anything, "ivan").
					Return(&models.User{Username: "ivan", PasswordHash: hash, Role: "user"}, nil).Once()
			},
			wantErr: ErrInvalidCredentials,
		},
		{
			name: "unknown user",
			req:  models.DummyLogin{Username: "ghost", Password: "secretpass"},
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByUsername", mock.Anything, "ghost").
					Return(nil, storage.ErrNotFound).Once()
			},
			wantErr: ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			tt.setupMocks(repo)

			svc := newTestService(repo)
			token, err := svc.Login(context.Background(), tt.req)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, token)
			repo.AssertExpectations(t)
		})
	}
}
