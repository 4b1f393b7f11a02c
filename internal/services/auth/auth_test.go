package auth_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	customjwt "github.com/magabrotheeeer/sos-alert/internal/lib/jwt"
	"github.com/magabrotheeeer/sos-alert/internal/lib/password"
	"github.com/magabrotheeeer/sos-alert/internal/models"
	authservice "github.com/magabrotheeeer/sos-alert/internal/services/auth"
	"github.com/magabrotheeeer/sos-alert/internal/storage"
)

// Мок для UserRepository
type UserRepoMock struct {
	mock.Mock
}

func (m *UserRepoMock) RegisterUser(ctx context.Context, user models.User) (string, error) {
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

func (m *UserRepoMock) SetEmailVerified(ctx context.Context, username string) error {
	args := m.Called(ctx, username)
	return args.Error(0)
}

func (m *UserRepoMock) UpdatePasswordHash(ctx context.Context, username, passwordHash string) error {
	args := m.Called(ctx, username, passwordHash)
	return args.Error(0)
}

// Мок для Publisher
type PublisherMock struct {
	mock.Mock
}

func (m *PublisherMock) Publish(routingKey string, message any) error {
	args := m.Called(routingKey, message)
	return args.Error(0)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newMaker() *customjwt.MakerImpl {
	return customjwt.NewJWTMaker("test-secret", 30*time.Minute, 24*time.Hour)
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name       string
		username   string
		email      string
		setupMocks func(r *UserRepoMock, p *PublisherMock)
		wantUID    string
		wantErr    error
	}{
		{
			name:     "successful registration",
			username: "alice",
			email:    "alice@example.com",
			setupMocks: func(r *UserRepoMock, p *PublisherMock) {
				r.On("RegisterUser", mock.Anything, mock.MatchedBy(func(user models.User) bool {
					return user.Username == "alice" &&
						user.Email == "alice@example.com" &&
						user.PasswordHash != "" &&
						user.Role == models.RoleUser &&
						!user.EmailVerified
				})).Return("some-uuid", nil).Once()
				p.On("Publish", "email.verification", mock.MatchedBy(func(msg any) bool {
					email, ok := msg.(models.VerificationEmail)
					return ok && email.Username == "alice" && email.Token != ""
				})).Return(nil).Once()
			},
			wantUID: "some-uuid",
		},
		{
			name:     "duplicate username",
			username: "alice",
			email:    "alice@example.com",
			setupMocks: func(r *UserRepoMock, _ *PublisherMock) {
				r.On("RegisterUser", mock.Anything, mock.Anything).
					Return("", storage.ErrUserExists).Once()
			},
			wantErr: storage.ErrUserExists,
		},
		{
			name:     "publish failure does not fail registration",
			username: "bob",
			email:    "bob@example.com",
			setupMocks: func(r *UserRepoMock, p *PublisherMock) {
				r.On("RegisterUser", mock.Anything, mock.Anything).Return("bob-uuid", nil).Once()
				p.On("Publish", "email.verification", mock.Anything).
					Return(errors.New("broker down")).Once()
			},
			wantUID: "bob-uuid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			publisher := new(PublisherMock)
			svc := authservice.New(repo, newMaker(), publisher, newTestLogger())

			tt.setupMocks(repo, publisher)

			uid, err := svc.Register(context.Background(), tt.username, "password123", tt.email, "")
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantUID, uid)
			}

			repo.AssertExpectations(t)
			publisher.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	rawPassword := "correctpassword"
	hashed, err := password.GetHash(rawPassword)
	require.NoError(t, err)

	testUser := &models.User{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: hashed,
		Role:         models.RoleUser,
	}

	tests := []struct {
		name       string
		username   string
		password   string
		setupMocks func(r *UserRepoMock)
		wantRole   string
		wantErr    error
	}{
		{
			name:     "successful login",
			username: "alice",
			password: rawPassword,
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByUsername", mock.Anything, "alice").Return(testUser, nil).Once()
			},
			wantRole: "user",
		},
		{
			name:     "user not found maps to invalid credentials",
			username: "ghost",
			password: "whatever",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByUsername", mock.Anything, "ghost").
					Return(nil, storage.ErrNotFound).Once()
			},
			wantErr: authservice.ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			username: "alice",
			password: "wrongpassword",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByUsername", mock.Anything, "alice").Return(testUser, nil).Once()
			},
			wantErr: authservice.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			maker := newMaker()
			svc := authservice.New(repo, maker, nil, newTestLogger())

			tt.setupMocks(repo)

			token, role, err := svc.Login(context.Background(), tt.username, tt.password)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantRole, role)

				claims, err := maker.ParseToken(token)
				require.NoError(t, err)
				assert.Equal(t, tt.username, claims.Username)
				assert.Equal(t, tt.wantRole, claims.Role)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestAuthService_VerifyEmail(t *testing.T) {
	maker := newMaker()

	t.Run("valid token", func(t *testing.T) {
		repo := new(UserRepoMock)
		repo.On("SetEmailVerified", mock.Anything, "alice").Return(nil).Once()
		svc := authservice.New(repo, maker, nil, newTestLogger())

		token, err := maker.GenerateActionToken("alice", customjwt.PurposeVerifyEmail)
		require.NoError(t, err)

		assert.NoError(t, svc.VerifyEmail(context.Background(), token))
		repo.AssertExpectations(t)
	})

	t.Run("token with wrong purpose", func(t *testing.T) {
		repo := new(UserRepoMock)
		svc := authservice.New(repo, maker, nil, newTestLogger())

		token, err := maker.GenerateActionToken("alice", customjwt.PurposePasswordReset)
		require.NoError(t, err)

		err = svc.VerifyEmail(context.Background(), token)
		assert.True(t, errors.Is(err, customjwt.ErrInvalidToken))
		repo.AssertExpectations(t)
	})

	t.Run("unknown user", func(t *testing.T) {
		repo := new(UserRepoMock)
		repo.On("SetEmailVerified", mock.Anything, "ghost").
			Return(storage.ErrNotFound).Once()
		svc := authservice.New(repo, maker, nil, newTestLogger())

		token, err := maker.GenerateActionToken("ghost", customjwt.PurposeVerifyEmail)
		require.NoError(t, err)

		err = svc.VerifyEmail(context.Background(), token)
		assert.True(t, errors.Is(err, storage.ErrNotFound))
		repo.AssertExpectations(t)
	})
}

func TestAuthService_RequestPasswordReset(t *testing.T) {
	maker := newMaker()

	t.Run("known user gets email queued", func(t *testing.T) {
		repo := new(UserRepoMock)
		publisher := new(PublisherMock)
		repo.On("GetUserByUsername", mock.Anything, "alice").
			Return(&models.User{Username: "alice", Email: "alice@example.com"}, nil).Once()
		publisher.On("Publish", "email.password_reset", mock.MatchedBy(func(msg any) bool {
			email, ok := msg.(models.PasswordResetEmail)
			return ok && email.Email == "alice@example.com" && email.Token != ""
		})).Return(nil).Once()

		svc := authservice.New(repo, maker, publisher, newTestLogger())
		assert.NoError(t, svc.RequestPasswordReset(context.Background(), "alice"))

		repo.AssertExpectations(t)
		publisher.AssertExpectations(t)
	})

	t.Run("unknown user is silently ignored", func(t *testing.T) {
		repo := new(UserRepoMock)
		publisher := new(PublisherMock)
		repo.On("GetUserByUsername", mock.Anything, "ghost").
			Return(nil, storage.ErrNotFound).Once()

		svc := authservice.New(repo, maker, publisher, newTestLogger())
		assert.NoError(t, svc.RequestPasswordReset(context.Background(), "ghost"))

		repo.AssertExpectations(t)
		publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})
}

func TestAuthService_ResetPassword(t *testing.T) {
	maker := newMaker()

	t.Run("valid token updates hash", func(t *testing.T) {
		repo := new(UserRepoMock)
		repo.On("UpdatePasswordHash", mock.Anything, "alice", mock.MatchedBy(func(hash string) bool {
			return password.CompareHash(hash, "newpassword") == nil
		})).Return(nil).Once()

		svc := authservice.New(repo, maker, nil, newTestLogger())

		token, err := maker.GenerateActionToken("alice", customjwt.PurposePasswordReset)
		require.NoError(t, err)

		assert.NoError(t, svc.ResetPassword(context.Background(), token, "newpassword"))
		repo.AssertExpectations(t)
	})

	t.Run("access token rejected", func(t *testing.T) {
		repo := new(UserRepoMock)
		svc := authservice.New(repo, maker, nil, newTestLogger())

		token, err := maker.GenerateToken("alice", "user")
		require.NoError(t, err)

		err = svc.ResetPassword(context.Background(), token, "newpassword")
		assert.True(t, errors.Is(err, customjwt.ErrInvalidToken))
		repo.AssertExpectations(t)
	})
}
