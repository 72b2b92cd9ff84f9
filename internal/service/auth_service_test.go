package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"taskhub/internal/apperr"
	"taskhub/internal/auth"
	"taskhub/internal/model"
)

const testPasswordMinLen = 8

func newTestAuthService(users *MockUserRepository, tokens *MockTokenStore) AuthService {
	return NewAuthService(users, auth.NewJWTService("test-secret"), tokens, testPasswordMinLen)
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name         string
		email        string
		password     string
		setupMock    func(*MockUserRepository, *MockTokenStore)
		expectedKind apperr.Kind
	}{
		{
			name:     "successful registration",
			email:    "test@example.com",
			password: "password123",
			setupMock: func(users *MockUserRepository, tokens *MockTokenStore) {
				users.On("FindByEmail", mock.Anything, "test@example.com").Return(nil, gorm.ErrRecordNotFound)
				users.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
				tokens.On("StoreRefreshToken", mock.Anything, mock.Anything, mock.Anything, "test@example.com", mock.Anything).Return(nil)
			},
		},
		{
			name:     "email already in use",
			email:    "existing@example.com",
			password: "password123",
			setupMock: func(users *MockUserRepository, tokens *MockTokenStore) {
				users.On("FindByEmail", mock.Anything, "existing@example.com").Return(&model.User{Email: "existing@example.com"}, nil)
			},
			expectedKind: apperr.KindConflict,
		},
		{
			name:     "pre-check race still maps duplicate to conflict",
			email:    "racing@example.com",
			password: "password123",
			setupMock: func(users *MockUserRepository, tokens *MockTokenStore) {
				users.On("FindByEmail", mock.Anything, "racing@example.com").Return(nil, gorm.ErrRecordNotFound)
				users.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(gorm.ErrDuplicatedKey)
			},
			expectedKind: apperr.KindConflict,
		},
		{
			name:         "password below configured minimum",
			email:        "short@example.com",
			password:     "short",
			setupMock:    func(users *MockUserRepository, tokens *MockTokenStore) {},
			expectedKind: apperr.KindBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserRepository)
			tokens := new(MockTokenStore)
			tt.setupMock(users, tokens)

			svc := newTestAuthService(users, tokens)
			result, err := svc.Register(context.Background(), tt.email, tt.password, nil)

			if tt.expectedKind != 0 {
				assert.Error(t, err)
				assert.True(t, apperr.IsKind(err, tt.expectedKind))
				assert.Nil(t, result)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, result)
				assert.Equal(t, tt.email, result.User.Email)
				assert.Equal(t, model.RoleUser, result.User.Role)
				assert.NotEmpty(t, result.AccessToken)
				assert.NotEmpty(t, result.RefreshToken)
			}

			users.AssertExpectations(t)
			tokens.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcryptCost)
	userID := uuid.New()

	tests := []struct {
		name         string
		email        string
		password     string
		setupMock    func(*MockUserRepository, *MockTokenStore)
		expectedKind apperr.Kind
	}{
		{
			name:     "successful login",
			email:    "test@example.com",
			password: "password123",
			setupMock: func(users *MockUserRepository, tokens *MockTokenStore) {
				users.On("FindByEmail", mock.Anything, "test@example.com").Return(&model.User{
					ID:           userID,
					Email:        "test@example.com",
					PasswordHash: string(hashed),
					Role:         model.RoleUser,
				}, nil)
				tokens.On("StoreRefreshToken", mock.Anything, mock.Anything, userID, "test@example.com", mock.Anything).Return(nil)
			},
		},
		{
			name:     "unknown email",
			email:    "notfound@example.com",
			password: "password123",
			setupMock: func(users *MockUserRepository, tokens *MockTokenStore) {
				users.On("FindByEmail", mock.Anything, "notfound@example.com").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedKind: apperr.KindUnauthorized,
		},
		{
			name:     "wrong password",
			email:    "test@example.com",
			password: "not-the-password",
			setupMock: func(users *MockUserRepository, tokens *MockTokenStore) {
				users.On("FindByEmail", mock.Anything, "test@example.com").Return(&model.User{
					ID:           userID,
					Email:        "test@example.com",
					PasswordHash: string(hashed),
					Role:         model.RoleUser,
				}, nil)
			},
			expectedKind: apperr.KindUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserRepository)
			tokens := new(MockTokenStore)
			tt.setupMock(users, tokens)

			svc := newTestAuthService(users, tokens)
			result, err := svc.Login(context.Background(), tt.email, tt.password)

			if tt.expectedKind != 0 {
				assert.Error(t, err)
				assert.True(t, apperr.IsKind(err, tt.expectedKind))
				assert.Nil(t, result)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, result)
				assert.Equal(t, tt.email, result.User.Email)
				assert.NotEmpty(t, result.AccessToken)
				assert.NotEmpty(t, result.RefreshToken)
			}

			users.AssertExpectations(t)
			tokens.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login_SameFailureForUnknownEmailAndWrongPassword(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcryptCost)

	unknown := new(MockUserRepository)
	unknown.On("FindByEmail", mock.Anything, mock.Anything).Return(nil, gorm.ErrRecordNotFound)
	_, errUnknown := newTestAuthService(unknown, new(MockTokenStore)).Login(context.Background(), "a@example.com", "whatever")

	wrongPass := new(MockUserRepository)
	wrongPass.On("FindByEmail", mock.Anything, mock.Anything).Return(&model.User{
		ID:           uuid.New(),
		Email:        "b@example.com",
		PasswordHash: string(hashed),
	}, nil)
	_, errWrong := newTestAuthService(wrongPass, new(MockTokenStore)).Login(context.Background(), "b@example.com", "whatever")

	// The failure must not reveal whether the email exists.
	assert.Equal(t, errUnknown.Error(), errWrong.Error())
}

func TestAuthService_ChangePassword(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("old-password"), bcryptCost)
	userID := uuid.New()

	t.Run("wrong old password", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("FindByID", mock.Anything, userID).Return(&model.User{
			ID:           userID,
			PasswordHash: string(hashed),
		}, nil)

		svc := newTestAuthService(users, new(MockTokenStore))
		err := svc.ChangePassword(context.Background(), userID, "not-the-old-password", "new-password-1")

		assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
		users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("successful change re-hashes", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("FindByID", mock.Anything, userID).Return(&model.User{
			ID:           userID,
			PasswordHash: string(hashed),
		}, nil)
		users.On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
			return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("new-password-1")) == nil
		})).Return(nil)

		svc := newTestAuthService(users, new(MockTokenStore))
		err := svc.ChangePassword(context.Background(), userID, "old-password", "new-password-1")

		assert.NoError(t, err)
		users.AssertExpectations(t)
	})

	t.Run("new password below minimum", func(t *testing.T) {
		svc := newTestAuthService(new(MockUserRepository), new(MockTokenStore))
		err := svc.ChangePassword(context.Background(), userID, "old-password", "short")
		assert.True(t, apperr.IsKind(err, apperr.KindBadRequest))
	})
}

func TestAuthService_Refresh(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")
	userID := uuid.New()
	user := &model.User{ID: userID, Email: "test@example.com", Role: model.RoleUser}

	t.Run("valid refresh token rotates", func(t *testing.T) {
		tokenID, refreshToken, err := jwtService.GenerateRefreshToken(userID, user.Email, user.Role)
		assert.NoError(t, err)

		users := new(MockUserRepository)
		users.On("FindByID", mock.Anything, userID).Return(user, nil)

		tokens := new(MockTokenStore)
		tokens.On("GetRefreshToken", mock.Anything, tokenID).Return(userID, user.Email, nil)
		tokens.On("DeleteRefreshToken", mock.Anything, tokenID).Return(nil)
		tokens.On("StoreRefreshToken", mock.Anything, mock.Anything, userID, user.Email, mock.Anything).Return(nil)

		svc := NewAuthService(users, jwtService, tokens, testPasswordMinLen)
		result, err := svc.Refresh(context.Background(), refreshToken)

		assert.NoError(t, err)
		assert.NotNil(t, result)
		assert.NotEmpty(t, result.AccessToken)
		assert.NotEqual(t, refreshToken, result.RefreshToken)
		tokens.AssertExpectations(t)
	})

	t.Run("garbage token is unauthorized", func(t *testing.T) {
		svc := NewAuthService(new(MockUserRepository), jwtService, new(MockTokenStore), testPasswordMinLen)
		_, err := svc.Refresh(context.Background(), "not-a-token")
		assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
	})

	t.Run("subject no longer resolves", func(t *testing.T) {
		tokenID, refreshToken, err := jwtService.GenerateRefreshToken(userID, user.Email, user.Role)
		assert.NoError(t, err)

		users := new(MockUserRepository)
		users.On("FindByID", mock.Anything, userID).Return(nil, gorm.ErrRecordNotFound)

		tokens := new(MockTokenStore)
		tokens.On("GetRefreshToken", mock.Anything, tokenID).Return(userID, user.Email, nil)

		svc := NewAuthService(users, jwtService, tokens, testPasswordMinLen)
		_, err = svc.Refresh(context.Background(), refreshToken)
		assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
	})
}
