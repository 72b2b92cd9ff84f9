package service

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"taskhub/internal/apperr"
	"taskhub/internal/auth"
	"taskhub/internal/model"
	"taskhub/internal/repository"
)

const bcryptCost = 10

// AuthResult is the envelope returned by register, login and refresh.
type AuthResult struct {
	User         model.PublicUser `json:"user"`
	AccessToken  string           `json:"accessToken"`
	RefreshToken string           `json:"refreshToken"`
}

// AuthService handles self-service identity operations.
type AuthService interface {
	Register(ctx context.Context, email, password string, name *string) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthResult, error)
	Logout(ctx context.Context, refreshToken string) error
	ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error
	GetProfile(ctx context.Context, userID uuid.UUID) (*model.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, name *string) (*model.User, error)
}

type authService struct {
	users          repository.UserRepository
	jwtService     *auth.JWTService
	tokenStore     auth.TokenStoreInterface
	passwordMinLen int
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface, passwordMinLen int) AuthService {
	return &authService{
		users:          users,
		jwtService:     jwtService,
		tokenStore:     tokenStore,
		passwordMinLen: passwordMinLen,
	}
}

// Register creates a USER-role identity and issues a token pair. Privileged
// role assignment only happens through the admin users API.
func (s *authService) Register(ctx context.Context, email, password string, name *string) (*AuthResult, error) {
	if len(password) < s.passwordMinLen {
		return nil, apperr.BadRequest("password must be at least %d characters", s.passwordMinLen)
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, apperr.Conflict("email already in use")
	}
	if err != nil && !repository.IsNotFound(err) {
		return nil, apperr.Internal(err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	user := &model.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hashed),
		Name:         name,
		Role:         model.RoleUser,
	}

	if err := s.users.Create(ctx, user); err != nil {
		// The pre-check above can race; the unique index is authoritative.
		if repository.IsDuplicate(err) {
			return nil, apperr.Conflict("email already in use")
		}
		return nil, apperr.Internal(err)
	}

	return s.issueTokens(ctx, user)
}

// Login authenticates a user and issues a token pair. The same failure is
// returned whether the email is unknown or the password wrong.
func (s *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperr.Unauthorized("invalid email or password")
		}
		return nil, apperr.Internal(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperr.Unauthorized("invalid email or password")
	}

	return s.issueTokens(ctx, user)
}

// Refresh redeems a refresh token for a fresh pair. The token must verify,
// its JTI must still be allowlisted, and its subject must still resolve to
// an identity. Redeeming rotates the token.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	claims, err := s.jwtService.ValidateToken(refreshToken)
	if err != nil || claims.ID == "" {
		return nil, apperr.Unauthorized("invalid or expired refresh token")
	}

	storedUserID, _, err := s.tokenStore.GetRefreshToken(ctx, claims.ID)
	if err != nil || storedUserID != claims.UserID {
		return nil, apperr.Unauthorized("invalid or expired refresh token")
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperr.Unauthorized("invalid or expired refresh token")
		}
		return nil, apperr.Internal(err)
	}

	if err := s.tokenStore.DeleteRefreshToken(ctx, claims.ID); err != nil {
		return nil, apperr.Internal(err)
	}

	return s.issueTokens(ctx, user)
}

// Logout invalidates a refresh token.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.jwtService.ValidateToken(refreshToken)
	if err != nil || claims.ID == "" {
		return apperr.Unauthorized("invalid or expired refresh token")
	}
	return s.tokenStore.DeleteRefreshToken(ctx, claims.ID)
}

// ChangePassword verifies the old password before storing a new hash.
func (s *authService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	if len(newPassword) < s.passwordMinLen {
		return apperr.BadRequest("password must be at least %d characters", s.passwordMinLen)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return apperr.Unauthorized("user not found")
		}
		return apperr.Internal(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return apperr.Unauthorized("old password is not correct")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return apperr.Internal(err)
	}

	user.PasswordHash = string(hashed)
	if err := s.users.Update(ctx, user); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// GetProfile returns the caller's own identity record.
func (s *authService) GetProfile(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperr.NotFound("user with ID %q not found", userID)
		}
		return nil, apperr.Internal(err)
	}
	return user, nil
}

// UpdateProfile updates the restricted self-service field set.
func (s *authService) UpdateProfile(ctx context.Context, userID uuid.UUID, name *string) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperr.NotFound("user with ID %q not found", userID)
		}
		return nil, apperr.Internal(err)
	}

	if name != nil {
		user.Name = name
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperr.Internal(err)
	}
	return user, nil
}

func (s *authService) issueTokens(ctx context.Context, user *model.User) (*AuthResult, error) {
	accessToken, err := s.jwtService.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	tokenID, refreshToken, err := s.jwtService.GenerateRefreshToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	if err := s.tokenStore.StoreRefreshToken(ctx, tokenID, user.ID, user.Email, auth.RefreshTokenExpiry); err != nil {
		return nil, apperr.Internal(err)
	}

	return &AuthResult{
		User:         user.Public(),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
