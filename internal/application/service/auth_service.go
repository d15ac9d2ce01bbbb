package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/restobill-api/internal/domain/entity"
	"github.com/sangkips/restobill-api/internal/domain/enum"
	"github.com/sangkips/restobill-api/internal/domain/repository"
	"github.com/sangkips/restobill-api/pkg/apperror"
	"github.com/sangkips/restobill-api/pkg/utils"
)

// AuthService handles authentication and staff accounts
type AuthService struct {
	userRepo   repository.UserRepository
	jwtManager *utils.JWTManager
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repository.UserRepository, jwtManager *utils.JWTManager) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
	}
}

// LoginInput represents the login input
type LoginInput struct {
	Username string
	Password string
}

// LoginOutput represents the login output
type LoginOutput struct {
	User        *entity.User
	AccessToken string
	ExpiresIn   int64
}

// Login authenticates a user and returns an access token
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(input.Username))
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Active {
		return nil, apperror.ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(input.Password, user.Password) {
		return nil, apperror.ErrInvalidCredentials
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Name, string(user.Role))
	if err != nil {
		return nil, err
	}

	return &LoginOutput{
		User:        user,
		AccessToken: accessToken,
		ExpiresIn:   int64(s.jwtManager.Expiry().Seconds()),
	}, nil
}

// CurrentUser returns the active user behind a validated token
func (s *AuthService) CurrentUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Active {
		return nil, apperror.ErrMissingUser
	}
	return user, nil
}

// CreateUserInput represents the input for adding a staff account
type CreateUserInput struct {
	Name     string
	Username string
	Password string
	Role     enum.UserRole
}

// CreateUser adds a staff account
func (s *AuthService) CreateUser(ctx context.Context, input *CreateUserInput) (*entity.User, error) {
	username := strings.TrimSpace(input.Username)
	role := input.Role
	if role == "" {
		role = enum.UserRoleCashier
	}
	if !role.Valid() {
		return nil, apperror.NewBadRequestError("Role must be admin or cashier")
	}

	existing, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Username already taken")
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Name:     strings.TrimSpace(input.Name),
		Username: username,
		Password: hashedPassword,
		Role:     role,
		Active:   true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}
