package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/helpapp/marketplace/internal/apperr"
	"github.com/helpapp/marketplace/internal/model"
	"github.com/helpapp/marketplace/internal/repository"
	"github.com/helpapp/marketplace/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService provides account creation, login and profile lookup
type AuthService interface {
	Register(ctx context.Context, req model.SignupRequest) (*model.User, string, error)
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	Me(ctx context.Context, identity *model.Identity) (*model.User, error)
}

type authService struct {
	userRepo          repository.UserRepository
	jwtUtil           *utils.JWTUtil
	initialAdminEmail string
	logger            *zap.Logger
}

// NewAuthService creates a new AuthService. An account registered with
// initialAdminEmail is flagged as admin; pass "" to disable the bootstrap.
func NewAuthService(userRepo repository.UserRepository, jwtUtil *utils.JWTUtil, initialAdminEmail string, logger *zap.Logger) AuthService {
	return &authService{
		userRepo:          userRepo,
		jwtUtil:           jwtUtil,
		initialAdminEmail: normalizeEmail(initialAdminEmail),
		logger:            logger,
	}
}

// Register creates a new user account
func (s *authService) Register(ctx context.Context, req model.SignupRequest) (*model.User, string, error) {
	if !req.Role.Valid() {
		return nil, "", apperr.Validation("role must be CLIENT or PROVIDER")
	}
	email := normalizeEmail(req.Email)

	existingUser, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		return nil, "", apperr.Conflict("user already exists")
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         req.Role,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Phone:        req.Phone,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if s.initialAdminEmail != "" && email == s.initialAdminEmail {
		user.IsAdmin = true
		s.logger.Info("registering initial admin", zap.String("email", email))
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("failed to create user in repository: %w", err)
	}

	token, err := s.issueToken(user)
	if err != nil {
		s.logger.Error("user created but token generation failed", zap.String("user_id", user.ID), zap.Error(err))
		return user, "", err
	}
	return user, token, nil
}

// Login authenticates a user and returns a JWT token
func (s *authService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, "", fmt.Errorf("error finding user by email: %w", err)
	}
	if user == nil || !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Me loads the full profile of an authenticated identity.
func (s *authService) Me(ctx context.Context, identity *model.Identity) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, identity.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if user == nil {
		return nil, apperr.ErrUnauthenticated
	}
	return user, nil
}

func (s *authService) issueToken(u *model.User) (string, error) {
	token, err := s.jwtUtil.GenerateToken(utils.IdentityClaims{SubjectID: u.ID, Email: u.Email, Role: u.Role})
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
