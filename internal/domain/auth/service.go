package auth

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"fieldops/internal/core/apperror"
	appctx "fieldops/internal/core/context"
	"fieldops/internal/core/id"
	"fieldops/internal/core/tx"
	"fieldops/pkg/logger"
)

// ServiceConfig holds auth service configuration.
type ServiceConfig struct {
	MaxLoginAttempts  int
	LockDuration      time.Duration
	PasswordMinLength int
}

// DefaultServiceConfig returns default configuration.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		MaxLoginAttempts:  5,
		LockDuration:      15 * time.Minute,
		PasswordMinLength: 8,
	}
}

// Service provides authentication logic.
type Service struct {
	userRepo   UserRepository
	txManager  tx.Manager
	jwtService *JWTService
	config     ServiceConfig
}

// NewService creates a new auth service.
func NewService(
	userRepo UserRepository,
	txManager tx.Manager,
	jwtService *JWTService,
	config ServiceConfig,
) *Service {
	return &Service{
		userRepo:   userRepo,
		txManager:  txManager,
		jwtService: jwtService,
		config:     config,
	}
}

func requireTenantID(ctx context.Context) (id.ID, error) {
	tid, err := id.Parse(appctx.GetTenantID(ctx))
	if err != nil || id.IsNil(tid) {
		return id.Nil(), apperror.NewValidation("tenant is required").
			WithDetail("header", "X-Tenant-ID")
	}
	return tid, nil
}

// Register registers a new user.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	tenantID, err := requireTenantID(ctx)
	if err != nil {
		return nil, err
	}

	if req.Email == "" {
		return nil, apperror.NewValidation("email is required").WithDetail("field", "email")
	}
	if len(req.Password) < s.config.PasswordMinLength {
		return nil, apperror.NewValidation(
			fmt.Sprintf("password must be at least %d characters", s.config.PasswordMinLength),
		).WithDetail("field", "password")
	}

	exists, err := s.userRepo.Exists(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email exists: %w", err)
	}
	if exists {
		return nil, apperror.NewConflict("email already registered").WithDetail("email", req.Email)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := NewUser(tenantID, req.Email, string(passwordHash))
	user.FirstName = req.FirstName
	user.LastName = req.LastName

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.userRepo.Create(ctx, user)
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	logger.Info(ctx, "user registered", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// Login verifies credentials and issues an access token.
// Failed attempts are counted and lock the account after the limit.
func (s *Service) Login(ctx context.Context, creds Credentials) (*TokenResult, error) {
	if _, err := requireTenantID(ctx); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, creds.Email)
	if err != nil {
		if apperror.IsNotFound(err) {
			// Same answer for unknown email and wrong password.
			return nil, apperror.NewUnauthorized("invalid credentials")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if err := user.CanLogin(); err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		user.RecordFailedLogin(s.config.MaxLoginAttempts, s.config.LockDuration)
		if updErr := s.updateUser(ctx, user); updErr != nil {
			logger.Error(ctx, "failed to record login attempt", "user_id", user.ID, "error", updErr)
		}
		return nil, apperror.NewUnauthorized("invalid credentials")
	}

	user.RecordSuccessfulLogin()
	if err := s.updateUser(ctx, user); err != nil {
		logger.Error(ctx, "failed to record login", "user_id", user.ID, "error", err)
	}

	token, expiresAt, err := s.jwtService.GenerateAccessToken(
		user.ID.String(),
		user.TenantID.String(),
		user.Email,
		user.Roles,
		user.IsAdmin,
	)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	logger.Info(ctx, "user logged in", "user_id", user.ID)
	return &TokenResult{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		TokenType:   "Bearer",
	}, nil
}

// ValidateToken validates an access token and returns the user context.
func (s *Service) ValidateToken(tokenString string) (*appctx.UserContext, error) {
	uc, err := s.jwtService.ValidateToken(tokenString)
	if err != nil {
		return nil, apperror.NewUnauthorized("invalid or expired token").WithCause(err)
	}
	return uc, nil
}

func (s *Service) updateUser(ctx context.Context, user *User) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.userRepo.Update(ctx, user)
	})
}
