// internal/services/auth_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pharmatrace/pharmatrace-backend/internal/config"
	"github.com/pharmatrace/pharmatrace-backend/internal/models"
	"github.com/pharmatrace/pharmatrace-backend/internal/utils"
)

// AuthService is the wallet stand-in: it mints accounts with an opaque
// address and issues the bearer tokens the engine attributes calls to. The
// custody engine itself only ever sees the address.
type AuthService struct {
	db  *gorm.DB
	cfg *config.Config
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,username"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,strong_password"`
}

type AuthResponse struct {
	Account     *models.Account `json:"account"`
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	ExpiresIn   int             `json:"expires_in"` // in seconds
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{
		db:  db,
		cfg: cfg,
	}
}

func (s *AuthService) Register(req *RegisterRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// Check if account already exists
	var existing models.Account
	if err := s.db.Where("email = ? OR username = ?", req.Email, req.Username).First(&existing).Error; err == nil {
		if existing.Email == req.Email {
			return nil, fmt.Errorf("%w: account with this email already exists", ErrInvalidInput)
		}
		return nil, fmt.Errorf("%w: username already taken", ErrInvalidInput)
	}

	address, err := utils.GenerateAddress()
	if err != nil {
		return nil, fmt.Errorf("failed to generate address: %w", err)
	}

	account := &models.Account{
		Username: req.Username,
		Email:    req.Email,
		Address:  address,
	}
	if err := account.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.db.Create(account).Error; err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return s.buildAuthResponse(account)
}

func (s *AuthService) Login(req *LoginRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var account models.Account
	if err := s.db.Where("email = ?", req.Email).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := account.CheckPassword(req.Password); err != nil {
		return nil, fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
	}

	now := time.Now()
	account.LastLoginAt = &now
	s.db.Model(&account).Update("last_login_at", now)

	return s.buildAuthResponse(&account)
}

func (s *AuthService) GetAccount(accountID uuid.UUID) (*models.Account, error) {
	var account models.Account
	if err := s.db.First(&account, "id = ?", accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: account", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &account, nil
}

func (s *AuthService) buildAuthResponse(account *models.Account) (*AuthResponse, error) {
	accessToken, err := utils.GenerateJWT(
		account.ID,
		account.Username,
		account.Address,
		s.cfg.JWT.AccessTokenTTL,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &AuthResponse{
		Account:     account,
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   s.cfg.JWT.AccessTokenTTL * 3600, // Convert hours to seconds
	}, nil
}
