package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"homestream/internal/domain"
	"homestream/internal/repository"
)

// AuthService handles registration, login and the admin account bootstrap.
type AuthService struct {
	userRepo      repository.UserRepository
	jwtSecret     []byte
	jwtExpiry     time.Duration
	adminUsername string
}

// NewAuthService creates an AuthService. adminUsername is the reserved
// master account name; registration under it is rejected.
func NewAuthService(userRepo repository.UserRepository, jwtSecret, adminUsername string, jwtExpiryHours int) (*AuthService, error) {
	if userRepo == nil {
		panic("UserRepository cannot be nil for AuthService")
	}
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT secret key cannot be empty")
	}
	if jwtExpiryHours <= 0 {
		jwtExpiryHours = 24
	}
	return &AuthService{
		userRepo:      userRepo,
		jwtSecret:     []byte(jwtSecret),
		jwtExpiry:     time.Duration(jwtExpiryHours) * time.Hour,
		adminUsername: adminUsername,
	}, nil
}

// Register creates a regular (non-master) account.
func (s *AuthService) Register(ctx context.Context, username, password, email string) (*domain.User, error) {
	logCtx := logrus.WithField("username", username)

	if username == "" || password == "" {
		return nil, ErrRegistrationFailed
	}
	if s.adminUsername != "" && strings.EqualFold(username, s.adminUsername) {
		logCtx.Warn("Registration rejected: reserved admin username")
		return nil, ErrReservedUsername
	}

	hashed, err := hashPassword(password)
	if err != nil {
		logCtx.WithError(err).Error("Failed to hash password during registration")
		return nil, ErrInternalServer
	}

	user := &domain.User{
		Username: username,
		Password: hashed,
		Email:    email,
		IsMaster: false,
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			logCtx.Warn("Registration failed: username already exists")
			return nil, ErrRegistrationFailed
		}
		logCtx.WithError(err).Error("Database error during user creation")
		return nil, ErrInternalServer
	}

	logCtx.WithField("user_id", user.ID).Info("User registered")
	user.Password = ""
	return user, nil
}

// Login verifies credentials and issues a signed JWT.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	logCtx := logrus.WithField("username", username)

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			logCtx.Warn("Login failed: user not found")
		} else {
			logCtx.WithError(err).Warn("Login failed: error finding user")
		}
		return "", ErrAuthenticationFailed
	}
	if user == nil {
		return "", ErrAuthenticationFailed
	}

	if !checkPassword(password, user.Password) {
		logCtx.Warn("Login failed: invalid password")
		return "", ErrAuthenticationFailed
	}

	token, err := s.generateJWT(user)
	if err != nil {
		logCtx.WithError(err).Error("Failed to sign JWT during login")
		return "", ErrInternalServer
	}

	logCtx.WithField("user_id", user.ID).Info("User logged in")
	return token, nil
}

// EnsureAdmin seeds the master account from configuration when it does not
// exist yet. A missing password means no admin bootstrap is wanted.
func (s *AuthService) EnsureAdmin(ctx context.Context, password string) error {
	if s.adminUsername == "" || password == "" {
		return nil
	}
	logCtx := logrus.WithField("username", s.adminUsername)

	_, err := s.userRepo.FindByUsername(ctx, s.adminUsername)
	if err == nil {
		return nil // already present
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return fmt.Errorf("look up admin user: %w", err)
	}

	hashed, err := hashPassword(password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	admin := &domain.User{
		Username: s.adminUsername,
		Password: hashed,
		IsMaster: true,
	}
	if err := s.userRepo.Save(ctx, admin); err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}
	logCtx.WithField("user_id", admin.ID).Info("Admin user created")
	return nil
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("generate hash from password: %w", err)
	}
	return string(bytes), nil
}

func checkPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// generateJWT issues an HS256 token carrying identity claims. The username
// and master flag ride along so request handling never needs a user lookup.
func (s *AuthService) generateJWT(user *domain.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":   user.ID,
		"username":  user.Username,
		"is_master": user.IsMaster,
		"exp":       now.Add(s.jwtExpiry).Unix(),
		"iat":       now.Unix(),
	})
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
