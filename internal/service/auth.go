package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Dan9191/finance-service/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Register creates a new user with hashed password
func (s *Service) Register(ctx context.Context, username, password, email string) (*models.User, error) {
	username, err := validateUsername(username)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	email, err = NormalizeEmail(email)
	if err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.log.WithField("user_id", user.ID).Infof("User registered: %s", user.Username)
	return user, nil
}

// Authenticate checks the credentials and returns the matching user. Unknown
// usernames and wrong passwords fail the same way and take the same time.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.store.FindUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	if user == nil {
		// Spend a comparison anyway so the miss is not observable by timing.
		_ = bcrypt.CompareHashAndPassword(s.dummyPasswordHash(), []byte(password))
		s.log.Debug("Login failed")
		return nil, models.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.log.Debug("Login failed")
		return nil, models.ErrInvalidCredentials
	}

	s.log.WithField("user_id", user.ID).Infof("User logged in: %s", user.Username)
	return user, nil
}

// Login authenticates a user and returns a JWT token
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return "", err
	}
	return s.IssueToken(user)
}

// ChangePassword replaces the user's password after verifying the current one
func (s *Service) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	user, err := s.store.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrInvalidCredentials
		}
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return models.ErrInvalidCredentials
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.store.UpdatePassword(ctx, userID, string(hashedPassword)); err != nil {
		return err
	}

	s.log.WithField("user_id", userID).Info("Password changed")
	return nil
}

// User returns the user with the given id
func (s *Service) User(ctx context.Context, userID int64) (*models.User, error) {
	return s.store.FindUserByID(ctx, userID)
}

// Users returns every registered user
func (s *Service) Users(ctx context.Context) ([]models.User, error) {
	return s.store.ListUsers(ctx)
}

// IssueToken signs a session token for the user
func (s *Service) IssueToken(user *models.User) (string, error) {
	if s.config == nil || s.config.JWTSecret == "" {
		return "", fmt.Errorf("failed to generate token: JWT secret is not configured")
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(user.ID, 10),
		IssuedAt:  jwt.NewNumericDate(s.now()),
		ExpiresAt: jwt.NewNumericDate(s.now().Add(s.tokenTTL)),
	})
	tokenString, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ParseToken validates a session token and returns the user id it was issued for
func (s *Service) ParseToken(tokenString string) (int64, error) {
	if s.config == nil || s.config.JWTSecret == "" {
		return 0, models.ErrInvalidCredentials
	}
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.config.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", models.ErrInvalidCredentials, err)
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, fmt.Errorf("%w: bad subject", models.ErrInvalidCredentials)
	}
	return userID, nil
}

func (s *Service) dummyPasswordHash() []byte {
	s.dummyOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), s.bcryptCost)
		if err != nil {
			s.log.Errorf("Failed to prepare dummy hash: %v", err)
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}
