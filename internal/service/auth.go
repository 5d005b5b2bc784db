package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/ddj1226/SpendSense/internal/models"
	"github.com/ddj1226/SpendSense/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const tokenLifetime = 24 * time.Hour

// AuthResult is returned by signup and login
type AuthResult struct {
	AccessToken   string `json:"access_token"`
	TokenType     string `json:"token_type"`
	UserID        int64  `json:"user_id"`
	FirstName     string `json:"first_name"`
	BankConnected bool   `json:"bank_connected"`
}

// Register creates a new user with hashed password and signs them in
func (s *Service) Register(firstName, lastName, email, password string) (*AuthResult, error) {
	if _, err := s.repo.FindUserByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}
	if err := s.repo.CreateUser(user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	s.log.Infof("User registered: %s", user.Email)
	return s.authResult(user)
}

// Login authenticates a user and returns a JWT token
func (s *Service) Login(email, password string) (*AuthResult, error) {
	user, err := s.repo.FindUserByEmail(email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	s.log.Infof("User logged in: %s", user.Email)
	return s.authResult(user)
}

func (s *Service) authResult(user *models.User) (*AuthResult, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(user.ID, 10),
		IssuedAt:  jwt.NewNumericDate(s.clock.Now()),
		ExpiresAt: jwt.NewNumericDate(s.clock.Now().Add(tokenLifetime)),
	})
	tokenString, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &AuthResult{
		AccessToken:   tokenString,
		TokenType:     "bearer",
		UserID:        user.ID,
		FirstName:     user.FirstName,
		BankConnected: user.BankConnected(),
	}, nil
}
