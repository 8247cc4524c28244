package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"frendora/internal/apperrors"
	"frendora/internal/models"
	"frendora/internal/repositories"
)

// bcryptCost is the fixed work factor for password digests.
const bcryptCost = 10

// tokenLifetime is the fixed validity window of issued tokens. Expiry
// forces re-login; there is no refresh or rotation.
const tokenLifetime = time.Hour

// HashPassword produces a salted one-way digest of a plaintext password.
func HashPassword(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(digest), nil
}

// CheckPassword reports whether plaintext matches the stored digest.
// The comparison is done by bcrypt itself; plaintext is never
// reconstructed from the digest.
func CheckPassword(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}

// Claims is the identity embedded in a verified token.
type Claims struct {
	UserID string
	Name   string
}

// EventPublisher publishes activity events. Nil-safe at the call sites:
// services skip publishing when no publisher is configured, and a
// publish failure never fails the request.
type EventPublisher interface {
	PublishEvent(event string, payload map[string]interface{}) error
}

// AuthService handles credential hashing, token issuance and
// verification, registration, login and password changes.
type AuthService struct {
	userRepo  repositories.UserRepository
	jwtSecret []byte
	events    EventPublisher
	validate  *validator.Validate
}

// NewAuthService creates a new AuthService. events may be nil.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string, events EventPublisher) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
		events:    events,
		validate:  validator.New(),
	}
}

// Register normalizes the email, validates the user, hashes the
// password and persists the account. On success it returns a fresh
// token so registration doubles as login.
func (s *AuthService) Register(ctx context.Context, user *models.User) (string, error) {
	user.Email = models.NormalizeEmail(user.Email)
	if err := s.validate.Struct(user); err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	digest, err := HashPassword(user.Password)
	if err != nil {
		return "", err
	}
	user.Password = digest

	// The unique email index adjudicates concurrent duplicate creates.
	if err := s.userRepo.Create(ctx, user); err != nil {
		return "", err
	}

	s.publish("user.registered", map[string]interface{}{
		"userID": user.ID.Hex(),
		"name":   user.Name,
		"email":  user.Email,
	})

	return s.IssueToken(user.ID.Hex(), user.Name)
}

// Login authenticates by email and password and issues a token.
// An unknown email and a wrong password are distinct failures.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, models.NormalizeEmail(email))
	if err != nil {
		return nil, "", err
	}
	if !CheckPassword(password, user.Password) {
		return nil, "", fmt.Errorf("%w: wrong password", apperrors.ErrIncorrectCredential)
	}
	token, err := s.IssueToken(user.ID.Hex(), user.Name)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// IssueToken produces a signed HS256 token embedding the subject's
// identity, valid for one hour from issuance.
func (s *AuthService) IssueToken(userID, name string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"name":    name,
		"iat":     now.Unix(),
		"exp":     now.Add(tokenLifetime).Unix(),
	})
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken verifies signature, structure and expiry. Every failure
// collapses into ErrInvalidToken; callers must not surface more detail
// than "invalid or expired".
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, apperrors.ErrInvalidToken
	}
	userID, _ := claims["user_id"].(string)
	name, _ := claims["name"].(string)
	if userID == "" {
		return nil, apperrors.ErrInvalidToken
	}
	return &Claims{UserID: userID, Name: name}, nil
}

// ChangePassword replaces a user's digest only when the correct current
// password is supplied. On any failure the stored digest is untouched.
func (s *AuthService) ChangePassword(ctx context.Context, id, oldPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !CheckPassword(oldPassword, user.Password) {
		return fmt.Errorf("%w: current password is wrong", apperrors.ErrIncorrectCredential)
	}
	if len(newPassword) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters", apperrors.ErrValidation)
	}
	digest, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.Password = digest
	return s.userRepo.Update(ctx, user)
}

func (s *AuthService) publish(event string, payload map[string]interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishEvent(event, payload); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", event, err)
	}
}
