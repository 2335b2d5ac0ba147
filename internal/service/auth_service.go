package service

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"devconnector/internal/apperr"
	"devconnector/internal/config"
	"devconnector/internal/models"
	"devconnector/internal/repository"
)

const bcryptCost = 10

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Claims is the token payload: {"user":{"id":...}} plus the registered claims.
type Claims struct {
	User ClaimsUser `json:"user"`
	jwt.RegisteredClaims
}

type ClaimsUser struct {
	ID string `json:"id"`
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	IssueToken(userID string) (string, error)
	ParseToken(tokenString string) (string, error)
}

type authService struct {
	userRepo repository.UserRepository
	cfg      *config.Config
	now      func() time.Time
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config) AuthService {
	return &authService{
		userRepo: userRepo,
		cfg:      cfg,
		now:      time.Now,
	}
}

// GravatarURL returns the avatar for email at 200px, rated pg, with the
// mystery-man fallback.
func GravatarURL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	q := url.Values{"s": {"200"}, "r": {"pg"}, "d": {"mm"}}
	return "https://www.gravatar.com/avatar/" + hex.EncodeToString(sum[:]) + "?" + q.Encode()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (string, error) {
	const op = "AuthService.Register"
	exists := apperr.Validation(op, apperr.FieldError{Msg: "User already exists"})

	email := normalizeEmail(in.Email)

	_, err := s.userRepo.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return "", exists
	case !errors.Is(err, repository.ErrNotFound):
		return "", apperr.Internal(op, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return "", apperr.Internal(op, fmt.Errorf("hash password: %w", err))
	}

	user := &models.User{
		ID:       uuid.NewString(),
		Name:     strings.TrimSpace(in.Name),
		Email:    email,
		Password: string(hash),
		Avatar:   GravatarURL(email),
		Date:     s.now().UTC(),
	}

	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return "", exists
		}
		return "", apperr.Internal(op, err)
	}

	token, err := s.IssueToken(user.ID)
	if err != nil {
		return "", apperr.Internal(op, err)
	}
	return token, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	const op = "AuthService.Login"
	invalid := apperr.Validation(op, apperr.FieldError{Msg: "Invalid Credentials"})

	user, err := s.userRepo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", invalid
		}
		return "", apperr.Internal(op, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", invalid
	}

	token, err := s.IssueToken(user.ID)
	if err != nil {
		return "", apperr.Internal(op, err)
	}
	return token, nil
}

func (s *authService) IssueToken(userID string) (string, error) {
	now := s.now()
	claims := Claims{
		User: ClaimsUser{ID: userID},
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessTokenDuration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte(s.cfg.JWTSecretKey))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseToken verifies signature and expiry and returns the embedded user id.
func (s *authService) ParseToken(tokenString string) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return []byte(s.cfg.JWTSecretKey), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid || claims.User.ID == "" {
		return "", errors.New("token carries no user")
	}

	return claims.User.ID, nil
}
