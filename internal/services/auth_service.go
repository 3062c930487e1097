package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"task-manager.com/task-manager/internal/constants"
	apperrors "task-manager.com/task-manager/internal/errors"
	model "task-manager.com/task-manager/internal/models"
	repository "task-manager.com/task-manager/internal/repositories"
)

const MinPasswordLength = 8

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(password, hash string) (bool, error)
}

type Argon2Hasher struct {
	params *argon2id.Params
}

// NewArgon2Hasher uses argon2id.DefaultParams when params is nil.
func NewArgon2Hasher(params *argon2id.Params) Argon2Hasher {
	if params == nil {
		params = argon2id.DefaultParams
	}
	return Argon2Hasher{params: params}
}

func (h Argon2Hasher) Hash(password string) (string, error) {
	return argon2id.CreateHash(password, h.params)
}

func (h Argon2Hasher) Compare(password, hash string) (bool, error) {
	return argon2id.ComparePasswordAndHash(password, hash)
}

type AuthConfig struct {
	SigningKey       []byte
	Issuer           string
	TTL              time.Duration
	AdminInviteToken string
}

type RegisterParams struct {
	Name             string
	Email            string
	Password         string
	ProfileImageURL  string
	AdminInviteToken string
}

type LoginParams struct {
	Email    string
	Password string
}

type AuthResult struct {
	User      *model.User
	Token     string
	ExpiresAt time.Time
}

type AuthService struct {
	users  *repository.UserRepository
	hasher PasswordHasher
	cfg    AuthConfig
	logger zerolog.Logger
	now    func() time.Time
}

func NewAuthService(
	users *repository.UserRepository,
	hasher PasswordHasher,
	cfg AuthConfig,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// Register creates a member account, or an admin account when the invite
// token matches the configured one.
func (s *AuthService) Register(ctx context.Context, params RegisterParams) (*AuthResult, error) {
	role := constants.RoleMember
	if s.cfg.AdminInviteToken != "" &&
		subtle.ConstantTimeCompare([]byte(params.AdminInviteToken), []byte(s.cfg.AdminInviteToken)) == 1 {
		role = constants.RoleAdmin
	}

	user, err := s.CreateUser(ctx, params, role)
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

// CreateUser validates and stores a new account with the given role.
func (s *AuthService) CreateUser(ctx context.Context, params RegisterParams, role constants.Role) (*model.User, error) {
	name := strings.TrimSpace(params.Name)
	email := strings.TrimSpace(params.Email)
	if name == "" || email == "" || params.Password == "" {
		return nil, apperrors.ErrMissingUserFields
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperrors.ErrMissingUserFields
	}
	if len(params.Password) < MinPasswordLength {
		return nil, apperrors.ErrWeakPassword
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, apperrors.ErrEmailTaken
	} else if !errors.Is(err, apperrors.ErrUserNotFound) {
		s.logger.Error().
			Err(err).
			Str("email", email).
			Msg("failed to look up user by email")
		return nil, err
	}

	hash, err := s.hasher.Hash(params.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to hash password")
		return nil, err
	}

	user := &model.User{
		Name:            name,
		Email:           email,
		Password:        hash,
		ProfileImageURL: optionalString(params.ProfileImageURL),
		Role:            role,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if !errors.Is(err, apperrors.ErrEmailTaken) {
			s.logger.Error().
				Err(err).
				Str("email", email).
				Msg("failed to insert user")
		}
		return nil, err
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Str("role", string(user.Role)).
		Msg("registered user")
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, params LoginParams) (*AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, params.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			s.logger.Warn().
				Str("email", params.Email).
				Msg("login for unknown email")
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	match, err := s.hasher.Compare(params.Password, user.Password)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to compare password")
		return nil, err
	}
	if !match {
		s.logger.Warn().
			Str("user_id", user.ID).
			Msg("passwords do not match")
		return nil, apperrors.ErrInvalidCredentials
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Msg("logged in")
	return s.issue(user)
}

// Authenticate resolves a bearer token to the stored user. The role is read
// from the store on every call so role changes apply immediately.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	claims, err := s.ParseToken(token)
	if err != nil {
		s.logger.Debug().Err(err).Msg("rejected token")
		return nil, apperrors.ErrUnauthorized
	}

	user, err := s.users.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) ParseToken(tokenString string) (*jwt.RegisteredClaims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&jwt.RegisteredClaims{},
		func(token *jwt.Token) (any, error) {
			return s.cfg.SigningKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

func (s *AuthService) issue(user *model.User) (*AuthResult, error) {
	now := s.now()
	expiresAt := now.Add(s.cfg.TTL)

	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   user.ID,
		Issuer:    s.cfg.Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.cfg.SigningKey)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to sign token")
		return nil, err
	}

	return &AuthResult{
		User:      user,
		Token:     signed,
		ExpiresAt: expiresAt,
	}, nil
}
