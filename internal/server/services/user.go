package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"sollog/internal/common"
	"sollog/internal/server/auth"
	sc "sollog/internal/server/config"
	"sollog/internal/server/models"
	"sollog/internal/server/repositories/repomanager"
)

// ProfileUpdate carries the mutable profile fields.
type ProfileUpdate struct {
	Username    string
	DateOfBirth time.Time
	Location    string
}

// UserService implements registration, login and profile management.
type UserService struct {
	db        *sql.DB
	repos     repomanager.RepositoryManager
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewUserService(db *sql.DB, repos repomanager.RepositoryManager, cfg *sc.Config) *UserService {
	return &UserService{
		db:        db,
		repos:     repos,
		jwtSecret: []byte(cfg.SecretKey),
		tokenTTL:  cfg.AccessTokenValidityDuration,
	}
}

// Register creates an account and returns a signed access token for it.
func (s *UserService) Register(ctx context.Context, email string, password []byte) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return "", fmt.Errorf("%w: invalid email", common.ErrValidation)
	}
	if len(password) < 8 {
		return "", fmt.Errorf("%w: password must be at least 8 characters", common.ErrValidation)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", common.ErrInternal
	}

	user, err := s.repos.Users(s.db).Create(ctx, &models.User{Email: email, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return "", common.ErrAlreadyExists
		}
		return "", common.ErrInternal
	}

	return auth.GenerateToken(user.ID, s.jwtSecret, s.tokenTTL)
}

// Login verifies credentials and returns a signed access token. Unknown
// email and wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email string, password []byte) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.repos.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrUnauthorized
		}
		return "", common.ErrInternal
	}

	ok, err := auth.VerifyPassword(user.PasswordHash, password)
	if err != nil {
		return "", common.ErrInternal
	}
	if !ok {
		return "", common.ErrUnauthorized
	}

	return auth.GenerateToken(user.ID, s.jwtSecret, s.tokenTTL)
}

// Get returns the account for an authenticated user id.
func (s *UserService) Get(ctx context.Context, userID string) (*models.User, error) {
	if userID == "" {
		return nil, common.ErrUnauthorized
	}
	return s.repos.Users(s.db).GetByID(ctx, userID)
}

// UpdateProfile validates and stores profile fields for userID.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (*models.User, error) {
	if userID == "" {
		return nil, common.ErrUnauthorized
	}

	upd.Username = strings.TrimSpace(upd.Username)
	upd.Location = strings.TrimSpace(upd.Location)
	if upd.Username == "" || upd.Location == "" || upd.DateOfBirth.IsZero() {
		return nil, fmt.Errorf("%w: username, date of birth, and location are required", common.ErrValidation)
	}
	if upd.DateOfBirth.After(time.Now()) {
		return nil, fmt.Errorf("%w: date of birth cannot be in the future", common.ErrValidation)
	}

	userRepo := s.repos.Users(s.db)

	user, err := userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	dob := upd.DateOfBirth
	user.Username = upd.Username
	user.DateOfBirth = &dob
	user.Location = upd.Location
	user.ProfileComplete = true

	if err := userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
