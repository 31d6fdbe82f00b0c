package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vietanh2810/event-api/internal/config"
	"github.com/vietanh2810/event-api/internal/domain"
	"github.com/vietanh2810/event-api/internal/metrics"
	"github.com/vietanh2810/event-api/internal/pkg/jwthelper"
	"github.com/vietanh2810/event-api/internal/repository"
)

var (
	ErrUserEmailExists = repository.ErrUserEmailExists
	ErrWrongPassword   = errors.New("wrong password")
	ErrUnauthorized    = errors.New("invalid or expired session token")
)

type AuthUserRepository interface {
	CreateBatch(ctx context.Context, users []domain.User) ([]domain.User, error)
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	UpdateSessionToken(ctx context.Context, id uint, token *string) error
}

type AuthService struct {
	repo       AuthUserRepository
	signingKey []byte
	tokenTTL   time.Duration
}

func NewAuthService(repo AuthUserRepository, conf *config.APIConfig) *AuthService {
	return &AuthService{
		repo:       repo,
		signingKey: []byte(conf.JWTSigningKey),
		tokenTTL:   conf.TokenTTL,
	}
}

// Signup stores every user or none. Plain passwords are replaced by an argon2id hash and its salt.
func (s *AuthService) Signup(ctx context.Context, users []domain.User) ([]domain.User, error) {
	toCreate := make([]domain.User, 0, len(users))
	for _, u := range users {
		hash, salt, err := hashPassword(u.Password)
		if err != nil {
			return nil, fmt.Errorf("hashPassword -> %w", err)
		}

		u.Email = normalizeEmail(u.Email)
		u.Password = ""
		u.PasswordHash = hash
		u.Salt = salt
		toCreate = append(toCreate, u)
	}

	created, err := s.repo.CreateBatch(ctx, toCreate)
	if err != nil {
		return nil, fmt.Errorf("s.repo.CreateBatch -> %w", err)
	}

	metrics.UsersSignedUp.Add(float64(len(created)))

	return created, nil
}

// Login checks the credentials and stores a fresh session token, which replaces any older one.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	user, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{}, "", ErrUserNotFound
		}

		return domain.User{}, "", fmt.Errorf("s.repo.FindByEmail -> %w", err)
	}

	if !verifyPassword(password, user.PasswordHash, user.Salt) {
		return domain.User{}, "", ErrWrongPassword
	}

	token, err := jwthelper.GenerateToken(s.signingKey, user.ID, s.tokenTTL)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("jwthelper.GenerateToken -> %w", err)
	}

	if err = s.repo.UpdateSessionToken(ctx, user.ID, &token); err != nil {
		return domain.User{}, "", fmt.Errorf("s.repo.UpdateSessionToken -> %w", err)
	}
	user.SessionToken = &token

	return user, token, nil
}

func (s *AuthService) Logout(ctx context.Context, userID uint) error {
	if err := s.repo.UpdateSessionToken(ctx, userID, nil); err != nil {
		return fmt.Errorf("s.repo.UpdateSessionToken -> %w", err)
	}

	return nil
}

// Authenticate resolves token to a user id. The token has to be validly signed, unexpired
// and equal to the one currently stored for that user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (uint, error) {
	if token == "" {
		return 0, ErrUnauthorized
	}

	userID, err := jwthelper.ParseToken(s.signingKey, token)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return 0, ErrUnauthorized
		}

		return 0, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if user.SessionToken == nil || subtle.ConstantTimeCompare([]byte(*user.SessionToken), []byte(token)) != 1 {
		return 0, ErrUnauthorized
	}

	return user.ID, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
