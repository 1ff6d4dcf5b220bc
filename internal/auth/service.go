package auth

import (
	"context"
	"errors"
	"time"

	"school-service/internal/db"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrUserExists          = errors.New("username or email already exists")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	ErrNoToken             = errors.New("no token provided")
)

type Service struct {
	repo       *Repository
	tokens     *Tokens
	blacklist  Blacklist
	refreshTTL time.Duration
}

func NewService(repo *Repository, tokens *Tokens, blacklist Blacklist, refreshTTL time.Duration) *Service {
	return &Service{
		repo:       repo,
		tokens:     tokens,
		blacklist:  blacklist,
		refreshTTL: refreshTTL,
	}
}

// Register creates a new user account
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	hashedPassword, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &User{
		Username: req.Username,
		Email:    req.Email,
		Password: hashedPassword,
		Role:     req.Role,
		IsActive: 1,
	}

	created, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	return s.generateTokenPair(ctx, created)
}

// Login authenticates a user by username or email
func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	user, err := s.repo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.generateTokenPair(ctx, user)
}

// RefreshAccessToken rotates the whole pair: the presented refresh token is
// consumed and a new one issued, so a stolen token works at most once.
func (s *Service) RefreshAccessToken(ctx context.Context, refreshTokenString string) (*AuthResponse, error) {
	refreshToken, err := s.repo.GetRefreshToken(ctx, refreshTokenString)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.repo.GetUserByID(ctx, refreshToken.UserID)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	if err := s.repo.DeleteRefreshToken(ctx, refreshTokenString); err != nil {
		return nil, err
	}

	return s.generateTokenPair(ctx, user)
}

// ResetPassword sets a new password for the named user and invalidates their
// refresh tokens, forcing a fresh login everywhere.
func (s *Service) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	user, err := s.repo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return err
	}

	hashedPassword, err := HashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	if err := s.repo.UpdatePassword(ctx, user.ID, hashedPassword); err != nil {
		return err
	}

	return s.repo.DeleteUserTokens(ctx, user.ID)
}

// CleanupExpiredTokens drops refresh tokens past their expiry; the app runs
// it on a timer.
func (s *Service) CleanupExpiredTokens(ctx context.Context) error {
	return s.repo.DeleteExpiredTokens(ctx)
}

// Logout blacklists the presented access token for its remaining lifetime
// and drops the user's refresh tokens.
func (s *Service) Logout(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return ErrNoToken
	}

	claims, err := s.tokens.Parse(accessToken)
	if err != nil {
		return ErrInvalidToken
	}

	if err := s.blacklist.Revoke(ctx, accessToken, s.tokens.RemainingTTL(claims)); err != nil {
		return err
	}

	return s.repo.DeleteUserTokens(ctx, claims.UserID)
}

func (s *Service) generateTokenPair(ctx context.Context, user *User) (*AuthResponse, error) {
	accessToken, err := s.tokens.Generate(user)
	if err != nil {
		return nil, err
	}

	refreshToken := uuid.NewString()
	expiresAt := time.Now().Add(s.refreshTTL)
	if err := s.repo.CreateRefreshToken(ctx, user.ID, refreshToken, expiresAt); err != nil {
		return nil, err
	}

	return &AuthResponse{
		Token:        accessToken,
		RefreshToken: refreshToken,
		Username:     user.Username,
		Role:         user.Role,
	}, nil
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
