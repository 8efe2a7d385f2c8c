package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"

	"gorm.io/gorm"

	"github.com/harishn/shopapi/internal/hash"
	"github.com/harishn/shopapi/internal/logging"
	"github.com/harishn/shopapi/internal/models"
	"github.com/harishn/shopapi/internal/repo"
	"github.com/harishn/shopapi/internal/tokens"
)

var (
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials covers every authentication failure: unknown
	// email, wrong password, invalid/expired/forged token, unknown subject.
	// Callers must not distinguish these cases to the client.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrValidation = errors.New("validation failed")
)

type Service struct {
	Repo  *repo.UserRepo
	Codec *tokens.Codec
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	Role         string `json:"role"`
}

// Register creates a public account. The role is fixed to "user" here
// regardless of anything the client sent; admin accounts only come from
// CreateAdmin, which is never routed over HTTP.
func (s *Service) Register(ctx context.Context, username, email, password string) error {
	return s.createAccount(ctx, username, email, password, "user")
}

// CreateAdmin is the trusted, non-public creation path (cmd/createadmin).
func (s *Service) CreateAdmin(ctx context.Context, username, email, password string) error {
	return s.createAccount(ctx, username, email, password, "admin")
}

func (s *Service) createAccount(ctx context.Context, username, email, password, role string) error {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if len(username) < 3 || len(username) > 15 {
		return fmt.Errorf("%w: username must be 3-15 characters", ErrValidation)
	}
	if len(password) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters", ErrValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("%w: invalid email address", ErrValidation)
	}

	// Best-effort pre-check; the unique index on email is the real guard
	// against concurrent signups.
	if _, err := s.Repo.FindByEmail(ctx, email); err == nil {
		return ErrEmailTaken
	} else if !errors.Is(err, repo.ErrNotFound) {
		l.Error("register_error", "reason", "email lookup failed", "error", err)
		return err
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("register_error", "reason", "cannot hash the password", "error", err)
		return err
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: pwHash,
		Role:         role,
	}
	if err := s.Repo.Create(ctx, &user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrEmailTaken
		}
		l.Error("register_error", "reason", "insert failed", "error", err)
		return err
	}
	return nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	user, err := s.Repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		l.Error("login_error", "reason", "email lookup failed", "error", err)
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	pair, refreshHash, err := s.issuePair(user)
	if err != nil {
		l.Error("login_error", "reason", "token issue failed", "error", err)
		return nil, err
	}

	// Overwriting any prior hash enforces the single-session policy: a
	// previously issued refresh token stops working from here on.
	if err := s.Repo.SetSessionHash(ctx, user.ID, &refreshHash); err != nil {
		l.Error("login_error", "reason", "session store failed", "error", err)
		return nil, err
	}
	return pair, nil
}

func (s *Service) Refresh(ctx context.Context, presented string) (*TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	claims, err := s.Codec.ParseRefresh(presented)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := s.Repo.FindByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		l.Error("refresh_error", "reason", "subject lookup failed", "error", err)
		return nil, err
	}
	if user.HashedRefreshToken == nil {
		return nil, ErrInvalidCredentials
	}

	// Mismatch here is the reuse/forgery detection point: either a rotated-out
	// token coming back, or one we never issued.
	if !hash.CheckToken(*user.HashedRefreshToken, presented) {
		return nil, ErrInvalidCredentials
	}

	pair, refreshHash, err := s.issuePair(user)
	if err != nil {
		l.Error("refresh_error", "reason", "token issue failed", "error", err)
		return nil, err
	}

	matched, err := s.Repo.RotateSessionHash(ctx, user.ID, *user.HashedRefreshToken, refreshHash)
	if err != nil {
		l.Error("refresh_error", "reason", "rotation failed", "error", err)
		return nil, err
	}
	if matched == 0 {
		// A concurrent refresh or logout replaced the hash between our read
		// and this conditional write. The loser is rejected.
		return nil, ErrInvalidCredentials
	}
	return pair, nil
}

// Logout is best-effort and idempotent: an invalid or expired token is
// already logged out, and storage failures are logged but never surfaced.
func (s *Service) Logout(ctx context.Context, accessToken string) {
	l := logging.FromContext(ctx).With("svc", "auth.logout")

	claims, err := s.Codec.ParseAccess(accessToken)
	if err != nil {
		return
	}
	if err := s.Repo.ClearSessionHashByEmail(ctx, claims.Subject); err != nil {
		l.Error("logout_error", "reason", "session clear failed", "error", err)
	}
}

// Authenticate resolves a bearer access token to the account it was issued
// for. Accounts deleted after issuance fail here even with a valid token.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.authenticate")

	claims, err := s.Codec.ParseAccess(accessToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	user, err := s.Repo.FindByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		l.Error("authenticate_error", "reason", "subject lookup failed", "error", err)
		return nil, err
	}
	return user, nil
}

func (s *Service) issuePair(user *models.User) (*TokenPair, string, error) {
	accessToken, err := s.Codec.IssueAccess(user.Email, user.Role)
	if err != nil {
		return nil, "", err
	}
	refreshToken, err := s.Codec.IssueRefresh(user.Email)
	if err != nil {
		return nil, "", err
	}
	refreshHash, err := hash.HashToken(refreshToken)
	if err != nil {
		return nil, "", err
	}
	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		Role:         user.Role,
	}, refreshHash, nil
}
