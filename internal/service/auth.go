package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/linemk/homedeco-shop/internal/access"
	"github.com/linemk/homedeco-shop/internal/domain/models"
	security "github.com/linemk/homedeco-shop/internal/jwt-new"
	"github.com/linemk/homedeco-shop/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// TokenRevoker отзывает токен по jti до истечения его срока.
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
}

// AuthResult ответ на регистрацию и вход
type AuthResult struct {
	Token    string       `json:"token"`
	User     *models.User `json:"user"`
	Redirect string       `json:"redirect"`
}

type AuthServiceInterface interface {
	Register(ctx context.Context, name, email, password string) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Logout(ctx context.Context, jti string, expiresAt time.Time) error
	GetProfile(ctx context.Context, userID int64) (*models.User, error)
	UpdateProfile(ctx context.Context, userID int64, name, email string) (*models.User, error)
}

type AuthService struct {
	log      *slog.Logger
	userRepo storage.UserStorage
	revoker  TokenRevoker
	secret   string
	tokenTTL time.Duration
}

func NewAuthService(log *slog.Logger, userRepo storage.UserStorage, revoker TokenRevoker, secret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		log:      log,
		userRepo: userRepo,
		revoker:  revoker,
		secret:   secret,
		tokenTTL: tokenTTL,
	}
}

// Register создаёт покупателя. Пароль хэшируется через bcrypt, который сам добавляет соль.
func (a *AuthService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	const op = "service.AuthService.Register"
	email = normalizeEmail(email)
	logger := a.log.With(slog.String("op", op), slog.String("email", email))

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("failed to hash password", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to hash password: %w", op, err)
	}

	user, err := a.userRepo.CreateUser(ctx, &models.User{
		Name:     strings.TrimSpace(name),
		Email:    email,
		PassHash: passHash,
		Role:     models.RoleUser,
	})
	if err != nil {
		if errors.Is(err, storage.ErrEmailTaken) {
			logger.Warn("email already registered")
		} else {
			logger.Error("failed to create user", slog.Any("error", err))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	token, err := security.NewToken(ctx, user, a.secret, a.tokenTTL)
	if err != nil {
		logger.Error("failed to generate token", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to generate token: %w", op, err)
	}

	logger.Info("user registered", slog.Int64("userID", user.ID))
	return &AuthResult{Token: token, User: user, Redirect: redirectFor(user.Role)}, nil
}

// Login сравнивает пароль с хэшем и выдаёт токен.
// Неизвестный email и неверный пароль неразличимы для клиента.
func (a *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	const op = "service.AuthService.Login"
	email = normalizeEmail(email)
	logger := a.log.With(slog.String("op", op), slog.String("email", email))
	logger.Info("checking user")

	user, err := a.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			logger.Warn("user not found")
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		logger.Error("failed to get user", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get user: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PassHash, []byte(password)); err != nil {
		logger.Warn("invalid password")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	token, err := security.NewToken(ctx, user, a.secret, a.tokenTTL)
	if err != nil {
		logger.Error("failed to generate token", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to generate token: %w", op, err)
	}

	logger.Info("user logged in successfully", slog.Int64("userID", user.ID))
	return &AuthResult{Token: token, User: user, Redirect: redirectFor(user.Role)}, nil
}

// Logout отзывает текущий токен до момента его истечения.
func (a *AuthService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	const op = "service.AuthService.Logout"
	logger := a.log.With(slog.String("op", op))

	if jti == "" {
		return fmt.Errorf("%s: token has no id", op)
	}

	ttl := a.tokenTTL
	if !expiresAt.IsZero() {
		ttl = time.Until(expiresAt)
	}
	if err := a.revoker.Revoke(ctx, jti, ttl); err != nil {
		logger.Error("failed to revoke token", slog.Any("error", err))
		return fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("token revoked")
	return nil
}

func (a *AuthService) GetProfile(ctx context.Context, userID int64) (*models.User, error) {
	const op = "service.AuthService.GetProfile"

	user, err := a.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

func (a *AuthService) UpdateProfile(ctx context.Context, userID int64, name, email string) (*models.User, error) {
	const op = "service.AuthService.UpdateProfile"
	logger := a.log.With(slog.String("op", op), slog.Int64("userID", userID))

	if err := a.userRepo.UpdateProfile(ctx, userID, strings.TrimSpace(name), normalizeEmail(email)); err != nil {
		if !errors.Is(err, storage.ErrEmailTaken) {
			logger.Error("failed to update profile", slog.Any("error", err))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("profile updated")
	return a.GetProfile(ctx, userID)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// после входа администратор попадает в панель, покупатель на главную
func redirectFor(role models.Role) string {
	if access.Allowed(role, access.ResourceAdmin) {
		return "/admin"
	}
	return "/"
}
