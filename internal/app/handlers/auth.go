package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/linemk/homedeco-shop/internal/jwt-new/jwtmiddleware"
	"github.com/linemk/homedeco-shop/internal/service"
	"github.com/linemk/homedeco-shop/internal/storage"
)

// RegisterRequest запрос регистрации
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest запрос входа
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ProfileRequest изменение профиля
type ProfileRequest struct {
	Name  string `json:"name" validate:"required,max=255"`
	Email string `json:"email" validate:"required,email,max=255"`
}

// RegisterHandler POST /api/register
func RegisterHandler(log *slog.Logger, authService service.AuthServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.RegisterHandler"
		logger := log.With(slog.String("op", op))

		var req RegisterRequest
		if err := decodeRequest(r, &req); err != nil {
			writeDecodeError(logger, w, err)
			return
		}

		res, err := authService.Register(r.Context(), req.Name, req.Email, req.Password)
		if err != nil {
			if errors.Is(err, storage.ErrEmailTaken) {
				writeError(logger, w, http.StatusUnprocessableEntity, "email already registered")
				return
			}
			logger.Error("registration failed", slog.Any("error", err))
			writeError(logger, w, http.StatusInternalServerError, "internal server error")
			return
		}

		writeJSON(logger, w, http.StatusCreated, res)
	}
}

// LoginHandler POST /api/login
func LoginHandler(log *slog.Logger, authService service.AuthServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.LoginHandler"
		logger := log.With(slog.String("op", op))

		var req LoginRequest
		if err := decodeRequest(r, &req); err != nil {
			writeDecodeError(logger, w, err)
			return
		}

		res, err := authService.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, service.ErrInvalidCredentials) {
				writeError(logger, w, http.StatusUnauthorized, "invalid credentials")
				return
			}
			logger.Error("login failed", slog.Any("error", err))
			writeError(logger, w, http.StatusInternalServerError, "internal server error")
			return
		}

		writeJSON(logger, w, http.StatusOK, res)
	}
}

// LogoutHandler POST /api/logout, отзывает текущий токен
func LogoutHandler(log *slog.Logger, authService service.AuthServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.LogoutHandler"
		logger := log.With(slog.String("op", op))

		jti, exp, ok := jwtmiddleware.TokenFromContext(r.Context())
		if !ok {
			writeError(logger, w, http.StatusUnauthorized, "unauthorized")
			return
		}

		if err := authService.Logout(r.Context(), jti, exp); err != nil {
			logger.Error("logout failed", slog.Any("error", err))
			writeError(logger, w, http.StatusInternalServerError, "internal server error")
			return
		}

		writeJSON(logger, w, http.StatusOK, MessageResponse{Message: "Logged out successfully"})
	}
}

// CurrentUserHandler GET /api/user
func CurrentUserHandler(log *slog.Logger, authService service.AuthServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CurrentUserHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := currentUser(logger, w, r)
		if !ok {
			return
		}

		user, err := authService.GetProfile(r.Context(), userID)
		if err != nil {
			if errors.Is(err, storage.ErrUserNotFound) {
				writeError(logger, w, http.StatusUnauthorized, "unauthorized")
				return
			}
			logger.Error("failed to get user", slog.Any("error", err))
			writeError(logger, w, http.StatusInternalServerError, "internal server error")
			return
		}

		writeJSON(logger, w, http.StatusOK, user)
	}
}

// UpdateProfileHandler PUT /api/user/profile
func UpdateProfileHandler(log *slog.Logger, authService service.AuthServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UpdateProfileHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := currentUser(logger, w, r)
		if !ok {
			return
		}

		var req ProfileRequest
		if err := decodeRequest(r, &req); err != nil {
			writeDecodeError(logger, w, err)
			return
		}

		user, err := authService.UpdateProfile(r.Context(), userID, req.Name, req.Email)
		if err != nil {
			switch {
			case errors.Is(err, storage.ErrEmailTaken):
				writeError(logger, w, http.StatusUnprocessableEntity, "email already registered")
			case errors.Is(err, storage.ErrUserNotFound):
				writeError(logger, w, http.StatusNotFound, "user not found")
			default:
				logger.Error("failed to update profile", slog.Any("error", err))
				writeError(logger, w, http.StatusInternalServerError, "internal server error")
			}
			return
		}

		writeJSON(logger, w, http.StatusOK, user)
	}
}
