package jwtmiddleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/linemk/homedeco-shop/internal/domain/models"
)

type contextKey string

const (
	UserIDKey    contextKey = "userID"
	RoleKey      contextKey = "role"
	TokenIDKey   contextKey = "jti"
	ExpiresAtKey contextKey = "exp"
)

// RevocationChecker сообщает, отозван ли токен с данным jti.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// NewJWTMiddleware создаёт middleware для проверки JWT, подписанных secret.
// checker может быть nil, тогда отзыв токенов не проверяется.
func NewJWTMiddleware(secret string, checker RevocationChecker) func(http.Handler) http.Handler {
	if secret == "" {
		panic("jwt secret is empty")
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Извлекаем токен из заголовка Authorization (формат: "Bearer <token>")
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "missing token", http.StatusUnauthorized)
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "invalid token format", http.StatusUnauthorized)
				return
			}

			token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, errors.New("unexpected signing method")
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				http.Error(w, "invalid token claims", http.StatusUnauthorized)
				return
			}

			sub, ok := claims["sub"].(string)
			if !ok {
				http.Error(w, "invalid token claims: sub not found", http.StatusUnauthorized)
				return
			}
			userID, err := strconv.ParseInt(sub, 10, 64)
			if err != nil {
				http.Error(w, "invalid token claims: invalid user id", http.StatusUnauthorized)
				return
			}

			// токены без роли считаем токенами покупателя
			role := models.RoleUser
			if rs, ok := claims["role"].(string); ok && rs != "" {
				role = models.Role(rs)
			}

			jti, _ := claims["jti"].(string)
			if jti != "" && checker != nil {
				revoked, err := checker.IsRevoked(r.Context(), jti)
				if err != nil {
					http.Error(w, "failed to verify token", http.StatusInternalServerError)
					return
				}
				if revoked {
					http.Error(w, "token revoked", http.StatusUnauthorized)
					return
				}
			}

			var expiresAt time.Time
			if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
				expiresAt = exp.Time
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			ctx = context.WithValue(ctx, RoleKey, role)
			ctx = context.WithValue(ctx, TokenIDKey, jti)
			ctx = context.WithValue(ctx, ExpiresAtKey, expiresAt)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromContext извлекает userID из контекста.
func FromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(UserIDKey).(int64)
	return id, ok
}

// RoleFromContext извлекает роль пользователя из контекста.
func RoleFromContext(ctx context.Context) (models.Role, bool) {
	role, ok := ctx.Value(RoleKey).(models.Role)
	return role, ok
}

// TokenFromContext возвращает jti и время истечения текущего токена.
func TokenFromContext(ctx context.Context) (string, time.Time, bool) {
	jti, ok := ctx.Value(TokenIDKey).(string)
	if !ok || jti == "" {
		return "", time.Time{}, false
	}
	exp, _ := ctx.Value(ExpiresAtKey).(time.Time)
	return jti, exp, true
}
