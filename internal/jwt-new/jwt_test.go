package security_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	security "github.com/linemk/homedeco-shop/internal/jwt-new"
	"github.com/linemk/homedeco-shop/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewToken_Claims(t *testing.T) {
	user := &models.User{ID: 12, Email: "admin@example.com", Role: models.RoleAdmin}
	tokenStr, err := security.NewToken(context.Background(), user, "testsecret", time.Hour)
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte("testsecret"), nil
	})
	require.NoError(t, err)

	assert.Equal(t, "12", claims["sub"])
	assert.Equal(t, "admin", claims["role"])
	_, err = uuid.Parse(claims["jti"].(string))
	assert.NoError(t, err, "jti must be a uuid")
}

func TestNewToken_UniqueJTI(t *testing.T) {
	user := &models.User{ID: 1, Role: models.RoleUser}
	first, err := security.NewToken(context.Background(), user, "testsecret", time.Hour)
	require.NoError(t, err)
	second, err := security.NewToken(context.Background(), user, "testsecret", time.Hour)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestNewToken_NoSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")

	_, err := security.NewToken(context.Background(), &models.User{ID: 1}, "", time.Hour)
	assert.Error(t, err)
}
