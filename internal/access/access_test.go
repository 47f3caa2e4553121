package access_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/linemk/homedeco-shop/internal/access"
	"github.com/linemk/homedeco-shop/internal/domain/models"
	"github.com/linemk/homedeco-shop/internal/jwt-new/jwtmiddleware"
	"github.com/stretchr/testify/assert"
)

func TestAllowed(t *testing.T) {
	tests := []struct {
		role     models.Role
		resource access.Resource
		want     bool
	}{
		{models.RoleUser, access.ResourceAccount, true},
		{models.RoleAdmin, access.ResourceAccount, true},
		{models.RoleUser, access.ResourceAdmin, false},
		{models.RoleAdmin, access.ResourceAdmin, true},
		{models.Role("guest"), access.ResourceAccount, false},
		{models.RoleAdmin, access.Resource("billing"), false},
	}
	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+string(tt.resource), func(t *testing.T) {
			assert.Equal(t, tt.want, access.Allowed(tt.role, tt.resource))
		})
	}
}

func TestRequireRole(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := access.RequireRole(access.ResourceAdmin)(next)

	cases := map[string]struct {
		ctx  context.Context
		code int
	}{
		"no role":    {context.Background(), http.StatusUnauthorized},
		"customer":   {context.WithValue(context.Background(), jwtmiddleware.RoleKey, models.RoleUser), http.StatusForbidden},
		"admin role": {context.WithValue(context.Background(), jwtmiddleware.RoleKey, models.RoleAdmin), http.StatusOK},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil).WithContext(c.ctx)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			assert.Equal(t, c.code, rr.Code)
		})
	}
}
