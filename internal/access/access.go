package access

import (
	"net/http"

	"github.com/linemk/homedeco-shop/internal/domain/models"
	"github.com/linemk/homedeco-shop/internal/jwt-new/jwtmiddleware"
)

// Resource - защищённая область API.
type Resource string

const (
	// ResourceAccount - личный кабинет: заказы, отзывы, избранное, оформление заказа.
	ResourceAccount Resource = "account"
	// ResourceAdmin - статистика, модерация, управление каталогом и контентом.
	ResourceAdmin Resource = "admin"
)

var policy = map[Resource]map[models.Role]bool{
	ResourceAccount: {models.RoleUser: true, models.RoleAdmin: true},
	ResourceAdmin:   {models.RoleAdmin: true},
}

// Allowed - единственное место, где решается, есть ли у роли доступ к ресурсу.
// Неизвестные роли и ресурсы запрещены.
func Allowed(role models.Role, resource Resource) bool {
	return policy[resource][role]
}

// RequireRole пропускает запрос дальше, только если роль из токена допускается к resource.
// Должен стоять после jwtmiddleware.
func RequireRole(resource Resource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := jwtmiddleware.RoleFromContext(r.Context())
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			if !Allowed(role, resource) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
