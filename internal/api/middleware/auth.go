package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/jrbarber/scheduling-service/internal/api/handlers"
)

const (
	msgNoAuth      = "требуется авторизация"
	msgInvalidAuth = "недействительный токен авторизации"
)

// AdminAuth проверяет bearer-токен для админских ручек.
// Управление JWT-сессиями остается за внешним слоем; сервису достаточно
// статического токена из конфигурации.
func AdminAuth(adminToken string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				handlers.RespondError(w, http.StatusUnauthorized, msgNoAuth)
				return
			}

			token := strings.TrimPrefix(auth, "Bearer ")
			// Сравнение за постоянное время, чтобы не давать тайминг-оракул
			if subtle.ConstantTimeCompare([]byte(token), []byte(adminToken)) != 1 {
				handlers.RespondError(w, http.StatusUnauthorized, msgInvalidAuth)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
