package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/m04kA/HSP-SchedulingService/internal/api/handlers"
)

type contextKey string

const tenantIDKey contextKey = "tenantID"

const msgMissingTenantID = "отсутствует или некорректен заголовок X-Tenant-ID"

// Auth извлекает ID тенанта из заголовка X-Tenant-ID и кладет его в контекст
// Реальную аутентификацию выполняет платформенный gateway; сервис доверяет
// заголовку и изолирует данные по тенанту
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tenantIDStr := r.Header.Get("X-Tenant-ID")
		if tenantIDStr == "" {
			handlers.RespondUnauthorized(w, msgMissingTenantID)
			return
		}

		tenantID, err := strconv.ParseInt(tenantIDStr, 10, 64)
		if err != nil || tenantID <= 0 {
			handlers.RespondUnauthorized(w, msgMissingTenantID)
			return
		}

		ctx := context.WithValue(r.Context(), tenantIDKey, tenantID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetTenantID возвращает ID тенанта из контекста запроса
func GetTenantID(ctx context.Context) (int64, bool) {
	tenantID, ok := ctx.Value(tenantIDKey).(int64)
	return tenantID, ok
}
