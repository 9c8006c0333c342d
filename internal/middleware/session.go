package middleware

import (
	"Reisekarte/internal/session"
	"context"
	"net/http"
)

type contextKey string

const sessionContextKey contextKey = "session"

// SessionCookieName — имя cookie с идентификатором сессии.
const SessionCookieName = "sessionId"

// SessionIDFromRequest достаёт id сессии: сперва query-параметр,
// затем cookie. Тело запроса здесь не трогаем — его читают хендлеры.
func SessionIDFromRequest(r *http.Request) string {
	if id := r.URL.Query().Get("sessionId"); id != "" {
		return id
	}
	if c, err := r.Cookie(SessionCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	return ""
}

// WithSession резолвит сессию запроса и кладёт её в контекст.
// Отсутствующая или истёкшая сессия — не ошибка: решает хендлер.
func WithSession(store session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id := SessionIDFromRequest(r); id != "" {
				if sess := store.Get(id); sess != nil {
					ctx := context.WithValue(r.Context(), sessionContextKey, sess)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetSessionFromContext возвращает сессию запроса, если она была найдена.
func GetSessionFromContext(ctx context.Context) (*session.Session, bool) {
	sess, ok := ctx.Value(sessionContextKey).(*session.Session)
	return sess, ok
}
