package controller

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/watchroom/server/internal/service/auth"
	"github.com/watchroom/server/pkg/ctxlogger"
	"github.com/watchroom/server/pkg/rest"
)

type ctxKey string

const userKey ctxKey = "user"

func (c controller) requestIdMw(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := ctxlogger.AppendCtx(r.Context(), slog.String("request_id", uuid.NewString()))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (c controller) requestLoggingMw(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.logger.InfoContext(r.Context(), "request",
			"method", r.Method,
			"url", r.URL.String(),
			"remote_addr", r.RemoteAddr,
		)
		next.ServeHTTP(w, r)
	})
}

// authMw resolves the caller's identity from a Bearer token. Websocket
// clients cannot set headers, so an access_token query parameter is accepted
// as a fallback.
func (c controller) authMw(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token == "" {
			token = r.URL.Query().Get("access_token")
		}
		if token == "" {
			rest.WriteJSON(w, http.StatusUnauthorized, rest.Envelope{"error": "missing access token"})
			return
		}

		user, err := c.authService.UserFromToken(r.Context(), token)
		if err != nil {
			rest.WriteJSON(w, http.StatusUnauthorized, rest.Envelope{"error": "invalid access token"})
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		ctx = ctxlogger.AppendCtx(ctx, slog.String("user_id", user.Id))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userFromCtx(ctx context.Context) auth.User {
	user, _ := ctx.Value(userKey).(auth.User)
	return user
}
