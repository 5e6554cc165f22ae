package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const operatorContextKey = contextKey("operator")

// OperatorFromContext returns the subject of the bearer token, if any.
func OperatorFromContext(ctx context.Context) (string, bool) {
	sub, ok := ctx.Value(operatorContextKey).(string)
	return sub, ok
}

// JWTAuthMiddleware accepts HS256 bearer tokens signed with secret.
// Expiry is enforced when the token carries an exp claim.
func JWTAuthMiddleware(secret []byte, logger *slog.Logger) func(next http.Handler) http.Handler {
	logger = logger.With("component", "jwt_auth")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.WarnContext(ctx, "Authorization header missing")
				writeError(ctx, w, logger, http.StatusUnauthorized, "Authorization header required")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				logger.WarnContext(ctx, "Invalid Authorization header format")
				writeError(ctx, w, logger, http.StatusUnauthorized, "Invalid Authorization header format")
				return
			}

			token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
				}
				return secret, nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !token.Valid {
				if err == nil {
					err = errors.New("token invalid")
				}
				logger.WarnContext(ctx, "Token validation failed", "error", err)
				writeError(ctx, w, logger, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			sub, _ := token.Claims.GetSubject()
			next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, operatorContextKey, sub)))
		})
	}
}
