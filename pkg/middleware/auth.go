package middleware

import (
	"context"
	"net/http"
	"strings"

	"cinema-pegasus/internal/data/entity"
	"cinema-pegasus/pkg/utils"

	"go.uber.org/zap"
)

// SessionFinder looks up a session that is neither expired nor revoked
type SessionFinder interface {
	FindValidSession(ctx context.Context, token string) (*entity.Session, error)
}

// AuthSession rejects requests without a valid session. The session JWT is
// read from the session cookie or from an Authorization: Bearer header.
func AuthSession(sessions SessionFinder, secret string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			candidates := extractTokens(r)
			if len(candidates) == 0 {
				utils.ResponseUnauthorized(w, "Missing authorization token")
				return
			}

			ctx, status := authenticateAny(r.Context(), sessions, secret, candidates, logger)
			switch status {
			case http.StatusOK:
				next.ServeHTTP(w, r.WithContext(ctx))
			case http.StatusInternalServerError:
				utils.ResponseInternalError(w, "Internal server error")
			default:
				utils.ResponseUnauthorized(w, "Invalid or expired session")
			}
		})
	}
}

// OptionalAuth attaches the user to the context when a valid session is
// present and lets every request through.
func OptionalAuth(sessions SessionFinder, secret string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			candidates := extractTokens(r)
			if len(candidates) == 0 {
				next.ServeHTTP(w, r)
				return
			}

			ctx, status := authenticateAny(r.Context(), sessions, secret, candidates, logger)
			if status == http.StatusOK {
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// extractTokens returns the bearer token, then the cookie token. A stale
// cookie must not hide a valid header.
func extractTokens(r *http.Request) []string {
	var tokens []string

	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") && strings.TrimSpace(parts[1]) != "" {
			tokens = append(tokens, strings.TrimSpace(parts[1]))
		}
	}

	if cookie, err := r.Cookie(utils.SessionCookieName); err == nil && cookie.Value != "" {
		tokens = append(tokens, cookie.Value)
	}
	return tokens
}

// authenticateAny accepts the first candidate that maps to a live session.
// A store failure wins over a plain rejection so it surfaces as a 500.
func authenticateAny(ctx context.Context, sessions SessionFinder, secret string, candidates []string, logger *zap.Logger) (context.Context, int) {
	status := http.StatusUnauthorized
	for _, raw := range candidates {
		authed, st := authenticate(ctx, sessions, secret, raw, logger)
		if st == http.StatusOK {
			return authed, st
		}
		if st == http.StatusInternalServerError {
			status = st
		}
	}
	return ctx, status
}

func authenticate(ctx context.Context, sessions SessionFinder, secret, raw string, logger *zap.Logger) (context.Context, int) {
	token, userID, err := utils.ParseSessionToken(secret, raw)
	if err != nil {
		logger.Debug("Rejected session token", zap.Error(err))
		return ctx, http.StatusUnauthorized
	}

	session, err := sessions.FindValidSession(ctx, token)
	if err != nil {
		logger.Error("Failed to validate session", zap.Error(err))
		return ctx, http.StatusInternalServerError
	}

	if session == nil || session.UserID != userID {
		logger.Warn("Invalid or expired session", zap.Int64("user_id", userID))
		return ctx, http.StatusUnauthorized
	}

	return utils.SetUserContext(ctx, session.UserID, token), http.StatusOK
}
