package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"cinema-pegasus/internal/data/entity"
	"cinema-pegasus/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const secret = "middleware-secret"

type fakeSessions struct {
	sessions map[string]*entity.Session
	err      error
}

func (f *fakeSessions) FindValidSession(ctx context.Context, token string) (*entity.Session, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.sessions[token], nil
}

func signedFor(t *testing.T, sessionToken string, userID int64) string {
	t.Helper()
	signed, err := utils.SignSessionToken(secret, sessionToken, userID, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("SignSessionToken: %v", err)
	}
	return signed
}

// echoUser reports the authenticated user id, or 0, in a header
func echoUser() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := utils.GetUserIDFromContext(r.Context()); ok {
			w.Header().Set("X-User", strconv.FormatInt(id, 10))
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthSession(t *testing.T) {
	token := uuid.NewString()
	sessions := &fakeSessions{sessions: map[string]*entity.Session{
		token: {Token: uuid.MustParse(token), UserID: 7},
	}}

	tests := []struct {
		name     string
		setup    func(r *http.Request)
		sessions SessionFinder
		want     int
	}{
		{
			name:     "cookie",
			setup:    func(r *http.Request) { r.AddCookie(&http.Cookie{Name: utils.SessionCookieName, Value: signedFor(t, token, 7)}) },
			sessions: sessions,
			want:     http.StatusNoContent,
		},
		{
			name:     "bearer header",
			setup:    func(r *http.Request) { r.Header.Set("Authorization", "bearer "+signedFor(t, token, 7)) },
			sessions: sessions,
			want:     http.StatusNoContent,
		},
		{
			name:     "missing token",
			setup:    func(r *http.Request) {},
			sessions: sessions,
			want:     http.StatusUnauthorized,
		},
		{
			name:     "wrong scheme",
			setup:    func(r *http.Request) { r.Header.Set("Authorization", "Basic abc") },
			sessions: sessions,
			want:     http.StatusUnauthorized,
		},
		{
			name:     "bad signature",
			setup:    func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+signedFor(t, token, 7)+"x") },
			sessions: sessions,
			want:     http.StatusUnauthorized,
		},
		{
			name:     "revoked session",
			setup:    func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+signedFor(t, uuid.NewString(), 7)) },
			sessions: sessions,
			want:     http.StatusUnauthorized,
		},
		{
			name:     "session of another user",
			setup:    func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+signedFor(t, token, 8)) },
			sessions: sessions,
			want:     http.StatusUnauthorized,
		},
		{
			name: "stale cookie with valid bearer",
			setup: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: utils.SessionCookieName, Value: signedFor(t, uuid.NewString(), 7)})
				r.Header.Set("Authorization", "Bearer "+signedFor(t, token, 7))
			},
			sessions: sessions,
			want:     http.StatusNoContent,
		},
		{
			name: "valid cookie with junk bearer",
			setup: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: utils.SessionCookieName, Value: signedFor(t, token, 7)})
				r.Header.Set("Authorization", "Bearer junk")
			},
			sessions: sessions,
			want:     http.StatusNoContent,
		},
		{
			name: "stale cookie and stale bearer",
			setup: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: utils.SessionCookieName, Value: signedFor(t, uuid.NewString(), 7)})
				r.Header.Set("Authorization", "Bearer "+signedFor(t, uuid.NewString(), 7))
			},
			sessions: sessions,
			want:     http.StatusUnauthorized,
		},
		{
			name:     "store failure",
			setup:    func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+signedFor(t, token, 7)) },
			sessions: &fakeSessions{err: errors.New("db down")},
			want:     http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := AuthSession(tt.sessions, secret, zap.NewNop())(echoUser())
			req := httptest.NewRequest(http.MethodGet, "/api/ordini", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
			if tt.want == http.StatusNoContent && rec.Header().Get("X-User") == "" {
				t.Errorf("user not attached to context")
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	token := uuid.NewString()
	sessions := &fakeSessions{sessions: map[string]*entity.Session{
		token: {Token: uuid.MustParse(token), UserID: 3},
	}}
	handler := OptionalAuth(sessions, secret, zap.NewNop())(echoUser())

	anon := httptest.NewRecorder()
	handler.ServeHTTP(anon, httptest.NewRequest(http.MethodGet, "/api/auth/status", nil))
	if anon.Code != http.StatusNoContent || anon.Header().Get("X-User") != "" {
		t.Errorf("anonymous: status %d, user %q", anon.Code, anon.Header().Get("X-User"))
	}

	invalid := httptest.NewRequest(http.MethodGet, "/api/auth/status", nil)
	invalid.Header.Set("Authorization", "Bearer junk")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, invalid)
	if rec.Code != http.StatusNoContent || rec.Header().Get("X-User") != "" {
		t.Errorf("invalid token: status %d, user %q", rec.Code, rec.Header().Get("X-User"))
	}

	valid := httptest.NewRequest(http.MethodGet, "/api/auth/status", nil)
	valid.AddCookie(&http.Cookie{Name: utils.SessionCookieName, Value: signedFor(t, token, 3)})
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, valid)
	if rec.Header().Get("X-User") != "3" {
		t.Errorf("user = %q, want 3", rec.Header().Get("X-User"))
	}
}
