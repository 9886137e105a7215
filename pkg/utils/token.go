package utils

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const SessionCookieName = "session"

// SessionClaims is what the session cookie carries. The token itself is
// only trusted after the session row behind SessionID is found valid.
type SessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// SignSessionToken wraps a session token into an HS256 JWT
func SignSessionToken(secret, sessionToken string, userID int64, expiresAt time.Time) (string, error) {
	claims := SessionClaims{
		SessionID: sessionToken,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseSessionToken verifies the signature and expiry and returns the
// embedded session token and user id.
func ParseSessionToken(secret, tokenString string) (string, int64, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", 0, fmt.Errorf("parse session token: %w", err)
	}
	if !token.Valid || claims.SessionID == "" {
		return "", 0, errors.New("invalid session token")
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("invalid session subject: %w", err)
	}

	return claims.SessionID, userID, nil
}
