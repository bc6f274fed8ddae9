package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var sessionKey []byte

var (
	ErrInvalidToken = errors.New("failed to verify token")
	ErrTokenExpired = errors.New("please refresh session token")
)

// InitSessions installs the HMAC key used to sign and verify session
// tokens.
func InitSessions(key string) {
	if key == "" {
		panic("session encryption key is empty")
	}
	sessionKey = []byte(key)
}

// GenerateSessionToken mints a session token for a player. Production
// tokens come from the game platform; this one feeds the token CLI and
// tests, so it carries the same claim set.
func GenerateSessionToken(userID, username string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"token_id":   uuid.NewString(),
		"user_id":    userID,
		"username":   username,
		"vars":       map[string]string{},
		"expires_at": now.Add(ttl).Unix(),
		"issued_at":  now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(sessionKey)
}

// VerifySessionToken checks signature and expiry and returns the user
// id the token carries.
func VerifySessionToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return sessionKey, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}

	expiresAt, ok := claims["expires_at"].(float64)
	if !ok {
		return "", ErrInvalidToken
	}
	if time.Now().Unix() > int64(expiresAt) {
		return "", ErrTokenExpired
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", ErrInvalidToken
	}

	return userID, nil
}
