package auth

import (
	"context"
	"crypto/subtle"
	"strings"
)

const bearerPrefix = "Bearer "

// StaticToken admits callers presenting "Bearer <token>" with the configured shared token.
type StaticToken struct {
	token string
}

func NewStaticToken(token string) *StaticToken {
	return &StaticToken{token: token}
}

func (s *StaticToken) IsAdmin(_ context.Context, authorization string) (bool, error) {
	if s.token == "" {
		return false, nil
	}

	presented, ok := BearerToken(authorization)
	if !ok {
		return false, nil
	}

	return subtle.ConstantTimeCompare([]byte(presented), []byte(s.token)) == 1, nil
}

// BearerToken extracts the token of a "Bearer <token>" header value.
func BearerToken(authorization string) (string, bool) {
	authorization = strings.TrimSpace(authorization)
	if len(authorization) < len(bearerPrefix) || !strings.EqualFold(authorization[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}

	token := strings.TrimSpace(authorization[len(bearerPrefix):])
	if token == "" {
		return "", false
	}

	return token, true
}
