// Package token выдаёт bearer-токен для запросов к платёжному API.
//
// Получение и хранение токена происходит снаружи; здесь только проверяется,
// что токен есть и, если это JWT, что его срок ещё не истёк.
package token

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoToken      = errors.New("access token is not set")
	ErrTokenExpired = errors.New("access token expired")
)

// Provider источник токена доступа.
type Provider interface {
	Token(ctx context.Context) (string, error)
}

// Static хранит токен, выданный извне. Токен можно заменить через Set.
type Static struct {
	mu    sync.RWMutex
	token string
	now   func() time.Time
}

// NewStatic создаёт провайдер с исходным токеном (может быть пустым).
func NewStatic(token string) *Static {
	return &Static{token: token, now: time.Now}
}

// Set заменяет токен, например после повторного входа пользователя.
func (s *Static) Set(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

// Token возвращает текущий токен. Токены в формате JWT с истёкшим exp отклоняются,
// непрозрачные токены возвращаются как есть.
func (s *Static) Token(_ context.Context) (string, error) {
	const op = "token.Static.Token"

	s.mu.RLock()
	tok := s.token
	s.mu.RUnlock()

	if tok == "" {
		return "", fmt.Errorf("%s: %w", op, ErrNoToken)
	}
	exp, ok := expiresAt(tok)
	if ok && !s.now().Before(exp) {
		return "", fmt.Errorf("%s: %w", op, ErrTokenExpired)
	}
	return tok, nil
}

// expiresAt читает exp из JWT без проверки подписи: подпись проверяет сервер.
func expiresAt(tok string) (time.Time, bool) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
