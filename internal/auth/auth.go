// Package auth handles accounts and sessions for the multi-user backend.
// Passwords are stored as bcrypt hashes, sessions are JWTs delivered in an
// http-only cookie.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"gastos/internal/log"
	"gastos/internal/store"
)

var (
	// ErrInvalidCredentials covers both unknown email and wrong password,
	// deliberately indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrInvalidEmail       = errors.New("auth: invalid email")
	ErrWeakPassword       = errors.New("auth: password too short")
)

const (
	// SessionCookie is the cookie carrying the session token.
	SessionCookie = "gastos_session"

	minPasswordLen = 8
)

type Service struct {
	users  store.UserStore
	tokens *TokenService
	logger *log.Logger
}

func NewService(users store.UserStore, tokens *TokenService, logger *log.Logger) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
		logger: logger.WithComponent(log.ComponentAuth),
	}
}

// SignUp registers an account and returns a fresh session token.
func (s *Service) SignUp(ctx context.Context, email, password string) (store.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !validEmail(email) {
		return store.User{}, "", ErrInvalidEmail
	}
	if len(password) < minPasswordLen {
		return store.User{}, "", ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return store.User{}, "", fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.CreateUser(ctx, email, string(hash))
	if err != nil {
		return store.User{}, "", err
	}

	token, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		return store.User{}, "", fmt.Errorf("sign token: %w", err)
	}
	s.logger.InfoContext(ctx, "account created", log.FieldUserID, user.ID)
	return user, token, nil
}

// SignIn checks the password and returns a session token.
func (s *Service) SignIn(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.UserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	s.logger.InfoContext(ctx, "signed in", log.FieldUserID, user.ID)
	return token, nil
}

// NewSessionCookie wraps a token for the browser. Expiry mirrors the token's.
func (s *Service) NewSessionCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(s.tokens.ExpiresIn()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// ExpiredSessionCookie clears the session on sign-out.
func ExpiredSessionCookie() *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

type contextKey string

const userIDKey contextKey = "auth.user_id"

// UserID returns the session's user id, empty when the request is
// unauthenticated or auth is disabled.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// RequireSession resolves the session cookie to a user id and stores it in
// the request context. Requests without a valid session are redirected to
// the login page.
func (s *Service) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookie)
		if err != nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		userID, err := s.tokens.ParseToken(cookie.Value)
		if err != nil {
			s.logger.Debug("rejected session token", log.FieldError, err.Error())
			http.SetCookie(w, ExpiredSessionCookie())
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func validEmail(email string) bool {
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return false
	}
	return strings.ContainsRune(email[at+1:], '.')
}
