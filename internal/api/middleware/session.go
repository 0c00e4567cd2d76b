package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/pizzabook/pizza-api/internal/api/handler"
	"github.com/pizzabook/pizza-api/internal/core/domain"
)

// DefaultSessionCookie is the cookie the identity provider stores the session
// token in.
const DefaultSessionCookie = "session-token"

// Session verifies the HS256 session token issued by the identity provider
// and stores its email claim in the echo context. The token is read from an
// "Authorization: Bearer" header first, then from cookieName. Any failure is
// reported as domain.ErrUnauthorized.
func Session(secret, cookieName string) echo.MiddlewareFunc {
	if cookieName == "" {
		cookieName = DefaultSessionCookie
	}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := sessionToken(c.Request(), cookieName)
			if raw == "" {
				return domain.ErrUnauthorized
			}

			claims := jwt.MapClaims{}
			tkn, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
				return []byte(secret), nil
			})
			if err != nil || !tkn.Valid {
				return domain.ErrUnauthorized
			}

			email, _ := claims["email"].(string)
			email = strings.TrimSpace(email)
			if email == "" {
				return domain.ErrUnauthorized
			}

			c.Set(handler.EmailKey, email)
			return next(c)
		}
	}
}

func sessionToken(r *http.Request, cookieName string) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}

	if cookie, err := r.Cookie(cookieName); err == nil {
		return cookie.Value
	}
	return ""
}
