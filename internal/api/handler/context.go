package handler

import "github.com/labstack/echo/v4"

// EmailKey is the echo context key under which the session middleware stores
// the authenticated e-mail address.
const EmailKey = "email"

// callerEmail returns the session e-mail, or "" for anonymous requests. The
// service layer rejects an empty caller before touching the store.
func callerEmail(c echo.Context) string {
	email, _ := c.Get(EmailKey).(string)
	return email
}
