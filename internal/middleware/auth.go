// Package middleware provides HTTP middleware for the web app and the API.
//
// Go Pattern: Middleware in Go is a function that wraps an HTTP handler.
// In Gin, middleware is a gin.HandlerFunc that calls c.Next() to continue
// the chain, or c.Abort() to stop processing.
package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"

	"github.com/HackNC/resume-parser/internal/models"
)

const (
	// SessionName is the cookie holding the browser session.
	SessionName = "resume-session"

	sessionUserKey = "user_id"
	userContextKey = "user"
	// userIDContextKey is read by the request logger.
	userIDContextKey = "user_id"

	// LoginPath is where unauthenticated browsers are sent.
	LoginPath = "/login"
)

// UserLookup resolves the user stored in a session or token.
type UserLookup interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
}

// NewSessionStore returns a cookie store signed with secret. Sessions last
// a week; secure marks the cookie HTTPS-only.
func NewSessionStore(secret string, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 3600,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// StartSession records user as logged in on this browser.
func StartSession(c *gin.Context, store sessions.Store, user *models.User) error {
	// A cookie signed with an old key fails to decode; Get still returns a
	// fresh session, which is what we want at login.
	session, _ := store.Get(c.Request, SessionName)
	session.Values[sessionUserKey] = user.ID
	return session.Save(c.Request, c.Writer)
}

// EndSession logs the browser out by expiring the cookie.
func EndSession(c *gin.Context, store sessions.Store) error {
	session, _ := store.Get(c.Request, SessionName)
	delete(session.Values, sessionUserKey)
	session.Options.MaxAge = -1
	return session.Save(c.Request, c.Writer)
}

// sessionUser returns the logged-in user, or nil when there is no valid
// session.
func sessionUser(c *gin.Context, store sessions.Store, users UserLookup) *models.User {
	session, err := store.Get(c.Request, SessionName)
	if err != nil {
		return nil
	}
	id, ok := session.Values[sessionUserKey].(string)
	if !ok || id == "" {
		return nil
	}
	user, err := users.GetUser(c.Request.Context(), id)
	if err != nil {
		return nil
	}
	return user
}

// RequireSession returns middleware for the HTML pages: requests without a
// valid session are redirected to the login form.
func RequireSession(store sessions.Store, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := sessionUser(c, store, users)
		if user == nil {
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort() // Stop the middleware chain, don't call the handler
			return
		}
		setUser(c, user)
		c.Next()
	}
}

func setUser(c *gin.Context, user *models.User) {
	// Go Pattern: Gin uses its own context (different from context.Context).
	// c.Set() stores values that handlers can retrieve with c.Get().
	c.Set(userContextKey, user)
	c.Set(userIDContextKey, user.ID)
}

// GetUser retrieves the authenticated user from the request context.
// Call this in your handlers after an auth middleware has run.
func GetUser(c *gin.Context) *models.User {
	val, exists := c.Get(userContextKey)
	if !exists {
		return nil
	}
	// Go Pattern: Type assertion. The comma-ok idiom won't panic if wrong type.
	user, ok := val.(*models.User)
	if !ok {
		return nil
	}
	return user
}
