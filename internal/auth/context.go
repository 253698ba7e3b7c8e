package auth

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RoleLandlord = "landlord"
	RoleAdmin    = "admin"
)

const sessionKey = "session"

// SessionContext carries the authenticated caller through the request. The
// server record is the sole truth for everything else; this is identity only.
type SessionContext struct {
	UserID uuid.UUID
	Role   string
	Email  string
}

var ErrNoSession = errors.New("no session in context")

// SessionFrom extracts the session placed by the auth middleware.
func SessionFrom(c *gin.Context) (*SessionContext, error) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil, ErrNoSession
	}
	session, ok := v.(*SessionContext)
	if !ok {
		return nil, ErrNoSession
	}
	return session, nil
}

// SetSession injects a session, used by middleware and tests.
func SetSession(c *gin.Context, session *SessionContext) {
	c.Set(sessionKey, session)
}
