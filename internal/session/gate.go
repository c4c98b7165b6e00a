// Package session models the authentication signal that gates the task
// tracking surface. The tracker never produces it; it only reacts to it.
package session

import (
	"errors"
	"fmt"
	"strings"
)

// Status is the tri-state signal supplied by the identity provider.
type Status string

const (
	StatusLoading         Status = "loading"
	StatusUnauthenticated Status = "unauthenticated"
	StatusAuthenticated   Status = "authenticated"
)

var (
	// ErrLoading means the identity is not resolved yet; defer task operations.
	ErrLoading = errors.New("session is still loading")
	// ErrUnauthenticated means the tracking surface must not be shown.
	ErrUnauthenticated = errors.New("session is not authenticated")
)

// Session is the value injected into every request that reaches the
// tracking surface.
type Session struct {
	Status Status `json:"status"`
	// ID identifies the session's task store. Empty unless authenticated.
	ID     string `json:"-"`
	UserID string `json:"-"`
	// DisplayName is only used for greetings. It may be empty.
	DisplayName string `json:"displayName,omitempty"`
}

// Loading returns a session whose identity is still being resolved.
func Loading() Session {
	return Session{Status: StatusLoading}
}

// Unauthenticated returns a session with no identity.
func Unauthenticated() Session {
	return Session{Status: StatusUnauthenticated}
}

// Authenticated returns an active session.
func Authenticated(id, userID, displayName string) Session {
	return Session{
		Status:      StatusAuthenticated,
		ID:          id,
		UserID:      userID,
		DisplayName: displayName,
	}
}

// Require returns nil only for an authenticated session.
func (s Session) Require() error {
	switch s.Status {
	case StatusAuthenticated:
		return nil
	case StatusLoading:
		return ErrLoading
	default:
		return ErrUnauthenticated
	}
}

// Greeting welcomes the user by first name, falling back to "there".
func (s Session) Greeting() string {
	return fmt.Sprintf("Welcome back, %s!", firstName(s.DisplayName))
}

func firstName(displayName string) string {
	fields := strings.Fields(displayName)
	if len(fields) == 0 || strings.Contains(fields[0], "@") {
		return "there"
	}
	return fields[0]
}
