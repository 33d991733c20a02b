// Package middle contains middleware for use with the cmdblock server.
package middle

import (
	"context"
	"net/http"
	"time"

	"github.com/dekarrin/cmdblock/server/result"
	"github.com/dekarrin/cmdblock/server/token"
	"github.com/google/uuid"
)

// Middleware is a function that takes a handler and returns a new handler which
// wraps the given one and provides some additional functionality.
type Middleware func(next http.Handler) http.Handler

// AuthKey is a key in the context of a request populated by an AuthHandler.
type AuthKey int64

const (
	AuthLoggedIn AuthKey = iota
	AuthSession
)

// AuthHandler is middleware that will accept a request, extract the token used
// for authentication, and check that it is an operator token issued by this
// server.
//
// Keys are added to the request context before the request is passed to the
// next step in the chain. AuthSession will contain the operator session ID
// the token was issued for, and AuthLoggedIn will return whether the client is
// logged in (only applies for optional logins; for non-optional, not being
// logged in will result in an HTTP error being returned before the request is
// passed to the next handler).
type AuthHandler struct {
	secret        []byte
	required      bool
	unauthedDelay time.Duration
	next          http.Handler
}

func (ah *AuthHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	var loggedIn bool
	session := uuid.Nil

	tok, err := token.Get(req)
	if err == nil {
		session, err = token.Validate(tok, ah.secret)
		loggedIn = err == nil
	}

	// deliberately checking required separately; an optional login that
	// fails is simply not logged in.
	if err != nil && ah.required {
		r := result.Unauthorized("", err.Error())
		time.Sleep(ah.unauthedDelay)
		r.WriteResponse(w)
		return
	}

	ctx := req.Context()
	ctx = context.WithValue(ctx, AuthLoggedIn, loggedIn)
	ctx = context.WithValue(ctx, AuthSession, session)
	req = req.WithContext(ctx)
	ah.next.ServeHTTP(w, req)
}

// RequireAuth gives Middleware that rejects requests without a valid operator
// token with an HTTP-401.
func RequireAuth(secret []byte, unauthDelay time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return &AuthHandler{
			secret:        secret,
			unauthedDelay: unauthDelay,
			required:      true,
			next:          next,
		}
	}
}

// OptionalAuth gives Middleware that records whether a request has a valid
// operator token but lets it through either way.
func OptionalAuth(secret []byte, unauthDelay time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return &AuthHandler{
			secret:        secret,
			unauthedDelay: unauthDelay,
			required:      false,
			next:          next,
		}
	}
}

// Session returns the operator session of a request that went through an
// AuthHandler, and whether there is one.
func Session(req *http.Request) (uuid.UUID, bool) {
	loggedIn, _ := req.Context().Value(AuthLoggedIn).(bool)
	session, _ := req.Context().Value(AuthSession).(uuid.UUID)
	return session, loggedIn
}
