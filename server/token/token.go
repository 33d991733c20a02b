// Package token issues and checks the bearer tokens that operators use to call
// the mutating endpoints of the cmdblock server.
package token

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Issuer is the issuer of every token.
const Issuer = "cbs"

// Lifetime is how long a token is valid for after it is issued.
const Lifetime = time.Hour

// Get returns the bearer token in the Authorization header of req.
func Get(req *http.Request) (string, error) {
	authHeader := strings.TrimSpace(req.Header.Get("Authorization"))

	if authHeader == "" {
		return "", fmt.Errorf("no authorization header present")
	}

	authParts := strings.SplitN(authHeader, " ", 2)
	if len(authParts) != 2 {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}

	scheme := strings.TrimSpace(strings.ToLower(authParts[0]))
	token := strings.TrimSpace(authParts[1])

	if scheme != "bearer" {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}

	return token, nil
}

// Generate creates a signed token for a new operator session and returns it
// along with the session ID that is its subject.
func Generate(secret []byte) (string, uuid.UUID, error) {
	session := uuid.New()
	claims := &jwt.RegisteredClaims{
		Issuer:    Issuer,
		Subject:   session.String(),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(Lifetime)),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)

	tokStr, err := tok.SignedString(secret)
	if err != nil {
		return "", uuid.Nil, err
	}
	return tokStr, session, nil
}

// Validate checks that tok was signed with secret by this server and has not
// expired, and returns the session ID it was issued for.
func Validate(tok string, secret []byte) (uuid.UUID, error) {
	parsed, err := jwt.Parse(tok, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}), jwt.WithIssuer(Issuer), jwt.WithLeeway(time.Minute))
	if err != nil {
		return uuid.Nil, err
	}

	subj, err := parsed.Claims.GetSubject()
	if err != nil {
		return uuid.Nil, fmt.Errorf("cannot get subject: %w", err)
	}

	session, err := uuid.Parse(subj)
	if err != nil {
		return uuid.Nil, fmt.Errorf("cannot parse subject UUID: %w", err)
	}

	return session, nil
}
