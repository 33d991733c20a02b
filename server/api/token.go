package api

import (
	"errors"
	"net/http"

	"github.com/dekarrin/cmdblock/server/result"
	"github.com/dekarrin/cmdblock/server/serr"
	"github.com/dekarrin/cmdblock/server/token"
)

// HTTPCreateToken returns a HandlerFunc that exchanges the operator secret for
// a new token.
func (api API) HTTPCreateToken() http.HandlerFunc {
	return api.Endpoint(api.epCreateToken)
}

func (api API) epCreateToken(req *http.Request) result.Result {
	var tokReq TokenRequest
	if err := parseJSON(req, &tokReq); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	if err := api.Backend.Login(tokReq.Secret); err != nil {
		if errors.Is(err, serr.ErrBadCredentials) {
			return result.Unauthorized(serr.ErrBadCredentials.Error(), "operator login failed")
		}
		return result.InternalServerError(err.Error())
	}

	tok, session, err := token.Generate(api.Secret)
	if err != nil {
		return result.InternalServerError("could not generate JWT: " + err.Error())
	}

	resp := TokenResponse{
		Token:   tok,
		Session: session.String(),
	}
	return result.Created(resp, "operator session %s created new token", session)
}
