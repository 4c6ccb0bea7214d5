package api

import (
	"net/http"

	"github.com/touist-lang/touist/server/dao"
	"github.com/touist-lang/touist/server/middle"
	"github.com/touist-lang/touist/server/result"
	"github.com/touist-lang/touist/server/token"
)

// HTTPCreateToken returns a HandlerFunc that creates a new token for the
// account the client is logged in as.
//
// The handler has requirements for the request context it receives, and if
// the requirements are not met it may return an HTTP-500. The context must
// contain the logged-in account of the client making the request.
func (api API) HTTPCreateToken() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epCreateToken)
}

func (api API) epCreateToken(req *http.Request) result.Result {
	acct := req.Context().Value(middle.AuthAccount).(dao.Account)

	tok, err := token.Generate(api.Secret, acct)
	if err != nil {
		return result.InternalServerError("could not generate JWT: " + err.Error())
	}

	resp := LoginResponse{
		Token:     tok,
		AccountID: acct.ID.String(),
	}
	return result.Created(resp, "account '"+acct.Name+"' successfully created new token")
}
