package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/touist-lang/touist/server/dao"
	"github.com/touist-lang/touist/server/middle"
	"github.com/touist-lang/touist/server/result"
	"github.com/touist-lang/touist/server/serr"
	"github.com/touist-lang/touist/server/token"
)

// HTTPCreateLogin returns a HandlerFunc that logs in an account with a name
// and password and returns the auth token for that account.
func (api API) HTTPCreateLogin() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epCreateLogin)
}

func (api API) epCreateLogin(req *http.Request) result.Result {
	loginData := LoginRequest{}
	err := parseJSON(req, &loginData)
	if err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	if loginData.Name == "" {
		return result.BadRequest("name: property is empty or missing from request", "empty name")
	}
	if loginData.Password == "" {
		return result.BadRequest("password: property is empty or missing from request", "empty password")
	}

	acct, err := api.Backend.Login(req.Context(), loginData.Name, loginData.Password)
	if err != nil {
		if errors.Is(err, serr.ErrBadCredentials) {
			return result.Unauthorized(serr.ErrBadCredentials.Error(), "account '%s': %s", loginData.Name, err.Error())
		}
		return result.InternalServerError(err.Error())
	}

	tok, err := token.Generate(api.Secret, acct)
	if err != nil {
		return result.InternalServerError("could not generate JWT: " + err.Error())
	}

	resp := LoginResponse{
		Token:     tok,
		AccountID: acct.ID.String(),
	}
	return result.Created(resp, "account '"+acct.Name+"' successfully logged in")
}

// HTTPDeleteLogin returns a HandlerFunc that deletes the active login for an
// account. Only admin accounts can delete logins for accounts other than
// themselves.
//
// The handler has requirements for the request context it receives, and if
// the requirements are not met it may return an HTTP-500. The context must
// contain the ID of the account to log out and the logged-in account of the
// client making the request.
func (api API) HTTPDeleteLogin() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epDeleteLogin)
}

func (api API) epDeleteLogin(req *http.Request) result.Result {
	id := requireIDParam(req)
	acct := req.Context().Value(middle.AuthAccount).(dao.Account)

	if id != acct.ID && acct.Role != dao.Admin {
		var otherAcctStr string
		otherAcct, err := api.Backend.DB.Accounts().GetByID(req.Context(), id)
		if err != nil {
			if !errors.Is(err, dao.ErrNotFound) {
				return result.InternalServerError("retrieve account for perm checking: %s", err.Error())
			}
			otherAcctStr = fmt.Sprintf("%d", id)
		} else {
			otherAcctStr = "'" + otherAcct.Name + "'"
		}

		return result.Forbidden("account '%s' (role %s) logout of account %s: forbidden", acct.Name, acct.Role, otherAcctStr)
	}

	loggedOutAcct, err := api.Backend.Logout(req.Context(), id)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError("could not log out account: " + err.Error())
	}

	var otherStr string
	if id != acct.ID {
		otherStr = "account '" + loggedOutAcct.Name + "'"
	} else {
		otherStr = "self"
	}

	return result.NoContent("account '%s' successfully logged out %s", acct.Name, otherStr)
}
