package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/touist-lang/touist/server/dao"
	"github.com/touist-lang/touist/server/middle"
	"github.com/touist-lang/touist/server/result"
	"github.com/touist-lang/touist/server/serr"
)

func acctToModel(acct dao.Account) AccountModel {
	return AccountModel{
		URI:            PathPrefix + "/accounts/" + acct.ID.String(),
		ID:             acct.ID.String(),
		Name:           acct.Name,
		Role:           acct.Role.String(),
		Created:        acct.Created.Format(time.RFC3339),
		LastLogoutTime: acct.LastLogoutTime.Format(time.RFC3339),
	}
}

// HTTPGetAllAccounts returns a HandlerFunc that retrieves all existing
// accounts. Only an admin account can call this endpoint.
//
// The handler has requirements for the request context it receives, and if
// the requirements are not met it may return an HTTP-500. The context must
// contain the logged-in account of the client making the request.
func (api API) HTTPGetAllAccounts() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetAllAccounts)
}

func (api API) epGetAllAccounts(req *http.Request) result.Result {
	acct := req.Context().Value(middle.AuthAccount).(dao.Account)

	if acct.Role != dao.Admin {
		return result.Forbidden("account '%s' (role %s): forbidden", acct.Name, acct.Role)
	}

	accts, err := api.Backend.DB.Accounts().GetAll(req.Context())
	if err != nil {
		return result.InternalServerError(err.Error())
	}

	resp := make([]AccountModel, len(accts))
	for i := range accts {
		resp[i] = acctToModel(accts[i])
	}

	return result.OK(resp, "account '%s' got all accounts", acct.Name)
}

// HTTPCreateAccount returns a HandlerFunc that creates a new service account.
// Only an admin account can directly create new accounts.
//
// The handler has requirements for the request context it receives, and if
// the requirements are not met it may return an HTTP-500. The context must
// contain the logged-in account of the client making the request.
func (api API) HTTPCreateAccount() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epCreateAccount)
}

func (api API) epCreateAccount(req *http.Request) result.Result {
	acct := req.Context().Value(middle.AuthAccount).(dao.Account)

	if acct.Role != dao.Admin {
		return result.Forbidden("account '%s' (role %s) creation of new account: forbidden", acct.Name, acct.Role)
	}

	var createReq AccountCreateRequest
	err := parseJSON(req, &createReq)
	if err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}
	if createReq.Name == "" {
		return result.BadRequest("name: property is empty or missing from request", "empty name")
	}
	if createReq.Password == "" {
		return result.BadRequest("password: property is empty or missing from request", "empty password")
	}

	role := dao.Normal
	if createReq.Role != "" {
		role, err = dao.ParseRole(createReq.Role)
		if err != nil {
			return result.BadRequest("role: "+err.Error(), "role: %s", err.Error())
		}
	}

	newAcct, err := api.Backend.CreateAccount(req.Context(), createReq.Name, createReq.Password, role)
	if err != nil {
		if errors.Is(err, serr.ErrAlreadyExists) {
			return result.Conflict("account with that name already exists", "account '%s' already exists", createReq.Name)
		} else if errors.Is(err, serr.ErrBadArgument) {
			return result.BadRequest(err.Error(), err.Error())
		}
		return result.InternalServerError(err.Error())
	}

	resp := acctToModel(newAcct)
	return result.Created(resp, "account '%s' (%s) created", resp.Name, resp.ID)
}

// HTTPGetAccount returns a HandlerFunc that gets an existing account. All
// accounts may retrieve themselves, but only an admin account can retrieve
// details on other accounts.
//
// The handler has requirements for the request context it receives, and if
// the requirements are not met it may return an HTTP-500. The context must
// contain the ID of the account being operated on and the logged-in account
// of the client making the request.
func (api API) HTTPGetAccount() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetAccount)
}

func (api API) epGetAccount(req *http.Request) result.Result {
	id := requireIDParam(req)
	acct := req.Context().Value(middle.AuthAccount).(dao.Account)

	if id != acct.ID && acct.Role != dao.Admin {
		var otherStr string
		other, err := api.Backend.DB.Accounts().GetByID(req.Context(), id)
		if err != nil {
			otherStr = fmt.Sprintf("%d", id)
		} else {
			otherStr = "'" + other.Name + "'"
		}

		return result.Forbidden("account '%s' (role %s) get account %s: forbidden", acct.Name, acct.Role, otherStr)
	}

	other, err := api.Backend.DB.Accounts().GetByID(req.Context(), id)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError("could not get account: " + err.Error())
	}

	resp := acctToModel(other)

	var otherStr string
	if id != acct.ID {
		otherStr = "account '" + other.Name + "'"
	} else {
		otherStr = "self"
	}

	return result.OK(resp, "account '%s' successfully got %s", acct.Name, otherStr)
}

// HTTPDeleteAccount returns a HandlerFunc that deletes an account entity. All
// accounts may delete themselves, but only an admin account may delete
// another account.
//
// The handler has requirements for the request context it receives, and if
// the requirements are not met it may return an HTTP-500. The context must
// contain the ID of the account being deleted and the logged-in account of
// the client making the request.
func (api API) HTTPDeleteAccount() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epDeleteAccount)
}

func (api API) epDeleteAccount(req *http.Request) result.Result {
	id := requireIDParam(req)
	acct := req.Context().Value(middle.AuthAccount).(dao.Account)

	if id != acct.ID && acct.Role != dao.Admin {
		var otherStr string
		other, err := api.Backend.DB.Accounts().GetByID(req.Context(), id)
		if err != nil {
			otherStr = fmt.Sprintf("%d", id)
		} else {
			otherStr = "'" + other.Name + "'"
		}

		return result.Forbidden("account '%s' (role %s) delete account %s: forbidden", acct.Name, acct.Role, otherStr)
	}

	deleted, err := api.Backend.DB.Accounts().Delete(req.Context(), id)
	if err != nil && !errors.Is(err, dao.ErrNotFound) {
		return result.InternalServerError("could not delete account: " + err.Error())
	}

	var otherStr string
	if id != acct.ID {
		if deleted.Name != "" {
			otherStr = "account '" + deleted.Name + "'"
		} else {
			otherStr = "account " + id.String() + " (no-op)"
		}
	} else {
		otherStr = "self"
	}

	return result.NoContent("account '%s' successfully deleted %s", acct.Name, otherStr)
}
