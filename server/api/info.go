package api

import (
	"net/http"

	"github.com/touist-lang/touist/internal/version"
	"github.com/touist-lang/touist/server/dao"
	"github.com/touist-lang/touist/server/middle"
	"github.com/touist-lang/touist/server/result"
)

// HTTPGetInfo returns a HandlerFunc that retrieves information on the API and
// server.
//
// The handler has requirements for the request context it receives, and if
// the requirements are not met it may return an HTTP-500. The context must
// contain a value denoting whether the client making the request is
// logged-in.
func (api API) HTTPGetInfo() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetInfo)
}

func (api API) epGetInfo(req *http.Request) result.Result {
	loggedIn := req.Context().Value(middle.AuthLoggedIn).(bool)

	var resp InfoModel
	resp.Version.Server = version.ServerCurrent
	resp.Version.Touist = version.Current

	callerStr := "unauthed client"
	if loggedIn {
		acct := req.Context().Value(middle.AuthAccount).(dao.Account)
		callerStr = "account '" + acct.Name + "'"
	}
	return result.OK(resp, "%s got API info", callerStr)
}
