package api

import (
	"net/http"

	"github.com/dekarrin/cmdblock/internal/version"
	"github.com/dekarrin/cmdblock/server/middle"
	"github.com/dekarrin/cmdblock/server/result"
)

// HTTPGetInfo returns a HandlerFunc that retrieves information on the API and
// server.
//
// The handler works with or without a logged-in operator, but it must be
// behind an AuthHandler to tell which one it is.
func (api API) HTTPGetInfo() http.HandlerFunc {
	return api.Endpoint(api.epGetInfo)
}

func (api API) epGetInfo(req *http.Request) result.Result {
	var resp InfoModel
	resp.Version.Server = version.ServerCurrent
	resp.Version.CmdBlock = version.Current

	clientStr := "unauthed client"
	if session, ok := middle.Session(req); ok {
		clientStr = "operator session " + session.String()
	}
	return result.OK(resp, "%s got API info", clientStr)
}
