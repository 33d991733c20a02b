// Package api provides HTTP API endpoints for the cmdblock server.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/dekarrin/cmdblock/internal/logging"
	"github.com/dekarrin/cmdblock/server/cbs"
	"github.com/dekarrin/cmdblock/server/result"
	"github.com/dekarrin/cmdblock/server/serr"
	"github.com/go-chi/chi/v5"
)

const (
	// PathPrefix is the prefix of all paths in the API. Routers should mount
	// a sub-router that routes all requests to the API at this path.
	PathPrefix = "/api/v1"
)

// requireNameParam gets the name of the main entity being referenced in the
// URI and returns it. It panics if the key is not there.
func requireNameParam(r *http.Request) string {
	name := chi.URLParam(r, "name")
	if name == "" {
		panic("name parameter does not exist")
	}
	return name
}

// API holds parameters for endpoints needed to run and a service layer that
// will perform most of the actual logic. To use API, create one and then
// assign the result of its HTTP* methods as handlers to a router or some other
// kind of server mux.
//
// This is exclusively an API for serving external requests. For direct
// programmatic access into the backend of a cmdblock server via Go code, see
// [cbs.Service].
type API struct {
	// Backend is the service that the API calls to perform the requested
	// actions.
	Backend *cbs.Service

	// UnauthDelay is the amount of time that a request will pause before
	// responding with an HTTP-401 or HTTP-500 to deprioritize such requests
	// from processing and I/O.
	UnauthDelay time.Duration

	// Secret is the secret used to sign JWT tokens.
	Secret []byte

	// Log receives a line for every response. If nil, nothing is logged.
	Log logging.Logger
}

// v must be a pointer to a type. Will return error such that
// errors.Is(err, serr.ErrBodyUnmarshal) returns true if it is problem decoding
// the JSON itself.
func parseJSON(req *http.Request, v interface{}) error {
	contentType := req.Header.Get("Content-Type")

	if strings.ToLower(contentType) != "application/json" {
		return fmt.Errorf("request content-type is not application/json")
	}

	bodyData, err := io.ReadAll(req.Body)
	if err != nil {
		return fmt.Errorf("could not read request body: %w", err)
	}
	defer func() {
		req.Body.Close()
		req.Body = io.NopCloser(bytes.NewBuffer(bodyData))
	}()

	err = json.Unmarshal(bodyData, v)
	if err != nil {
		return serr.New("malformed JSON in request", err, serr.ErrBodyUnmarshal)
	}

	return nil
}

// EndpointFunc handles a request and gives the Result to respond with.
type EndpointFunc func(req *http.Request) result.Result

// Endpoint turns ep into a handler that logs and writes its result.
func (api API) Endpoint(ep EndpointFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		defer api.panicTo500(w, req)
		r := ep(req)

		// if this hasn't been properly created, output error directly and do not
		// try to read properties
		if r.Status == 0 {
			api.logHttpResponse(true, req, http.StatusInternalServerError, "endpoint result was never populated")
			http.Error(w, "An internal server error occurred", http.StatusInternalServerError)
			return
		}

		// pre-call PrepareMarshaledResponse bc if it fails in call to
		// WriteResponse, it will panic.
		if err := r.PrepareMarshaledResponse(); err != nil {
			r = result.InternalServerError("could not marshal JSON response: " + err.Error())
		}

		api.logHttpResponse(r.IsErr, req, r.Status, r.InternalMsg)

		if r.Status == http.StatusUnauthorized || r.Status == http.StatusInternalServerError {
			// either the client is improperly logging in or something broke;
			// both force the wait time before responding.
			time.Sleep(api.UnauthDelay)
		}

		r.WriteResponse(w)
	}
}

// WriteResult logs and writes a result produced outside of an endpoint, such
// as by the router itself.
func (api API) WriteResult(w http.ResponseWriter, req *http.Request, r result.Result) {
	api.logHttpResponse(r.IsErr, req, r.Status, r.InternalMsg)
	r.WriteResponse(w)
}

func (api API) panicTo500(w http.ResponseWriter, req *http.Request) {
	if panicErr := recover(); panicErr != nil {
		r := result.TextErr(
			http.StatusInternalServerError,
			"An internal server error occurred",
			fmt.Sprintf("panic: %v\nSTACK TRACE: %s", panicErr, string(debug.Stack())),
		)
		api.logHttpResponse(true, req, r.Status, r.InternalMsg)
		r.WriteResponse(w)
	}
}

func (api API) logHttpResponse(isErr bool, req *http.Request, respStatus int, msg string) {
	if api.Log == nil {
		return
	}

	// we don't really care about the ephemeral port from the client end
	remoteAddrParts := strings.SplitN(req.RemoteAddr, ":", 2)
	remoteIP := remoteAddrParts[0]

	line := fmt.Sprintf("%s %s %s: HTTP-%d %s", remoteIP, req.Method, req.URL.Path, respStatus, msg)
	if isErr {
		api.Log.Error(line)
	} else {
		api.Log.Info(line)
	}
}
