package server

import (
	"net/http"
	"strings"

	"github.com/dekarrin/cmdblock/server/api"
	"github.com/dekarrin/cmdblock/server/middle"
	"github.com/dekarrin/cmdblock/server/result"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

var (
	paramTypePats = map[string]string{
		"name": `[^\s"\\@]+`,
	}
)

// p is a quick parameter in a URI, made very small to ease readability in route
// listings.
func p(nameType string) string {
	var name string
	var pat string

	parts := strings.SplitN(nameType, ":", 2)
	name = parts[0]
	if len(parts) == 2 {
		// we have a type, if it's a name in the paramTypePats map use that else
		// treat it as a normal pattern
		pat = parts[1]

		if translatedPat, ok := paramTypePats[parts[1]]; ok {
			pat = translatedPat
		}
	}

	if pat == "" {
		return "{" + name + "}"
	}
	return "{" + name + ":" + pat + "}"
}

// newRouter creates the root router. Browsers on allowedOrigins may call the
// API cross-origin; if it is empty, no CORS headers are sent.
func newRouter(a api.API, allowedOrigins []string) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	if len(allowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: allowedOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
			MaxAge:         300,
		}))
	}

	r.Mount(api.PathPrefix, newAPIRouter(a))

	return r
}

func newAPIRouter(a api.API) chi.Router {
	r := chi.NewRouter()

	r.Mount("/dispatch", newDispatchRouter(a))
	r.Mount("/autocomplete", newAutocompleteRouter(a))
	r.Mount("/commands", newCommandsRouter(a))
	r.Mount("/history", newHistoryRouter(a))
	r.Mount("/points", newPointsRouter(a))
	r.Mount("/tokens", newTokensRouter(a))
	r.Mount("/info", newInfoRouter(a))
	r.HandleFunc("/info/", RedirectNoTrailingSlash)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		a.WriteResult(w, req, result.NotFound())
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		a.WriteResult(w, req, result.MethodNotAllowed(req))
	})

	return r
}

func newDispatchRouter(a api.API) chi.Router {
	reqAuth := middle.RequireAuth(a.Secret, a.UnauthDelay)

	r := chi.NewRouter()

	r.With(reqAuth).Post("/", a.HTTPDispatch())

	return r
}

func newAutocompleteRouter(a api.API) chi.Router {
	r := chi.NewRouter()

	r.Post("/", a.HTTPAutocomplete())

	return r
}

func newCommandsRouter(a api.API) chi.Router {
	r := chi.NewRouter()

	r.Get("/", a.HTTPGetCommands())

	return r
}

func newHistoryRouter(a api.API) chi.Router {
	reqAuth := middle.RequireAuth(a.Secret, a.UnauthDelay)

	r := chi.NewRouter()

	r.With(reqAuth).Get("/", a.HTTPGetHistory())

	return r
}

func newPointsRouter(a api.API) chi.Router {
	reqAuth := middle.RequireAuth(a.Secret, a.UnauthDelay)

	r := chi.NewRouter()

	r.Get("/", a.HTTPGetAllPoints())

	r.Route("/"+p("name:name"), func(r chi.Router) {
		r.Get("/", a.HTTPGetPoint())
		r.With(reqAuth).Put("/", a.HTTPPutPoint())
		r.With(reqAuth).Delete("/", a.HTTPDeletePoint())
	})

	return r
}

func newTokensRouter(a api.API) chi.Router {
	r := chi.NewRouter()

	r.Post("/", a.HTTPCreateToken())

	return r
}

func newInfoRouter(a api.API) chi.Router {
	optAuth := middle.OptionalAuth(a.Secret, a.UnauthDelay)

	r := chi.NewRouter()

	r.With(optAuth).Get("/", a.HTTPGetInfo())

	return r
}

// RedirectNoTrailingSlash is an http.HandlerFunc that redirects to the same URL as the
// request but with no trailing slash.
func RedirectNoTrailingSlash(w http.ResponseWriter, req *http.Request) {
	redirPath := strings.TrimRight(req.URL.Path, "/")
	result.Redirection(redirPath).WriteResponse(w)
}
