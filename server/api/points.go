package api

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/dekarrin/cmdblock/internal/geom"
	"github.com/dekarrin/cmdblock/server/dao"
	"github.com/dekarrin/cmdblock/server/result"
	"github.com/dekarrin/cmdblock/server/serr"
)

func pointToModel(p dao.Point) PointModel {
	return PointModel{
		URI:      PathPrefix + "/points/" + url.PathEscape(p.Name),
		Name:     p.Name,
		Position: []int{p.At.X, p.At.Y, p.At.Z},
		Created:  p.Created.Format(time.RFC3339),
		Modified: p.Modified.Format(time.RFC3339),
	}
}

// HTTPGetAllPoints returns a HandlerFunc that lists every named point.
func (api API) HTTPGetAllPoints() http.HandlerFunc {
	return api.Endpoint(api.epGetAllPoints)
}

func (api API) epGetAllPoints(req *http.Request) result.Result {
	points, err := api.Backend.GetAllPoints(req.Context())
	if err != nil {
		return result.InternalServerError(err.Error())
	}

	resp := make([]PointModel, len(points))
	for i := range points {
		resp[i] = pointToModel(points[i])
	}

	return result.OK(resp, "got all points")
}

// HTTPGetPoint returns a HandlerFunc that gets one named point. The name is
// taken from the "name" URL parameter.
func (api API) HTTPGetPoint() http.HandlerFunc {
	return api.Endpoint(api.epGetPoint)
}

func (api API) epGetPoint(req *http.Request) result.Result {
	name := requireNameParam(req)

	p, err := api.Backend.GetPoint(req.Context(), name)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError(err.Error())
	}

	return result.OK(pointToModel(p), "got point %q", name)
}

// HTTPPutPoint returns a HandlerFunc that saves a position under the name in
// the "name" URL parameter.
func (api API) HTTPPutPoint() http.HandlerFunc {
	return api.Endpoint(api.epPutPoint)
}

func (api API) epPutPoint(req *http.Request) result.Result {
	name := requireNameParam(req)

	var ptReq PointRequest
	if err := parseJSON(req, &ptReq); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}
	if len(ptReq.Position) != 3 {
		return result.BadRequest("position: must be three integers", "position has %d elements", len(ptReq.Position))
	}
	at := geom.Point3{X: ptReq.Position[0], Y: ptReq.Position[1], Z: ptReq.Position[2]}

	p, err := api.Backend.SetPoint(req.Context(), name, at)
	if err != nil {
		if errors.Is(err, serr.ErrBadArgument) {
			return result.BadRequest(err.Error(), err.Error())
		}
		return result.InternalServerError(err.Error())
	}

	return result.OK(pointToModel(p), "set point %q to %s", name, at)
}

// HTTPDeletePoint returns a HandlerFunc that forgets the point named in the
// "name" URL parameter.
func (api API) HTTPDeletePoint() http.HandlerFunc {
	return api.Endpoint(api.epDeletePoint)
}

func (api API) epDeletePoint(req *http.Request) result.Result {
	name := requireNameParam(req)

	p, err := api.Backend.DeletePoint(req.Context(), name)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError(err.Error())
	}

	return result.NoContent("deleted point %q at %s", name, p.At)
}
