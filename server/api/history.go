package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dekarrin/cmdblock/server/result"
	"github.com/dekarrin/cmdblock/server/serr"
)

// DefaultHistoryLimit is how many entries are returned when a history request
// does not give a limit.
const DefaultHistoryLimit = 50

// HTTPGetHistory returns a HandlerFunc that lists the most recently run
// command lines, newest first. The "limit" query parameter caps how many are
// returned.
func (api API) HTTPGetHistory() http.HandlerFunc {
	return api.Endpoint(api.epGetHistory)
}

func (api API) epGetHistory(req *http.Request) result.Result {
	limit := DefaultHistoryLimit
	if limStr := req.URL.Query().Get("limit"); limStr != "" {
		var err error
		limit, err = strconv.Atoi(limStr)
		if err != nil {
			return result.BadRequest("limit: must be an integer", "bad limit %q", limStr)
		}
	}

	entries, err := api.Backend.History(req.Context(), limit)
	if err != nil {
		if errors.Is(err, serr.ErrBadArgument) {
			return result.BadRequest(err.Error(), err.Error())
		}
		return result.InternalServerError(err.Error())
	}

	resp := make([]HistoryEntryModel, len(entries))
	for i, e := range entries {
		resp[i] = HistoryEntryModel{
			ID:      e.ID.String(),
			Line:    e.Line,
			Origin:  e.Origin,
			Success: e.Success,
			Message: e.Message,
			Time:    e.Created.Format(time.RFC3339),
		}
	}

	return result.OK(resp, "got %d history entries", len(resp))
}
