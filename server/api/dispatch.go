package api

import (
	"errors"
	"net/http"

	"github.com/dekarrin/cmdblock/internal/geom"
	"github.com/dekarrin/cmdblock/internal/suggest"
	"github.com/dekarrin/cmdblock/server/result"
	"github.com/dekarrin/cmdblock/server/serr"
)

// HTTPDispatch returns a HandlerFunc that runs a command line against the
// world. A command that fails still gives an HTTP-200 with success set to
// false; only a request that does not describe a command to run is an
// HTTP-400.
func (api API) HTTPDispatch() http.HandlerFunc {
	return api.Endpoint(api.epDispatch)
}

func (api API) epDispatch(req *http.Request) result.Result {
	var dispReq DispatchRequest
	if err := parseJSON(req, &dispReq); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	var anchor *geom.Point3
	if dispReq.Anchor != nil {
		if len(dispReq.Anchor) != 3 {
			return result.BadRequest("anchor: must be three integers", "anchor has %d elements", len(dispReq.Anchor))
		}
		anchor = &geom.Point3{X: dispReq.Anchor[0], Y: dispReq.Anchor[1], Z: dispReq.Anchor[2]}
	}

	res, err := api.Backend.Dispatch(req.Context(), dispReq.Line, dispReq.Agent, anchor)
	if err != nil {
		if errors.Is(err, serr.ErrBadArgument) {
			return result.BadRequest(err.Error(), err.Error())
		}
		return result.InternalServerError(err.Error())
	}

	resp := DispatchResponse{
		Success:  res.Success,
		Messages: make([]MessageModel, len(res.Messages)),
	}
	for i, m := range res.Messages {
		resp.Messages[i] = MessageModel{To: m.To, Title: m.Title, Text: m.Text}
	}

	return result.OK(resp, "dispatched %q (success=%t)", dispReq.Line, res.Success)
}

// HTTPAutocomplete returns a HandlerFunc that gives the suggestion for a
// partially typed command line.
func (api API) HTTPAutocomplete() http.HandlerFunc {
	return api.Endpoint(api.epAutocomplete)
}

func (api API) epAutocomplete(req *http.Request) result.Result {
	var acReq AutocompleteRequest
	if err := parseJSON(req, &acReq); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	s, ok := api.Backend.Autocomplete(acReq.Line)
	if !ok {
		return result.OK(SuggestionModel{Kind: "none", Text: "nothing more is needed"}, "nothing to suggest for %q", acReq.Line)
	}

	return result.OK(suggestionToModel(s), "suggested %s for %q", s.Kind, acReq.Line)
}

func suggestionToModel(s suggest.Suggestion) SuggestionModel {
	m := SuggestionModel{
		Kind:    s.Kind.String(),
		Partial: s.Partial,
		Message: s.Message,
		Options: optionsToModels(s.Options),
		Matches: optionsToModels(s.Matches),
		Text:    suggest.Describe(s),
	}

	switch s.Kind {
	case suggest.KindExpect:
		m.Type = s.Type.String()
	case suggest.KindExpectType:
		m.Type = s.TypeName
	}

	return m
}

func optionsToModels(opts []suggest.Option) []OptionModel {
	if len(opts) == 0 {
		return nil
	}
	models := make([]OptionModel, len(opts))
	for i := range opts {
		models[i] = OptionModel{Value: opts[i].Value, Description: opts[i].Description}
	}
	return models
}

// HTTPGetCommands returns a HandlerFunc that lists every command with its
// usage.
func (api API) HTTPGetCommands() http.HandlerFunc {
	return api.Endpoint(api.epGetCommands)
}

func (api API) epGetCommands(req *http.Request) result.Result {
	usages := api.Backend.Usages()

	resp := make([]CommandModel, 0, usages.Len())
	for _, name := range usages.Names() {
		usage, _ := usages.Get(name)
		resp = append(resp, CommandModel{
			Name:  name,
			Usage: usage,
			Help:  usages.Help(name),
		})
	}

	return result.OK(resp, "got %d commands", len(resp))
}
