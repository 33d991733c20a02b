package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/dekarrin/cmdblock/internal/version"
	"github.com/dekarrin/cmdblock/server/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testScenario = `
format = "CBW"
type = "DATA"

[[template]]
id = "goblin"

[[agent]]
name = "Alice"
player = true
position = [0.0, 64.0, 0.0]

[[agent]]
name = "Grub"
template = "goblin"
position = [3.0, 64.0, 0.0]

[[point]]
name = "gate"
position = [0, 64, 5]
`

func newTestServer(t *testing.T) *Server {
	scenPath := filepath.Join(t.TempDir(), "keep.cbw")
	require.NoError(t, os.WriteFile(scenPath, []byte(testScenario), 0o644))

	cfg := Config{
		OperatorSecret:    []byte("operator"),
		ScenarioPath:      scenPath,
		UnauthDelayMillis: -1,
	}.FillDefaults()

	srv, err := New(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		srv.db.Close()
	})
	return srv
}

// do sends a request to h and returns the response. If body is not nil it is
// sent as JSON.
func do(t *testing.T, h http.Handler, method, path, tok string, body interface{}) *httptest.ResponseRecorder {
	var reqBody bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&reqBody).Encode(body))
	}

	req := httptest.NewRequest(method, path, &reqBody)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

func login(t *testing.T, h http.Handler) string {
	w := do(t, h, http.MethodPost, "/api/v1/tokens", "", api.TokenRequest{Secret: "operator"})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp api.TokenResponse
	decode(t, w, &resp)
	return resp.Token
}

func Test_New_badConfig(t *testing.T) {
	assert := assert.New(t)

	_, err := New(Config{}.FillDefaults(), nil)

	assert.Error(err)
}

func Test_Server_tokens(t *testing.T) {
	testCases := []struct {
		name         string
		body         interface{}
		expectStatus int
	}{
		{name: "correct secret", body: api.TokenRequest{Secret: "operator"}, expectStatus: http.StatusCreated},
		{name: "wrong secret", body: api.TokenRequest{Secret: "guess"}, expectStatus: http.StatusUnauthorized},
		{name: "no body", expectStatus: http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			h := newTestServer(t).Handler()

			w := do(t, h, http.MethodPost, "/api/v1/tokens", "", tc.body)

			assert.Equal(tc.expectStatus, w.Code)
			if tc.expectStatus == http.StatusCreated {
				var resp api.TokenResponse
				decode(t, w, &resp)
				assert.NotEmpty(resp.Token)
				assert.NotEmpty(resp.Session)
			}
		})
	}
}

func Test_Server_info(t *testing.T) {
	assert := assert.New(t)
	h := newTestServer(t).Handler()

	w := do(t, h, http.MethodGet, "/api/v1/info", "", nil)

	assert.Equal(http.StatusOK, w.Code)
	var resp api.InfoModel
	decode(t, w, &resp)
	assert.Equal(version.ServerCurrent, resp.Version.Server)
	assert.Equal(version.Current, resp.Version.CmdBlock)
}

func Test_Server_dispatch(t *testing.T) {
	testCases := []struct {
		name         string
		body         interface{}
		expectStatus int
		expect       api.DispatchResponse
	}{
		{
			name:         "message to all players",
			body:         api.DispatchRequest{Line: `msg @a "hello there"`},
			expectStatus: http.StatusOK,
			expect: api.DispatchResponse{
				Success:  true,
				Messages: []api.MessageModel{{To: "Alice", Text: "hello there"}},
			},
		},
		{
			name:         "as agent",
			body:         api.DispatchRequest{Line: "time set 0.5", Agent: "Alice"},
			expectStatus: http.StatusOK,
			expect:       api.DispatchResponse{Success: true, Messages: []api.MessageModel{}},
		},
		{
			name:         "failed command",
			body:         api.DispatchRequest{Line: "summon dragon 0 0 0"},
			expectStatus: http.StatusOK,
			expect: api.DispatchResponse{
				Messages: []api.MessageModel{{Text: "summon: dragon is not a creature"}},
			},
		},
		{
			name:         "anchor of wrong size",
			body:         api.DispatchRequest{Line: "help", Anchor: []int{1, 2}},
			expectStatus: http.StatusBadRequest,
		},
		{
			name:         "unknown agent",
			body:         api.DispatchRequest{Line: "help", Agent: "Nobody"},
			expectStatus: http.StatusBadRequest,
		},
		{
			name:         "blank line",
			body:         api.DispatchRequest{Line: ""},
			expectStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			h := newTestServer(t).Handler()
			tok := login(t, h)

			w := do(t, h, http.MethodPost, "/api/v1/dispatch", tok, tc.body)

			if !assert.Equal(tc.expectStatus, w.Code, w.Body.String()) {
				return
			}
			if tc.expectStatus != http.StatusOK {
				return
			}
			var actual api.DispatchResponse
			decode(t, w, &actual)
			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_Server_dispatch_requiresAuth(t *testing.T) {
	assert := assert.New(t)
	h := newTestServer(t).Handler()

	w := do(t, h, http.MethodPost, "/api/v1/dispatch", "", api.DispatchRequest{Line: "help"})

	assert.Equal(http.StatusUnauthorized, w.Code)
	assert.Contains(w.Header().Get("WWW-Authenticate"), "Bearer")
}

func Test_Server_autocomplete(t *testing.T) {
	testCases := []struct {
		name   string
		line   string
		expect api.SuggestionModel
	}{
		{
			name: "subcommand",
			line: "time ",
			expect: api.SuggestionModel{
				Kind:    "choose",
				Options: []api.OptionModel{{Value: "add"}, {Value: "set"}},
				Text:    "expecting add or set",
			},
		},
		{
			name: "typed value",
			line: "time set ",
			expect: api.SuggestionModel{
				Kind: "expect",
				Type: "float",
				Text: "expecting a float",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			h := newTestServer(t).Handler()

			w := do(t, h, http.MethodPost, "/api/v1/autocomplete", "", api.AutocompleteRequest{Line: tc.line})

			if !assert.Equal(http.StatusOK, w.Code) {
				return
			}
			var actual api.SuggestionModel
			decode(t, w, &actual)
			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_Server_commands(t *testing.T) {
	assert := assert.New(t)
	h := newTestServer(t).Handler()

	w := do(t, h, http.MethodGet, "/api/v1/commands", "", nil)

	if !assert.Equal(http.StatusOK, w.Code) {
		return
	}
	var actual []api.CommandModel
	decode(t, w, &actual)

	names := make([]string, len(actual))
	for i := range actual {
		names[i] = actual[i].Name
		assert.NotEmpty(actual[i].Usage)
	}
	assert.Contains(names, "msg")
	assert.Contains(names, "trigger")
}

func Test_Server_points(t *testing.T) {
	assert := assert.New(t)
	h := newTestServer(t).Handler()
	tok := login(t, h)

	w := do(t, h, http.MethodPut, "/api/v1/points/forge", "", api.PointRequest{Position: []int{1, 2, 3}})
	assert.Equal(http.StatusUnauthorized, w.Code)

	w = do(t, h, http.MethodPut, "/api/v1/points/forge", tok, api.PointRequest{Position: []int{1, 2}})
	assert.Equal(http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPut, "/api/v1/points/forge", tok, api.PointRequest{Position: []int{1, 2, 3}})
	if assert.Equal(http.StatusOK, w.Code) {
		var created api.PointModel
		decode(t, w, &created)
		assert.Equal("forge", created.Name)
		assert.Equal([]int{1, 2, 3}, created.Position)
		assert.Equal("/api/v1/points/forge", created.URI)
	}

	w = do(t, h, http.MethodGet, "/api/v1/points", "", nil)
	if assert.Equal(http.StatusOK, w.Code) {
		var all []api.PointModel
		decode(t, w, &all)
		if assert.Len(all, 2) {
			assert.Equal("forge", all[0].Name)
			assert.Equal("gate", all[1].Name)
			assert.Equal([]int{0, 64, 5}, all[1].Position)
		}
	}

	w = do(t, h, http.MethodDelete, "/api/v1/points/forge", tok, nil)
	assert.Equal(http.StatusNoContent, w.Code)

	w = do(t, h, http.MethodGet, "/api/v1/points/forge", "", nil)
	assert.Equal(http.StatusNotFound, w.Code)

	w = do(t, h, http.MethodDelete, "/api/v1/points/forge", tok, nil)
	assert.Equal(http.StatusNotFound, w.Code)
}

func Test_Server_history(t *testing.T) {
	assert := assert.New(t)
	h := newTestServer(t).Handler()
	tok := login(t, h)

	for _, line := range []string{"time set 0.25", "kill"} {
		w := do(t, h, http.MethodPost, "/api/v1/dispatch", tok, api.DispatchRequest{Line: line})
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := do(t, h, http.MethodGet, "/api/v1/history", "", nil)
	assert.Equal(http.StatusUnauthorized, w.Code)

	w = do(t, h, http.MethodGet, "/api/v1/history?limit=1", tok, nil)
	if assert.Equal(http.StatusOK, w.Code) {
		var entries []api.HistoryEntryModel
		decode(t, w, &entries)
		if assert.Len(entries, 1) {
			assert.Equal("kill", entries[0].Line)
			assert.False(entries[0].Success)
			assert.Equal("block at (0, 0, 0)", entries[0].Origin)
		}
	}

	w = do(t, h, http.MethodGet, "/api/v1/history", tok, nil)
	if assert.Equal(http.StatusOK, w.Code) {
		var entries []api.HistoryEntryModel
		decode(t, w, &entries)
		assert.Len(entries, 2)
	}

	w = do(t, h, http.MethodGet, "/api/v1/history?limit=zero", tok, nil)
	assert.Equal(http.StatusBadRequest, w.Code)
	w = do(t, h, http.MethodGet, "/api/v1/history?limit=0", tok, nil)
	assert.Equal(http.StatusBadRequest, w.Code)
}

func Test_Server_notFound(t *testing.T) {
	assert := assert.New(t)
	h := newTestServer(t).Handler()

	w := do(t, h, http.MethodGet, "/api/v1/users", "", nil)

	assert.Equal(http.StatusNotFound, w.Code)
}

func Test_Server_cors(t *testing.T) {
	scenPath := filepath.Join(t.TempDir(), "keep.cbw")
	require.NoError(t, os.WriteFile(scenPath, []byte(testScenario), 0o644))

	cfg := Config{
		OperatorSecret:    []byte("operator"),
		ScenarioPath:      scenPath,
		UnauthDelayMillis: -1,
		AllowedOrigins:    []string{"https://console.example.com"},
	}.FillDefaults()
	srv, err := New(cfg, nil)
	require.NoError(t, err)
	defer srv.db.Close()

	testCases := []struct {
		name         string
		origin       string
		expectHeader string
	}{
		{name: "allowed origin", origin: "https://console.example.com", expectHeader: "https://console.example.com"},
		{name: "other origin", origin: "https://elsewhere.example.com", expectHeader: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			req := httptest.NewRequest(http.MethodGet, "/api/v1/commands", nil)
			req.Header.Set("Origin", tc.origin)
			w := httptest.NewRecorder()

			srv.Handler().ServeHTTP(w, req)

			assert.Equal(http.StatusOK, w.Code)
			assert.Equal(tc.expectHeader, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}
