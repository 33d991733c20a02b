package result

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Result_WriteResponse(t *testing.T) {
	testCases := []struct {
		name         string
		result       Result
		expectStatus int
		expectBody   string
		expectHeader map[string]string
	}{
		{
			name:         "ok with body",
			result:       OK(map[string]int{"count": 2}),
			expectStatus: http.StatusOK,
			expectBody:   `{"count":2}`,
			expectHeader: map[string]string{"Content-Type": "application/json"},
		},
		{
			name:         "no content has no body",
			result:       NoContent("point %q deleted", "gate"),
			expectStatus: http.StatusNoContent,
			expectBody:   "",
		},
		{
			name:         "bad request",
			result:       BadRequest("line: property is empty or missing from request"),
			expectStatus: http.StatusBadRequest,
			expectBody:   `{"error":"line: property is empty or missing from request","status":400}`,
		},
		{
			name:         "unauthorized sets authenticate header",
			result:       Unauthorized(""),
			expectStatus: http.StatusUnauthorized,
			expectBody:   `{"error":"You are not authorized to do that","status":401}`,
			expectHeader: map[string]string{"WWW-Authenticate": `Bearer realm="cmdblock server", charset="utf-8"`},
		},
		{
			name:         "redirect",
			result:       Redirection("/api/v1/info"),
			expectStatus: http.StatusPermanentRedirect,
			expectHeader: map[string]string{"Location": "/api/v1/info"},
		},
		{
			name:         "text error",
			result:       TextErr(http.StatusInternalServerError, "broken", "panic"),
			expectStatus: http.StatusInternalServerError,
			expectBody:   "broken",
			expectHeader: map[string]string{"Content-Type": "text/plain; charset=utf-8"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			w := httptest.NewRecorder()

			tc.result.WriteResponse(w)

			assert.Equal(tc.expectStatus, w.Code)
			assert.Equal(tc.expectBody, w.Body.String())
			for k, v := range tc.expectHeader {
				assert.Equal(v, w.Header().Get(k), "header %s", k)
			}
		})
	}
}

func Test_Result_internalMsg(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("OK", OK(nil).InternalMsg)
	assert.Equal("point gate saved", Created(nil, "point %s saved", "gate").InternalMsg)
	assert.True(NotFound().IsErr)
	assert.False(OK(nil).IsErr)
}

func Test_Result_WithHeader_doesNotShare(t *testing.T) {
	assert := assert.New(t)
	base := OK("x").WithHeader("A", "1")

	withB := base.WithHeader("B", "2")
	withC := base.WithHeader("C", "3")

	assert.Len(base.hdrs, 1)
	assert.Equal([2]string{"B", "2"}, withB.hdrs[1])
	assert.Equal([2]string{"C", "3"}, withC.hdrs[1])
}
