package logging

import (
	"bytes"
	"testing"

	clog "github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func Test_ParseLevel(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expect    clog.Level
		expectErr bool
	}{
		{name: "empty is info", input: "", expect: clog.InfoLevel},
		{name: "debug", input: "debug", expect: clog.DebugLevel},
		{name: "upper warn", input: "WARN", expect: clog.WarnLevel},
		{name: "warning alias", input: "warning", expect: clog.WarnLevel},
		{name: "error", input: "error", expect: clog.ErrorLevel},
		{name: "unknown", input: "chatty", expect: clog.InfoLevel, expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := ParseLevel(tc.input)
			if tc.expectErr {
				assert.Error(err)
				return
			} else if !assert.NoError(err) {
				return
			}

			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_New_respectsLevel(t *testing.T) {
	assert := assert.New(t)
	var buf bytes.Buffer

	l := New(&buf, clog.WarnLevel)
	l.Info("quiet")
	l.Warn("loud", "command", "kill")

	assert.NotContains(buf.String(), "quiet")
	assert.Contains(buf.String(), "loud")
	assert.Contains(buf.String(), "command=kill")
}
