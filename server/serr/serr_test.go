package serr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Error_Error(t *testing.T) {
	testCases := []struct {
		name   string
		err    Error
		expect string
	}{
		{
			name:   "message only",
			err:    New("point name is blank"),
			expect: "point name is blank",
		},
		{
			name:   "cause only",
			err:    New("", ErrNotFound),
			expect: "the requested entity could not be found",
		},
		{
			name:   "message and causes",
			err:    New("could not get point", ErrNotFound, ErrDB),
			expect: "could not get point: the requested entity could not be found",
		},
		{
			name:   "wrapped db error",
			err:    WrapDB("could not list points", fmt.Errorf("disk full")),
			expect: "could not list points: disk full",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			assert.Equal(tc.expect, tc.err.Error())
		})
	}
}

func Test_Error_Is(t *testing.T) {
	assert := assert.New(t)
	cause := errors.New("disk full")

	err := fmt.Errorf("handling request: %w", WrapDB("", cause))

	assert.ErrorIs(err, cause)
	assert.ErrorIs(err, ErrDB)
	assert.NotErrorIs(err, ErrNotFound)
}
