package suggest

import (
	"testing"

	"github.com/dekarrin/cmdblock/internal/command"
	"github.com/stretchr/testify/assert"
)

func Test_Describe(t *testing.T) {
	testCases := []struct {
		name   string
		input  Suggestion
		expect string
	}{
		{
			name:   "expect primitive",
			input:  Expect(command.TypeInt),
			expect: "expecting an integer",
		},
		{
			name:   "expect named type",
			input:  ExpectType("selector"),
			expect: "expecting a selector",
		},
		{
			name:   "choose from two",
			input:  Choose(Options("add", "set")),
			expect: "expecting add or set",
		},
		{
			name:   "choose from nothing",
			input:  Choose(nil),
			expect: "nothing can go here",
		},
		{
			name:   "narrow with matches",
			input:  Narrow("se", Options("set", "setblock", "kill")),
			expect: "could be set or setblock",
		},
		{
			name:   "narrow without matches",
			input:  Narrow("zz", Options("kill")),
			expect: `nothing matches "zz"`,
		},
		{
			name:   "error",
			input:  Error("x is not an integer"),
			expect: "x is not an integer",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			assert.Equal(tc.expect, Describe(tc.input))
		})
	}
}
