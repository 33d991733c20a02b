package input

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_DirectCommandReader_ReadCommand(t *testing.T) {
	testCases := []struct {
		name       string
		input      string
		allowBlank bool
		expect     []string
	}{
		{
			name:   "single line",
			input:  "msg @a hi\n",
			expect: []string{"msg @a hi"},
		},
		{
			name:   "no trailing newline",
			input:  "kill @e",
			expect: []string{"kill @e"},
		},
		{
			name:   "blank lines are skipped",
			input:  "\n   \nhelp\n\ntime set 0.5\n",
			expect: []string{"help", "time set 0.5"},
		},
		{
			name:       "blank lines allowed",
			input:      "\nhelp\n",
			allowBlank: true,
			expect:     []string{"", "help"},
		},
		{
			name:   "leading space is trimmed",
			input:  "  tp 1 2 3\n",
			expect: []string{"tp 1 2 3"},
		},
		{
			name:   "trailing space is kept",
			input:  "time \r\n",
			expect: []string{"time "},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			r := NewDirectReader(strings.NewReader(tc.input))
			r.AllowBlank(tc.allowBlank)

			var actual []string
			for {
				line, err := r.ReadCommand()
				if err == io.EOF {
					break
				}
				if !assert.NoError(err) {
					return
				}
				actual = append(actual, line)
			}

			assert.Equal(tc.expect, actual)
			assert.NoError(r.Close())
		})
	}
}

func Test_Completer_Do(t *testing.T) {
	testCases := []struct {
		name         string
		line         string
		pos          int
		typed        string
		words        []string
		expectLines  []string
		expectLength int
	}{
		{
			name:         "new token offers every word",
			line:         "time ",
			pos:          5,
			words:        []string{"add", "set"},
			expectLines:  []string{"add ", "set "},
			expectLength: 0,
		},
		{
			name:         "partial token offers the rest of matching words",
			line:         "su",
			pos:          2,
			typed:        "su",
			words:        []string{"summon", "strike", "setblock"},
			expectLines:  []string{"mmon "},
			expectLength: 2,
		},
		{
			name:         "nothing matches",
			line:         "xy",
			pos:          2,
			typed:        "xy",
			words:        []string{"kill"},
			expectLength: 2,
		},
		{
			name:         "only text before the cursor is completed",
			line:         "ki @e",
			pos:          2,
			typed:        "ki",
			words:        []string{"kill"},
			expectLines:  []string{"ll "},
			expectLength: 2,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			var gotLine string
			c := Completer{Complete: func(line string) (string, []string) {
				gotLine = line
				return tc.typed, tc.words
			}}

			newLine, length := c.Do([]rune(tc.line), tc.pos)

			var actual []string
			for _, r := range newLine {
				actual = append(actual, string(r))
			}
			assert.Equal(tc.line[:tc.pos], gotLine)
			assert.Equal(tc.expectLines, actual)
			assert.Equal(tc.expectLength, length)
		})
	}
}
