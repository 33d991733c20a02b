package command

import (
	"strings"
	"unicode"
)

var escapes = map[rune]rune{
	'n': '\n',
	'r': '\r',
	't': '\t',
	'"': '"',
	' ': ' ',
}

// Tokenize splits a line of command text into tokens. Whitespace separates
// tokens unless it is inside double quotes or escaped with a backslash. The
// supported escapes are \n, \r, \t, \" and "\ "; any other escaped character
// is dropped, as is a backslash at the very end of the line.
//
// An opening quote ends the token in progress, but a closing quote does not:
// `ab"c d"e` gives the two tokens "ab" and "c de". Empty tokens, including an
// empty pair of quotes, are never returned.
func Tokenize(line string) []string {
	var tokens []string
	var cur strings.Builder
	quoted := false

	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]

		switch {
		case ch == '\\':
			if i+1 >= len(runes) {
				continue
			}
			i++
			if esc, ok := escapes[runes[i]]; ok {
				cur.WriteRune(esc)
			}
		case ch == '"':
			if !quoted {
				flush()
			}
			quoted = !quoted
		case !quoted && unicode.IsSpace(ch):
			flush()
		default:
			cur.WriteRune(ch)
		}
	}
	flush()

	return tokens
}

// EndsReady returns whether the line ends in whitespace, meaning the user has
// finished the last token and is ready for the next one.
func EndsReady(line string) bool {
	if line == "" {
		return false
	}
	r := []rune(line)
	return unicode.IsSpace(r[len(r)-1])
}
