package command

import (
	"errors"
	"fmt"

	"github.com/dekarrin/cmdblock/internal/util"
)

// ArgumentNotFoundError is returned when a command asks for another argument
// but the tokens have run out. Reads with a default value swallow it.
type ArgumentNotFoundError struct {
	// Expected is the name of the type that was being read.
	Expected string

	// After is the last token before the missing argument.
	After string
}

func (e *ArgumentNotFoundError) Error() string {
	return fmt.Sprintf("another %s is expected after %s", e.Expected, e.After)
}

// WrongArgumentTypeError is returned when the next token does not parse as the
// type being read. It is never replaced by a default value.
type WrongArgumentTypeError struct {
	// Token is the text that failed to parse.
	Token string

	// Expected is the name of the type that was being read.
	Expected string
}

func (e *WrongArgumentTypeError) Error() string {
	return fmt.Sprintf("%s is not %s %s", e.Token, util.ArticleFor(e.Expected), e.Expected)
}

// IsNotFound returns whether err is or wraps an ArgumentNotFoundError.
func IsNotFound(err error) bool {
	var nf *ArgumentNotFoundError
	return errors.As(err, &nf)
}

// IsWrongType returns whether err is or wraps a WrongArgumentTypeError.
func IsWrongType(err error) bool {
	var wt *WrongArgumentTypeError
	return errors.As(err, &wt)
}
