package suggest

import (
	"fmt"

	"github.com/dekarrin/cmdblock/internal/util"
)

// Describe gives a one-line description of s for showing to a person.
func Describe(s Suggestion) string {
	switch s.Kind {
	case KindExpect:
		return expecting(s.Type.String())
	case KindExpectType:
		return expecting(s.TypeName)
	case KindChoose:
		if len(s.Options) == 0 {
			return "nothing can go here"
		}
		return "expecting " + util.OrList(Values(s.Options))
	case KindNarrow:
		if len(s.Matches) == 0 {
			return fmt.Sprintf("nothing matches %q", s.Partial)
		}
		return "could be " + util.OrList(Values(s.Matches))
	case KindError:
		return s.Message
	default:
		return ""
	}
}

func expecting(typeName string) string {
	return "expecting " + util.ArticleFor(typeName) + " " + typeName
}

// Values returns the Value of each option.
func Values(opts []Option) []string {
	values := make([]string, len(opts))
	for i := range opts {
		values[i] = opts[i].Value
	}
	return values
}
