package command

import (
	"fmt"
	"strings"
)

// TypeTag names a kind of argument that can be read from a Stream without
// knowing the Go type at compile time.
type TypeTag int

const (
	TypeString TypeTag = iota
	TypeBool
	TypeInt
	TypeFloat
	TypePoint2
	TypeVector2
	TypePoint3
	TypeVector3
)

var typeNames = map[TypeTag]string{
	TypeString:  "string",
	TypeBool:    "boolean",
	TypeInt:     "integer",
	TypeFloat:   "float",
	TypePoint2:  "point2",
	TypeVector2: "vector2",
	TypePoint3:  "point",
	TypeVector3: "vector",
}

func (t TypeTag) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TypeTag(%d)", int(t))
}

// ParseTypeTag is the inverse of TypeTag.String. Matching ignores case.
func ParseTypeTag(s string) (TypeTag, error) {
	lower := strings.ToLower(s)
	for t, name := range typeNames {
		if name == lower {
			return t, nil
		}
	}
	return TypeString, fmt.Errorf("not a valid argument type: %q", s)
}

// NextTyped reads the next argument as the Go type matching t: string, bool,
// int, float64, geom.Point2, geom.Vector2, geom.Point3 or geom.Vector3.
func (s *Stream) NextTyped(t TypeTag) (any, error) {
	switch t {
	case TypeString:
		return s.NextString()
	case TypeBool:
		return s.NextBool()
	case TypeInt:
		return s.NextInt()
	case TypeFloat:
		return s.NextFloat()
	case TypePoint2:
		return s.NextPoint2()
	case TypeVector2:
		return s.NextVector2()
	case TypePoint3:
		return s.NextPoint()
	case TypeVector3:
		return s.NextVector()
	default:
		return nil, fmt.Errorf("unsupported argument type %s", t)
	}
}
