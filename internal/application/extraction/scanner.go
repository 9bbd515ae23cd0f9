package extraction

import (
	"errors"
	"fmt"
	"strings"
)

// Shape is the JSON container kind a schema expects.
type Shape int

const (
	ShapeArray Shape = iota + 1
	ShapeObject
)

func (s Shape) String() string {
	switch s {
	case ShapeArray:
		return "array"
	case ShapeObject:
		return "object"
	default:
		return "unknown"
	}
}

func (s Shape) brackets() (open, close byte) {
	if s == ShapeArray {
		return '[', ']'
	}
	return '{', '}'
}

var (
	errNoOpening = errors.New("no opening bracket")
	errUnclosed  = errors.New("opening bracket is never closed")
)

// locate returns the substring from the first opening bracket of shape to
// its matching close. Brackets inside JSON string literals are ignored, so
// `{"a": "}"}` is one object.
func locate(text string, shape Shape) (string, error) {
	open, close := shape.brackets()

	start := strings.IndexByte(text, open)
	if start < 0 {
		return "", fmt.Errorf("%w %q", errNoOpening, open)
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}
	return "", errUnclosed
}
